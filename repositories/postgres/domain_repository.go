package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/itassets/domain-api/models"
	"github.com/itassets/domain-api/repositories"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// DomainRepository implements repositories.DomainRepository on PostgreSQL
type DomainRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDomainRepository creates a new postgres-backed domain repository
func NewDomainRepository(db *DB, logger *zap.Logger) *DomainRepository {
	return &DomainRepository{
		db:     db,
		logger: logger,
	}
}

const domainColumns = `id, name, description, target_address, record_type, ttl, priority,
	admin, enabled, creator, updater, tags, metadata, created_at, updated_at`

// Create stores a new domain record
func (r *DomainRepository) Create(ctx context.Context, domain *models.Domain) error {
	query := `
		INSERT INTO domains (` + domainColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	metadata, err := marshalMetadata(domain.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		domain.ID,
		domain.Name,
		domain.Description,
		domain.TargetAddress,
		string(domain.RecordType),
		domain.TTL,
		nullableInt(domain.Priority),
		domain.Admin,
		domain.Enabled,
		domain.Creator,
		domain.Updater,
		pq.Array(domain.Tags),
		metadata,
		domain.CreatedAt,
		domain.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create domain: %w", err)
	}

	r.logger.Debug("domain stored", zap.String("id", domain.ID), zap.String("name", domain.Name))
	return nil
}

// GetByID retrieves a domain record by id
func (r *DomainRepository) GetByID(ctx context.Context, id string) (*models.Domain, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a domain record by name
func (r *DomainRepository) GetByName(ctx context.Context, name string) (*models.Domain, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE name = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

// List retrieves domain records matching the filter
func (r *DomainRepository) List(ctx context.Context, filter repositories.DomainFilter) ([]*models.Domain, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE 1=1`
	args := []interface{}{}

	if filter.RecordType != "" {
		args = append(args, string(filter.RecordType))
		query += fmt.Sprintf(" AND record_type = $%d", len(args))
	}
	if filter.Enabled != nil {
		args = append(args, *filter.Enabled)
		query += fmt.Sprintf(" AND enabled = $%d", len(args))
	}
	if filter.Admin != "" {
		args = append(args, filter.Admin)
		query += fmt.Sprintf(" AND admin = $%d", len(args))
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []*models.Domain
	for rows.Next() {
		domain, err := scanDomain(rows)
		if err != nil {
			return nil, err
		}
		domains = append(domains, domain)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate domains: %w", err)
	}
	return domains, nil
}

// Update replaces a stored domain record
func (r *DomainRepository) Update(ctx context.Context, domain *models.Domain) error {
	query := `
		UPDATE domains
		SET name = $2, description = $3, target_address = $4, record_type = $5,
			ttl = $6, priority = $7, admin = $8, enabled = $9, updater = $10,
			tags = $11, metadata = $12, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	metadata, err := marshalMetadata(domain.Metadata)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query,
		domain.ID,
		domain.Name,
		domain.Description,
		domain.TargetAddress,
		string(domain.RecordType),
		domain.TTL,
		nullableInt(domain.Priority),
		domain.Admin,
		domain.Enabled,
		domain.Updater,
		pq.Array(domain.Tags),
		metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to update domain: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("domain updated", zap.String("id", domain.ID))
	return nil
}

// Delete removes a domain record
func (r *DomainRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM domains WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete domain: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("domain deleted", zap.String("id", id))
	return nil
}

// scanner covers *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *DomainRepository) scanOne(row *sql.Row) (*models.Domain, error) {
	domain, err := scanDomain(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return domain, nil
}

func scanDomain(s scanner) (*models.Domain, error) {
	domain := &models.Domain{}
	var (
		description sql.NullString
		priority    sql.NullInt64
		creator     sql.NullString
		updater     sql.NullString
		recordType  string
		tags        pq.StringArray
		metadata    []byte
	)

	err := s.Scan(
		&domain.ID,
		&domain.Name,
		&description,
		&domain.TargetAddress,
		&recordType,
		&domain.TTL,
		&priority,
		&domain.Admin,
		&domain.Enabled,
		&creator,
		&updater,
		&tags,
		&metadata,
		&domain.CreatedAt,
		&domain.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan domain: %w", err)
	}

	domain.Description = description.String
	domain.Creator = creator.String
	domain.Updater = updater.String
	domain.RecordType = models.DNSRecordType(recordType)
	domain.Tags = tags
	if priority.Valid {
		p := int(priority.Int64)
		domain.Priority = &p
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &domain.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode domain metadata: %w", err)
		}
	}
	return domain, nil
}

func marshalMetadata(metadata map[string]interface{}) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode domain metadata: %w", err)
	}
	return data, nil
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
