package memory

import (
	"context"
	"sync"
	"time"

	"github.com/itassets/domain-api/models"
	"github.com/itassets/domain-api/repositories"
	"go.uber.org/zap"
)

// DomainRepository is a mutex-guarded in-memory implementation of
// repositories.DomainRepository. It is the default store: records
// live for the process lifetime only.
type DomainRepository struct {
	mu      sync.RWMutex
	domains map[string]*models.Domain
	logger  *zap.Logger
}

// NewDomainRepository creates an empty in-memory repository
func NewDomainRepository(logger *zap.Logger) *DomainRepository {
	return &DomainRepository{
		domains: make(map[string]*models.Domain),
		logger:  logger,
	}
}

// Create stores a new domain record
func (r *DomainRepository) Create(ctx context.Context, domain *models.Domain) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *domain
	r.domains[domain.ID] = &stored

	r.logger.Debug("domain stored", zap.String("id", domain.ID), zap.String("name", domain.Name))
	return nil
}

// GetByID retrieves a domain record by id
func (r *DomainRepository) GetByID(ctx context.Context, id string) (*models.Domain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	domain, ok := r.domains[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *domain
	return &copied, nil
}

// GetByName retrieves a domain record by name
func (r *DomainRepository) GetByName(ctx context.Context, name string) (*models.Domain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, domain := range r.domains {
		if domain.Name == name {
			copied := *domain
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// List retrieves domain records matching the filter
func (r *DomainRepository) List(ctx context.Context, filter repositories.DomainFilter) ([]*models.Domain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Domain, 0, len(r.domains))
	for _, domain := range r.domains {
		if filter.RecordType != "" && domain.RecordType != filter.RecordType {
			continue
		}
		if filter.Enabled != nil && domain.Enabled != *filter.Enabled {
			continue
		}
		if filter.Admin != "" && domain.Admin != filter.Admin {
			continue
		}
		copied := *domain
		result = append(result, &copied)
	}
	return result, nil
}

// Update replaces a stored domain record
func (r *DomainRepository) Update(ctx context.Context, domain *models.Domain) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.domains[domain.ID]; !ok {
		return repositories.ErrNotFound
	}
	domain.UpdatedAt = time.Now().UTC()
	stored := *domain
	r.domains[domain.ID] = &stored

	r.logger.Debug("domain updated", zap.String("id", domain.ID))
	return nil
}

// Delete removes a domain record
func (r *DomainRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.domains[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.domains, id)

	r.logger.Debug("domain deleted", zap.String("id", id))
	return nil
}
