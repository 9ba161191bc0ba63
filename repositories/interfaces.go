package repositories

import (
	"context"
	"errors"

	"github.com/itassets/domain-api/models"
)

// ErrNotFound is returned when a requested domain record does not
// exist. Callers rely on it to distinguish absence from store failure.
var ErrNotFound = errors.New("domain not found")

// DomainFilter narrows List results. Zero values mean "no constraint".
type DomainFilter struct {
	RecordType models.DNSRecordType
	Enabled    *bool
	Admin      string
}

// DomainRepository handles domain record storage. Implementations must
// support safe concurrent reads.
type DomainRepository interface {
	// Create stores a new domain record
	Create(ctx context.Context, domain *models.Domain) error

	// GetByID retrieves a domain record by id, ErrNotFound when absent
	GetByID(ctx context.Context, id string) (*models.Domain, error)

	// GetByName retrieves a domain record by name, ErrNotFound when absent
	GetByName(ctx context.Context, name string) (*models.Domain, error)

	// List retrieves domain records matching the filter
	List(ctx context.Context, filter DomainFilter) ([]*models.Domain, error)

	// Update replaces a stored domain record, ErrNotFound when absent
	Update(ctx context.Context, domain *models.Domain) error

	// Delete removes a domain record, ErrNotFound when absent
	Delete(ctx context.Context, id string) error
}
