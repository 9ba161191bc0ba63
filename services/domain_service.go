package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/itassets/domain-api/models"
	"github.com/itassets/domain-api/repositories"
	"go.uber.org/zap"
)

// ErrDomainNameTaken is returned when creating a domain whose name is
// already registered.
var ErrDomainNameTaken = errors.New("domain name already registered")

// DomainService wraps the domain repository with business rules and
// logging.
type DomainService struct {
	repo   repositories.DomainRepository
	logger *zap.Logger
}

// NewDomainService creates a new DomainService
func NewDomainService(repo repositories.DomainRepository, logger *zap.Logger) *DomainService {
	return &DomainService{
		repo:   repo,
		logger: logger,
	}
}

// CreateDomain stores a new domain record. Names are unique.
func (s *DomainService) CreateDomain(ctx context.Context, domain *models.Domain) error {
	_, err := s.repo.GetByName(ctx, domain.Name)
	if err == nil {
		return ErrDomainNameTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check domain name: %w", err)
	}

	if err := s.repo.Create(ctx, domain); err != nil {
		s.logger.Error("failed to create domain", zap.String("name", domain.Name), zap.Error(err))
		return err
	}

	s.logger.Info("domain created", zap.String("id", domain.ID), zap.String("name", domain.Name))
	return nil
}

// GetAllDomains retrieves every domain record
func (s *DomainService) GetAllDomains(ctx context.Context) ([]*models.Domain, error) {
	return s.repo.List(ctx, repositories.DomainFilter{})
}

// GetDomainByID retrieves a domain record by id
func (s *DomainService) GetDomainByID(ctx context.Context, id string) (*models.Domain, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateDomain replaces a stored domain record
func (s *DomainService) UpdateDomain(ctx context.Context, domain *models.Domain) error {
	if err := s.repo.Update(ctx, domain); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Error("failed to update domain", zap.String("id", domain.ID), zap.Error(err))
		}
		return err
	}

	s.logger.Info("domain updated", zap.String("id", domain.ID), zap.String("name", domain.Name))
	return nil
}

// DeleteDomain removes a domain record
func (s *DomainService) DeleteDomain(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Error("failed to delete domain", zap.String("id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("domain deleted", zap.String("id", id))
	return nil
}

// SetDomainStatus enables or disables a domain record
func (s *DomainService) SetDomainStatus(ctx context.Context, id string, enabled bool) (*models.Domain, error) {
	domain, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	domain.Enabled = enabled
	if err := s.repo.Update(ctx, domain); err != nil {
		s.logger.Error("failed to update domain status", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("domain status updated", zap.String("id", id), zap.Bool("enabled", enabled))
	return domain, nil
}

// GetDomainsByType retrieves domain records with the given record type
func (s *DomainService) GetDomainsByType(ctx context.Context, recordType models.DNSRecordType) ([]*models.Domain, error) {
	return s.repo.List(ctx, repositories.DomainFilter{RecordType: recordType})
}

// GetDomainsByStatus retrieves domain records with the given enabled state
func (s *DomainService) GetDomainsByStatus(ctx context.Context, enabled bool) ([]*models.Domain, error) {
	return s.repo.List(ctx, repositories.DomainFilter{Enabled: &enabled})
}
