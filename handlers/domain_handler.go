package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/itassets/domain-api/middleware"
	"github.com/itassets/domain-api/models"
	"github.com/itassets/domain-api/repositories"
	"github.com/itassets/domain-api/services"
	"github.com/itassets/domain-api/utils"
	"go.uber.org/zap"
)

// CreateDomainRequest represents a request to create a domain record.
// Admin may be omitted: ownership then defaults to the creator.
type CreateDomainRequest struct {
	Name          string                 `json:"name" validate:"required,min=1,max=255"`
	Description   string                 `json:"description" validate:"omitempty,max=500"`
	TargetAddress string                 `json:"targetAddress" validate:"required,max=255"`
	RecordType    models.DNSRecordType   `json:"recordType" validate:"required,oneof=A AAAA CNAME MX TXT NS SRV"`
	TTL           int                    `json:"ttl" validate:"omitempty,gte=0"`
	Priority      *int                   `json:"priority" validate:"omitempty,gte=0,lte=65535"`
	Admin         string                 `json:"admin"`
	Enabled       *bool                  `json:"enabled"`
	Tags          []string               `json:"tags"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// UpdateDomainRequest represents a request to update a domain record
type UpdateDomainRequest struct {
	Name          *string                `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string                `json:"description" validate:"omitempty,max=500"`
	TargetAddress *string                `json:"targetAddress" validate:"omitempty,max=255"`
	RecordType    *models.DNSRecordType  `json:"recordType" validate:"omitempty,oneof=A AAAA CNAME MX TXT NS SRV"`
	TTL           *int                   `json:"ttl" validate:"omitempty,gte=0"`
	Priority      *int                   `json:"priority" validate:"omitempty,gte=0,lte=65535"`
	Admin         *string                `json:"admin"`
	Enabled       *bool                  `json:"enabled"`
	Tags          []string               `json:"tags"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// UpdateDomainStatusRequest represents a request to toggle a domain record
type UpdateDomainStatusRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// DomainService defines the domain operations the handler needs
type DomainService interface {
	CreateDomain(ctx context.Context, domain *models.Domain) error
	GetAllDomains(ctx context.Context) ([]*models.Domain, error)
	GetDomainByID(ctx context.Context, id string) (*models.Domain, error)
	UpdateDomain(ctx context.Context, domain *models.Domain) error
	DeleteDomain(ctx context.Context, id string) error
	SetDomainStatus(ctx context.Context, id string, enabled bool) (*models.Domain, error)
	GetDomainsByType(ctx context.Context, recordType models.DNSRecordType) ([]*models.Domain, error)
	GetDomainsByStatus(ctx context.Context, enabled bool) ([]*models.Domain, error)
}

// DomainHandler handles domain record HTTP requests
type DomainHandler struct {
	service DomainService
	logger  *zap.Logger
}

// NewDomainHandler creates a new DomainHandler
func NewDomainHandler(service DomainService, logger *zap.Logger) *DomainHandler {
	return &DomainHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreateDomain handles POST /api/v1/domains
func (h *DomainHandler) HandleCreateDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	var req CreateDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.writeValidationError(w, requestID, err)
		return
	}

	domain := models.NewDomain(req.Name, req.TargetAddress, req.RecordType, req.Admin)
	domain.Description = req.Description
	domain.TTL = req.TTL
	domain.Priority = req.Priority
	domain.Tags = req.Tags
	domain.Metadata = req.Metadata
	if req.Enabled != nil {
		domain.Enabled = *req.Enabled
	}

	// Ownership defaults to the creator when the body declares no admin.
	if principal := middleware.GetPrincipalFromContext(ctx); principal != nil {
		domain.Creator = principal.Username
		if domain.Admin == "" {
			domain.Admin = principal.Username
		}
	}

	if err := h.service.CreateDomain(ctx, domain); err != nil {
		if errors.Is(err, services.ErrDomainNameTaken) {
			_ = utils.WriteConflict(w, "Domain name already registered")
			return
		}
		h.logger.Error("failed to create domain",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to create domain")
		return
	}

	_ = utils.WriteSuccess(w, http.StatusCreated, "Domain created successfully", domain)
}

// HandleListDomains handles GET /api/v1/domains
func (h *DomainHandler) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	domains, err := h.service.GetAllDomains(ctx)
	if err != nil {
		h.logger.Error("failed to list domains",
			zap.String("request_id", chimw.GetReqID(ctx)),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to retrieve domains")
		return
	}

	domains = filterByOwner(ctx, domains)
	_ = utils.WriteList(w, "Domains retrieved successfully", domains, len(domains))
}

// HandleGetDomain handles GET /api/v1/domains/{id}
func (h *DomainHandler) HandleGetDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	domain, err := h.service.GetDomainByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Domain not found")
			return
		}
		h.logger.Error("failed to get domain",
			zap.String("request_id", chimw.GetReqID(ctx)),
			zap.String("id", id),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to retrieve domain")
		return
	}

	_ = utils.WriteSuccess(w, http.StatusOK, "Domain retrieved successfully", domain)
}

// HandleUpdateDomain handles PUT /api/v1/domains/{id}
func (h *DomainHandler) HandleUpdateDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)
	id := chi.URLParam(r, "id")

	var req UpdateDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.writeValidationError(w, requestID, err)
		return
	}

	domain, err := h.service.GetDomainByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Domain not found")
			return
		}
		h.logger.Error("failed to get domain",
			zap.String("request_id", requestID),
			zap.String("id", id),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to retrieve domain")
		return
	}

	applyUpdate(domain, &req)
	if principal := middleware.GetPrincipalFromContext(ctx); principal != nil {
		domain.Updater = principal.Username
	}

	if err := h.service.UpdateDomain(ctx, domain); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Domain not found")
			return
		}
		h.logger.Error("failed to update domain",
			zap.String("request_id", requestID),
			zap.String("id", id),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to update domain")
		return
	}

	_ = utils.WriteSuccess(w, http.StatusOK, "Domain updated successfully", domain)
}

// HandleDeleteDomain handles DELETE /api/v1/domains/{id}
func (h *DomainHandler) HandleDeleteDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteDomain(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Domain not found")
			return
		}
		h.logger.Error("failed to delete domain",
			zap.String("request_id", chimw.GetReqID(ctx)),
			zap.String("id", id),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to delete domain")
		return
	}

	_ = utils.WriteSuccess(w, http.StatusOK, "Domain deleted successfully", nil)
}

// HandleUpdateDomainStatus handles PATCH /api/v1/domains/{id}/status
func (h *DomainHandler) HandleUpdateDomainStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)
	id := chi.URLParam(r, "id")

	var req UpdateDomainStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.writeValidationError(w, requestID, err)
		return
	}

	domain, err := h.service.SetDomainStatus(ctx, id, *req.Enabled)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Domain not found")
			return
		}
		h.logger.Error("failed to update domain status",
			zap.String("request_id", requestID),
			zap.String("id", id),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to update domain status")
		return
	}

	_ = utils.WriteSuccess(w, http.StatusOK, "Domain status updated successfully", domain)
}

// HandleListDomainsByType handles GET /api/v1/domains/type/{recordType}
func (h *DomainHandler) HandleListDomainsByType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordType := models.DNSRecordType(chi.URLParam(r, "recordType"))
	if !recordType.IsValid() {
		_ = utils.WriteBadRequest(w, "Unknown DNS record type")
		return
	}

	domains, err := h.service.GetDomainsByType(ctx, recordType)
	if err != nil {
		h.logger.Error("failed to list domains by type",
			zap.String("request_id", chimw.GetReqID(ctx)),
			zap.String("record_type", string(recordType)),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to retrieve domains")
		return
	}

	domains = filterByOwner(ctx, domains)
	_ = utils.WriteList(w, "Domains retrieved by type successfully", domains, len(domains))
}

// HandleListDomainsByStatus handles GET /api/v1/domains/status/{status}
func (h *DomainHandler) HandleListDomainsByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enabled := chi.URLParam(r, "status") == "enabled"
	domains, err := h.service.GetDomainsByStatus(ctx, enabled)
	if err != nil {
		h.logger.Error("failed to list domains by status",
			zap.String("request_id", chimw.GetReqID(ctx)),
			zap.Bool("enabled", enabled),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to retrieve domains")
		return
	}

	domains = filterByOwner(ctx, domains)
	_ = utils.WriteList(w, "Domains retrieved by status successfully", domains, len(domains))
}

func (h *DomainHandler) writeValidationError(w http.ResponseWriter, requestID string, err error) {
	h.logger.Warn("request validation failed",
		zap.String("request_id", requestID),
		zap.Error(err))
	if fields := utils.GetValidationFields(err); fields != nil {
		_ = utils.WriteValidationError(w, fields)
		return
	}
	_ = utils.WriteBadRequest(w, "Validation failed")
}

// filterByOwner applies the AllowWithFilter decision: when the request
// is marked, only records administered by the marked owner survive.
func filterByOwner(ctx context.Context, domains []*models.Domain) []*models.Domain {
	owner := middleware.GetFilterOwnerFromContext(ctx)
	if owner == "" {
		return domains
	}
	filtered := make([]*models.Domain, 0, len(domains))
	for _, domain := range domains {
		if domain.Admin == owner {
			filtered = append(filtered, domain)
		}
	}
	return filtered
}

func applyUpdate(domain *models.Domain, req *UpdateDomainRequest) {
	if req.Name != nil {
		domain.Name = *req.Name
	}
	if req.Description != nil {
		domain.Description = *req.Description
	}
	if req.TargetAddress != nil {
		domain.TargetAddress = *req.TargetAddress
	}
	if req.RecordType != nil {
		domain.RecordType = *req.RecordType
	}
	if req.TTL != nil {
		domain.TTL = *req.TTL
	}
	if req.Priority != nil {
		domain.Priority = req.Priority
	}
	if req.Admin != nil {
		domain.Admin = *req.Admin
	}
	if req.Enabled != nil {
		domain.Enabled = *req.Enabled
	}
	if req.Tags != nil {
		domain.Tags = req.Tags
	}
	if req.Metadata != nil {
		domain.Metadata = req.Metadata
	}
}
