package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/itassets/domain-api/models"
	"github.com/itassets/domain-api/repositories"
)

// DomainLookup is the resource-lookup collaborator consulted during
// ownership checks. Implementations must distinguish absence
// (repositories.ErrNotFound) from store failure.
type DomainLookup interface {
	GetByID(ctx context.Context, id string) (*models.Domain, error)
}

// Effect is the outcome class of an authorization decision.
type Effect int

const (
	EffectDeny Effect = iota
	EffectAllow
	// EffectAllowWithFilter permits a collection read but requires the
	// handler to filter its result set to records owned by FilterOwner.
	EffectAllowWithFilter
)

// Decision is the transient control value handed from the authorizer
// to the handler layer. It is never persisted.
type Decision struct {
	Effect      Effect
	Kind        Kind
	Status      int
	Message     string
	Suggestion  string
	FilterOwner string
}

// Allowed reports whether the operation may proceed
func (d Decision) Allowed() bool {
	return d.Effect != EffectDeny
}

func allow() Decision {
	return Decision{Effect: EffectAllow}
}

func allowWithFilter(owner string) Decision {
	return Decision{Effect: EffectAllowWithFilter, FilterOwner: owner}
}

func deny(kind Kind, status int, message, suggestion string) Decision {
	return Decision{
		Effect:     EffectDeny,
		Kind:       kind,
		Status:     status,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Request describes one operation to authorize: the HTTP method, the
// target record id from the path or body (empty for creation and
// collection reads), and the owner declared in a creation body (empty
// when absent).
type Request struct {
	Method        string
	TargetID      string
	DeclaredAdmin string
}

// Authorizer applies the ownership rules: administrators may do
// anything; standard users may only touch records whose admin field
// matches their username; every other role is denied.
type Authorizer struct {
	roles  Roles
	lookup DomainLookup
}

// NewAuthorizer creates an authorizer bound to the configured role
// identifiers and a record-lookup collaborator.
func NewAuthorizer(roles Roles, lookup DomainLookup) *Authorizer {
	return &Authorizer{
		roles:  roles,
		lookup: lookup,
	}
}

// Authorize decides whether the principal may perform the request.
// A non-nil error reports a store failure outside the auth taxonomy;
// callers surface it through the generic error path.
func (a *Authorizer) Authorize(ctx context.Context, principal *Principal, req Request) (Decision, error) {
	// The authentication gate runs first, so a missing principal means
	// the pipeline is miswired.
	if principal == nil {
		return deny(KindMissingUser, http.StatusUnauthorized,
			"user information is missing, please log in again",
			"add a valid Bearer token to the request header"), nil
	}

	switch a.roles.Classify(principal.Role) {
	case RoleAdministrator:
		// Administrators are authorized for every record, no lookup.
		return allow(), nil

	case RoleStandardUser:
		return a.authorizeStandardUser(ctx, principal, req)

	default:
		return deny(KindPermissionDenied, http.StatusForbidden,
			"permission denied: your role may not access this resource",
			"contact a system administrator for appropriate permissions"), nil
	}
}

func (a *Authorizer) authorizeStandardUser(ctx context.Context, principal *Principal, req Request) (Decision, error) {
	// Creation: no target yet, so ownership is judged from the declared
	// admin field. An absent declaration is allowed; the handler stamps
	// the creator as owner. This is deliberately more permissive than
	// the strict equality check on existing records below.
	if req.Method == http.MethodPost && req.TargetID == "" {
		if req.DeclaredAdmin != "" && req.DeclaredAdmin != principal.Username {
			return deny(KindPermissionDenied, http.StatusForbidden,
				"permission denied: standard users may only create domains they administer",
				"set the domain admin field to your own username"), nil
		}
		return allow(), nil
	}

	// Targeted operation: the record must exist and be owned by the
	// principal.
	if req.TargetID != "" {
		domain, err := a.lookup.GetByID(ctx, req.TargetID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return deny(KindNotFound, http.StatusNotFound,
					"domain not found",
					"check that the domain id is correct"), nil
			}
			return Decision{}, err
		}
		if domain.Admin != principal.Username {
			return deny(KindPermissionDenied, http.StatusForbidden,
				"permission denied: standard users may only operate on domains they administer",
				"contact the domain administrator for access"), nil
		}
		return allow(), nil
	}

	// Collection read: allowed, but the handler must filter the result
	// set down to records the principal owns.
	if req.Method == http.MethodGet {
		return allowWithFilter(principal.Username), nil
	}

	return allow(), nil
}
