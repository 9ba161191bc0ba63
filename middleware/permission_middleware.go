package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/itassets/domain-api/auth"
	"github.com/itassets/domain-api/utils"
	"go.uber.org/zap"
)

// OwnershipAuthorizer defines the interface for per-request ownership
// decisions
type OwnershipAuthorizer interface {
	Authorize(ctx context.Context, principal *auth.Principal, req auth.Request) (auth.Decision, error)
}

// PermissionMiddleware adapts the ownership authorizer to the HTTP
// layer: it extracts the target id and declared owner, requests a
// decision and either rejects the request or marks it for post-fetch
// filtering.
type PermissionMiddleware struct {
	authorizer OwnershipAuthorizer
	logger     *zap.Logger
}

// NewPermissionMiddleware creates a new PermissionMiddleware
func NewPermissionMiddleware(authorizer OwnershipAuthorizer, logger *zap.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{
		authorizer: authorizer,
		logger:     logger,
	}
}

// denyErrorCode maps each denial kind to its stable user-facing code.
var denyErrorCode = map[auth.Kind]string{
	auth.KindMissingUser:      "AUTH_MISSING_USER",
	auth.KindPermissionDenied: "PERMISSION_DENIED",
	auth.KindNotFound:         "DOMAIN_NOT_FOUND",
}

// bodyHints are the only body fields the authorizer cares about: an
// explicit target id and the declared owner on creation.
type bodyHints struct {
	ID    string `json:"id"`
	Admin string `json:"admin"`
}

// RequirePermission runs the ownership decision after authentication.
// It must be mounted behind RequireAuth.
func (m *PermissionMiddleware) RequirePermission(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimw.GetReqID(ctx)
		principal := GetPrincipalFromContext(ctx)

		hints, err := m.peekBody(r)
		if err != nil {
			m.logger.Warn("unreadable request body",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteBadRequest(w, "Invalid request body")
			return
		}

		targetID := chi.URLParam(r, "id")
		if targetID == "" {
			targetID = hints.ID
		}

		decision, err := m.authorizer.Authorize(ctx, principal, auth.Request{
			Method:        r.Method,
			TargetID:      targetID,
			DeclaredAdmin: hints.Admin,
		})
		if err != nil {
			// Store failure outside the auth taxonomy: generic error path.
			m.logger.Error("authorization lookup failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "")
			return
		}

		if !decision.Allowed() {
			m.logger.Warn("request denied",
				zap.String("request_id", requestID),
				zap.String("kind", string(decision.Kind)),
				zap.Int("status", decision.Status))
			code, ok := denyErrorCode[decision.Kind]
			if !ok {
				code = "PERMISSION_DENIED"
			}
			_ = utils.WriteAuthError(w, decision.Status, code, string(decision.Kind), decision.Message, decision.Suggestion)
			return
		}

		if decision.Effect == auth.EffectAllowWithFilter {
			ctx = WithFilterOwner(ctx, decision.FilterOwner)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// peekBody reads the JSON body for the id/admin hints and rewinds it
// so the handler can decode the full payload again.
func (m *PermissionMiddleware) peekBody(r *http.Request) (bodyHints, error) {
	var hints bodyHints

	if r.Body == nil || r.Body == http.NoBody {
		return hints, nil
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return hints, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return hints, err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if len(body) > 0 {
		// Malformed JSON is the handler's problem; the hints stay empty.
		_ = json.Unmarshal(body, &hints)
	}
	return hints, nil
}
