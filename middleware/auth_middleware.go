package middleware

import (
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/itassets/domain-api/auth"
	"github.com/itassets/domain-api/utils"
	"go.uber.org/zap"
)

// TokenVerifier defines the interface for verifying bearer tokens
type TokenVerifier interface {
	// Verify validates a raw token and returns the principal it carries
	Verify(token string) (*auth.Principal, *auth.Error)
}

// AuthMiddleware is the authentication gate: it extracts the bearer
// token, delegates to the verifier and establishes the principal for
// the rest of the request pipeline.
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

const bearerPrefix = "Bearer "

// authErrorCode maps each verification failure kind to its stable
// user-facing code. The mapping is one-to-one and covers the whole
// taxonomy, including the reserved revoked slot.
var authErrorCode = map[auth.Kind]string{
	auth.KindMissingToken:     "AUTH_MISSING_TOKEN",
	auth.KindExpired:          "AUTH_TOKEN_EXPIRED",
	auth.KindInvalidSignature: "AUTH_INVALID_SIGNATURE",
	auth.KindInvalidFormat:    "AUTH_INVALID_FORMAT",
	auth.KindInvalidClaims:    "AUTH_INVALID_CLAIMS",
	auth.KindRevoked:          "AUTH_TOKEN_REVOKED",
	auth.KindUnknown:          "AUTH_UNKNOWN_ERROR",
}

// authErrorSuggestion carries the remediation hint returned alongside
// each failure code.
var authErrorSuggestion = map[auth.Kind]string{
	auth.KindMissingToken:     "add a valid Bearer token to the request header",
	auth.KindExpired:          "the token has expired, log in again to obtain a new one",
	auth.KindInvalidSignature: "signature verification failed, the token may be tampered with or signed with the wrong key; obtain a new token",
	auth.KindInvalidFormat:    "make sure the token uses the standard three-segment JWT structure with valid base64 encoding",
	auth.KindInvalidClaims:    "the token carries invalid claims, obtain a new token",
	auth.KindRevoked:          "the token has been revoked, log in again to obtain a new one",
	auth.KindUnknown:          "an unknown error occurred during verification, retry later or contact an administrator",
}

// RequireAuth rejects requests without a verifiable bearer token and
// attaches the principal to the request context otherwise. Every
// rejection is HTTP 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimw.GetReqID(r.Context())

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			m.logger.Warn("missing bearer token",
				zap.String("request_id", requestID))
			m.writeAuthError(w, auth.NewError(auth.KindMissingToken, "no valid authentication token provided"))
			return
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)

		principal, verifyErr := m.verifier.Verify(token)
		if verifyErr != nil {
			m.logger.Warn("token verification failed",
				zap.String("request_id", requestID),
				zap.String("kind", string(verifyErr.Kind)))
			m.writeAuthError(w, verifyErr)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("username", principal.Username))

		ctx := WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) writeAuthError(w http.ResponseWriter, err *auth.Error) {
	code, ok := authErrorCode[err.Kind]
	if !ok {
		code = "AUTH_UNKNOWN_ERROR"
	}
	suggestion := authErrorSuggestion[err.Kind]
	_ = utils.WriteAuthError(w, http.StatusUnauthorized, code, string(err.Kind), err.Message, suggestion)
}
