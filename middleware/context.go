package middleware

import (
	"context"

	"github.com/itassets/domain-api/auth"
)

// Context key type to avoid collisions
type contextKey string

const (
	// principalKey is the context key for the authenticated principal
	principalKey contextKey = "principal"

	// filterOwnerKey is the context key for the ownership filter marker
	filterOwnerKey contextKey = "filter_owner"
)

// WithPrincipal adds the authenticated principal to the context
func WithPrincipal(ctx context.Context, principal *auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// GetPrincipalFromContext retrieves the authenticated principal from
// context, nil when the authentication gate has not run.
func GetPrincipalFromContext(ctx context.Context) *auth.Principal {
	if val := ctx.Value(principalKey); val != nil {
		if principal, ok := val.(*auth.Principal); ok {
			return principal
		}
	}
	return nil
}

// WithFilterOwner marks the request: collection handlers must filter
// their result set to records administered by owner.
func WithFilterOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, filterOwnerKey, owner)
}

// GetFilterOwnerFromContext retrieves the ownership filter marker,
// empty when the result set needs no filtering.
func GetFilterOwnerFromContext(ctx context.Context) string {
	if val := ctx.Value(filterOwnerKey); val != nil {
		if owner, ok := val.(string); ok {
			return owner
		}
	}
	return ""
}
