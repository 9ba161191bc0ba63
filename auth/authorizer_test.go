package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/itassets/domain-api/models"
	"github.com/itassets/domain-api/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoles = Roles{Admin: "administrator", User: "user"}

// fakeLookup serves records from a map and can simulate store failure
type fakeLookup struct {
	domains map[string]*models.Domain
	err     error
}

func (f *fakeLookup) GetByID(ctx context.Context, id string) (*models.Domain, error) {
	if f.err != nil {
		return nil, f.err
	}
	domain, ok := f.domains[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return domain, nil
}

func newTestAuthorizer(domains map[string]*models.Domain) *Authorizer {
	return NewAuthorizer(testRoles, &fakeLookup{domains: domains})
}

func TestRolesClassify(t *testing.T) {
	assert.Equal(t, RoleAdministrator, testRoles.Classify("administrator"))
	assert.Equal(t, RoleStandardUser, testRoles.Classify("user"))
	assert.Equal(t, RoleUnknown, testRoles.Classify("alice"))
	assert.Equal(t, RoleUnknown, testRoles.Classify(""))
}

func TestAuthorizeAdministrator(t *testing.T) {
	authorizer := newTestAuthorizer(map[string]*models.Domain{
		"dom-1": {ID: "dom-1", Admin: "someone-else"},
	})
	principal := &Principal{Username: "root", Role: "administrator"}

	t.Run("allowed for every method and target without lookup", func(t *testing.T) {
		cases := []Request{
			{Method: http.MethodPost},
			{Method: http.MethodGet},
			{Method: http.MethodGet, TargetID: "dom-1"},
			{Method: http.MethodPut, TargetID: "dom-1"},
			{Method: http.MethodDelete, TargetID: "missing"},
			{Method: http.MethodPost, DeclaredAdmin: "someone-else"},
		}
		for _, req := range cases {
			decision, err := authorizer.Authorize(context.Background(), principal, req)
			require.NoError(t, err)
			assert.Equal(t, EffectAllow, decision.Effect, "request %+v", req)
		}
	})

	t.Run("allowed even when the store would fail", func(t *testing.T) {
		failing := NewAuthorizer(testRoles, &fakeLookup{err: errors.New("store down")})
		decision, err := failing.Authorize(context.Background(), principal, Request{
			Method: http.MethodDelete, TargetID: "dom-1",
		})
		require.NoError(t, err)
		assert.Equal(t, EffectAllow, decision.Effect)
	})
}

func TestAuthorizeStandardUserCreate(t *testing.T) {
	authorizer := newTestAuthorizer(nil)
	principal := &Principal{Username: "alice", Role: "user"}

	t.Run("declared owner equals principal allows", func(t *testing.T) {
		decision, err := authorizer.Authorize(context.Background(), principal, Request{
			Method: http.MethodPost, DeclaredAdmin: "alice",
		})
		require.NoError(t, err)
		assert.Equal(t, EffectAllow, decision.Effect)
	})

	t.Run("declared owner of another user denies", func(t *testing.T) {
		decision, err := authorizer.Authorize(context.Background(), principal, Request{
			Method: http.MethodPost, DeclaredAdmin: "bob",
		})
		require.NoError(t, err)
		assert.Equal(t, EffectDeny, decision.Effect)
		assert.Equal(t, KindPermissionDenied, decision.Kind)
		assert.Equal(t, http.StatusForbidden, decision.Status)
	})

	t.Run("absent declared owner allows", func(t *testing.T) {
		// Deliberately more permissive than the targeted-operation
		// check: ownership defaults to the creator.
		decision, err := authorizer.Authorize(context.Background(), principal, Request{
			Method: http.MethodPost,
		})
		require.NoError(t, err)
		assert.Equal(t, EffectAllow, decision.Effect)
	})
}

func TestAuthorizeStandardUserTarget(t *testing.T) {
	authorizer := newTestAuthorizer(map[string]*models.Domain{
		"owned":   {ID: "owned", Admin: "alice"},
		"foreign": {ID: "foreign", Admin: "bob"},
	})
	principal := &Principal{Username: "alice", Role: "user"}

	t.Run("owned record allows for every targeted method", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			decision, err := authorizer.Authorize(context.Background(), principal, Request{
				Method: method, TargetID: "owned",
			})
			require.NoError(t, err)
			assert.Equal(t, EffectAllow, decision.Effect, "method %s", method)
		}
	})

	t.Run("foreign record denies with permission_denied", func(t *testing.T) {
		decision, err := authorizer.Authorize(context.Background(), principal, Request{
			Method: http.MethodPut, TargetID: "foreign",
		})
		require.NoError(t, err)
		assert.Equal(t, EffectDeny, decision.Effect)
		assert.Equal(t, KindPermissionDenied, decision.Kind)
		assert.Equal(t, http.StatusForbidden, decision.Status)
	})

	t.Run("missing record denies with not_found", func(t *testing.T) {
		decision, err := authorizer.Authorize(context.Background(), principal, Request{
			Method: http.MethodGet, TargetID: "missing",
		})
		require.NoError(t, err)
		assert.Equal(t, EffectDeny, decision.Effect)
		assert.Equal(t, KindNotFound, decision.Kind)
		assert.Equal(t, http.StatusNotFound, decision.Status)
	})

	t.Run("store failure propagates as a plain error", func(t *testing.T) {
		failing := NewAuthorizer(testRoles, &fakeLookup{err: errors.New("store down")})
		_, err := failing.Authorize(context.Background(), principal, Request{
			Method: http.MethodGet, TargetID: "owned",
		})
		assert.Error(t, err)
	})
}

func TestAuthorizeStandardUserCollection(t *testing.T) {
	authorizer := newTestAuthorizer(nil)
	principal := &Principal{Username: "alice", Role: "user"}

	decision, err := authorizer.Authorize(context.Background(), principal, Request{
		Method: http.MethodGet,
	})
	require.NoError(t, err)
	assert.Equal(t, EffectAllowWithFilter, decision.Effect)
	assert.Equal(t, "alice", decision.FilterOwner)
	assert.True(t, decision.Allowed())
}

func TestAuthorizeUnrecognizedRole(t *testing.T) {
	authorizer := newTestAuthorizer(map[string]*models.Domain{
		"owned": {ID: "owned", Admin: "alice"},
	})
	// A token carrying the username as role must never be authorized.
	principal := &Principal{Username: "alice", Role: "alice"}

	cases := []Request{
		{Method: http.MethodGet},
		{Method: http.MethodPost, DeclaredAdmin: "alice"},
		{Method: http.MethodGet, TargetID: "owned"},
		{Method: http.MethodDelete, TargetID: "owned"},
	}
	for _, req := range cases {
		decision, err := authorizer.Authorize(context.Background(), principal, req)
		require.NoError(t, err)
		assert.Equal(t, EffectDeny, decision.Effect, "request %+v", req)
		assert.Equal(t, KindPermissionDenied, decision.Kind)
		assert.Equal(t, http.StatusForbidden, decision.Status)
	}
}

func TestAuthorizeMissingPrincipal(t *testing.T) {
	authorizer := newTestAuthorizer(nil)

	decision, err := authorizer.Authorize(context.Background(), nil, Request{Method: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, EffectDeny, decision.Effect)
	assert.Equal(t, KindMissingUser, decision.Kind)
	assert.Equal(t, http.StatusUnauthorized, decision.Status)
}
