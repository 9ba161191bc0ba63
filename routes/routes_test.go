package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itassets/domain-api/app"
	"github.com/itassets/domain-api/config"
	"github.com/itassets/domain-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	handler http.Handler
	deps    *app.Dependencies
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	cfg := &config.Config{
		Environment: "test",
		Storage:     config.StorageConfig{Type: "memory"},
		JWT:         config.JWTConfig{Secret: "end-to-end-secret"},
		Roles:       config.RolesConfig{Admin: "administrator", User: "user"},
	}

	deps, err := app.NewDependencies(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	return &apiFixture{handler: SetupRoutes(deps), deps: deps}
}

func (f *apiFixture) token(t *testing.T, username, role string, expiresIn time.Duration) string {
	t.Helper()
	token, err := f.deps.Codec.Sign(username, role, expiresIn)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) seed(t *testing.T, name, admin string) *models.Domain {
	t.Helper()
	domain := models.NewDomain(name, "10.0.0.1", models.RecordTypeA, admin)
	require.NoError(t, f.deps.Domains.Create(context.Background(), domain))
	return domain
}

func (f *apiFixture) request(method, target, token string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHealthEndpointNeedsNoAuth(t *testing.T) {
	fixture := newAPIFixture(t)
	w := fixture.request(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticationGate(t *testing.T) {
	fixture := newAPIFixture(t)

	t.Run("missing token is 401", func(t *testing.T) {
		w := fixture.request(http.MethodGet, "/api/v1/domains", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		errBody := body["error"].(map[string]interface{})
		assert.Equal(t, "AUTH_MISSING_TOKEN", errBody["code"])
	})

	t.Run("expired token is 401", func(t *testing.T) {
		token := fixture.token(t, "alice", "user", -time.Hour)
		w := fixture.request(http.MethodGet, "/api/v1/domains", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		errBody := decodeBody(t, w)["error"].(map[string]interface{})
		assert.Equal(t, "AUTH_TOKEN_EXPIRED", errBody["code"])
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		w := fixture.request(http.MethodGet, "/api/v1/domains", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		errBody := decodeBody(t, w)["error"].(map[string]interface{})
		assert.Equal(t, "AUTH_INVALID_FORMAT", errBody["code"])
	})
}

func TestOwnershipVisibility(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seed(t, "user1-a.example.com", "user1")
	fixture.seed(t, "user1-b.example.com", "user1")
	fixture.seed(t, "user2-a.example.com", "user2")
	fixture.seed(t, "shared.example.com", "root")

	t.Run("standard user sees only owned records", func(t *testing.T) {
		token := fixture.token(t, "user1", "user", time.Hour)
		w := fixture.request(http.MethodGet, "/api/v1/domains", token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(2), body["count"])
		for _, item := range body["data"].([]interface{}) {
			assert.Equal(t, "user1", item.(map[string]interface{})["admin"])
		}
	})

	t.Run("administrator sees everything", func(t *testing.T) {
		token := fixture.token(t, "root", "administrator", time.Hour)
		w := fixture.request(http.MethodGet, "/api/v1/domains", token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(4), decodeBody(t, w)["count"])
	})
}

func TestOwnershipEnforcement(t *testing.T) {
	fixture := newAPIFixture(t)
	owned := fixture.seed(t, "owned.example.com", "user1")
	foreign := fixture.seed(t, "foreign.example.com", "user2")
	user1 := fixture.token(t, "user1", "user", time.Hour)

	t.Run("owner reads and updates the record", func(t *testing.T) {
		w := fixture.request(http.MethodGet, "/api/v1/domains/"+owned.ID, user1, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = fixture.request(http.MethodPut, "/api/v1/domains/"+owned.ID, user1,
			[]byte(`{"description":"updated"}`))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("foreign record is forbidden before the handler runs", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			var body []byte
			if method == http.MethodPut {
				body = []byte(`{"description":"hijack"}`)
			}
			w := fixture.request(method, "/api/v1/domains/"+foreign.ID, user1, body)
			assert.Equal(t, http.StatusForbidden, w.Code, "method %s", method)
			errBody := decodeBody(t, w)["error"].(map[string]interface{})
			assert.Equal(t, "PERMISSION_DENIED", errBody["code"], "method %s", method)
		}
	})

	t.Run("missing record is 404 from the authorizer", func(t *testing.T) {
		w := fixture.request(http.MethodGet, "/api/v1/domains/no-such-id", user1, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		errBody := decodeBody(t, w)["error"].(map[string]interface{})
		assert.Equal(t, "DOMAIN_NOT_FOUND", errBody["code"])
	})

	t.Run("creating for another owner is forbidden", func(t *testing.T) {
		w := fixture.request(http.MethodPost, "/api/v1/domains", user1,
			[]byte(`{"name":"new.example.com","targetAddress":"10.0.0.5","recordType":"A","admin":"user2"}`))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("creating without a declared owner succeeds and defaults ownership", func(t *testing.T) {
		w := fixture.request(http.MethodPost, "/api/v1/domains", user1,
			[]byte(`{"name":"mine.example.com","targetAddress":"10.0.0.6","recordType":"A"}`))
		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "user1", data["admin"])
		assert.Equal(t, "user1", data["creator"])
	})
}

func TestUnrecognizedRole(t *testing.T) {
	fixture := newAPIFixture(t)
	owned := fixture.seed(t, "owned.example.com", "alice")
	// A username in the role claim authenticates but never authorizes.
	token := fixture.token(t, "alice", "alice", time.Hour)

	t.Run("collection access is forbidden", func(t *testing.T) {
		w := fixture.request(http.MethodGet, "/api/v1/domains", token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		errBody := decodeBody(t, w)["error"].(map[string]interface{})
		assert.Equal(t, "PERMISSION_DENIED", errBody["code"])
	})

	t.Run("owned record access is still forbidden", func(t *testing.T) {
		w := fixture.request(http.MethodGet, "/api/v1/domains/"+owned.ID, token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAdministratorBypass(t *testing.T) {
	fixture := newAPIFixture(t)
	foreign := fixture.seed(t, "foreign.example.com", "user2")
	root := fixture.token(t, "root", "administrator", time.Hour)

	t.Run("reads any record", func(t *testing.T) {
		w := fixture.request(http.MethodGet, "/api/v1/domains/"+foreign.ID, root, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("toggles any record", func(t *testing.T) {
		w := fixture.request(http.MethodPatch, "/api/v1/domains/"+foreign.ID+"/status", root,
			[]byte(`{"enabled":false}`))
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, false, data["enabled"])
	})

	t.Run("deletes any record", func(t *testing.T) {
		w := fixture.request(http.MethodDelete, "/api/v1/domains/"+foreign.ID, root, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("creates on behalf of another owner", func(t *testing.T) {
		w := fixture.request(http.MethodPost, "/api/v1/domains", root,
			[]byte(`{"name":"delegated.example.com","targetAddress":"10.0.0.7","recordType":"A","admin":"user2"}`))
		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "user2", data["admin"])
	})
}

func TestTypedListings(t *testing.T) {
	fixture := newAPIFixture(t)
	cname := models.NewDomain("alias.example.com", "host.example.com", models.RecordTypeCNAME, "user1")
	require.NoError(t, fixture.deps.Domains.Create(context.Background(), cname))
	fixture.seed(t, "a.example.com", "user1")
	fixture.seed(t, "b.example.com", "user2")
	user1 := fixture.token(t, "user1", "user", time.Hour)

	t.Run("type listing is ownership filtered", func(t *testing.T) {
		w := fixture.request(http.MethodGet, "/api/v1/domains/type/A", user1, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("status listing is ownership filtered", func(t *testing.T) {
		w := fixture.request(http.MethodGet, "/api/v1/domains/status/enabled", user1, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(2), decodeBody(t, w)["count"])
	})
}

func TestUnknownEndpoint(t *testing.T) {
	fixture := newAPIFixture(t)
	w := fixture.request(http.MethodGet, "/api/v2/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
