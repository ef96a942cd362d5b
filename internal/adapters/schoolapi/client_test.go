package schoolapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpoint/schoolgate/internal/adapters/memstore"
	domainauth "github.com/classpoint/schoolgate/internal/domain/auth"
	"github.com/classpoint/schoolgate/internal/transport"
)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	pipeline := transport.New(transport.Options{
		Cache: memstore.NewCache(),
		Flags: memstore.NewFlags(),
	})
	return New(Options{Pipeline: pipeline, BaseURL: srv.URL})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_Login_Success(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "t@school.test", body["email"])
		assert.Equal(t, true, body["rememberMe"])

		writeJSON(t, w, map[string]any{
			"token":     "tok-1",
			"expiresAt": "2026-04-01T00:00:00Z",
			"user":      map[string]any{"id": "u-1", "firstName": "Tess", "role": "teacher"},
		})
	})

	res, err := client.Login(context.Background(), "t@school.test", "pw", true)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "2026-04-01T00:00:00Z", res.Expiry)
	assert.Equal(t, "u-1", res.Identity.ID)
	assert.Equal(t, domainauth.RoleTeacher, res.Identity.Role)
}

func TestClient_Login_CapitalizedFields(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"Token": "tok-2",
			"User":  map[string]any{"Id": "u-2", "Role": "Admin"},
		})
	})

	res, err := client.Login(context.Background(), "a@school.test", "pw", false)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "tok-2", res.Token)
	assert.Equal(t, "u-2", res.Identity.ID)
	assert.Equal(t, domainauth.RoleAdmin, res.Identity.Role, "role must be normalized")
}

func TestClient_Login_WellFormedRejection(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"success": false, "message": "invalid credentials"})
	})

	res, err := client.Login(context.Background(), "t@school.test", "nope", false)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "invalid credentials", res.Message)
	assert.Empty(t, res.Token)
}

func TestClient_Login_MissingToken(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"user": map[string]any{"id": "u-1"}})
	})

	res, err := client.Login(context.Background(), "t@school.test", "pw", false)
	require.NoError(t, err)
	assert.False(t, res.OK, "a response without a token must not be a success")
}

func TestClient_Login_TransportError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(t, w, map[string]any{"errors": []string{"email is required"}})
	})

	_, err := client.Login(context.Background(), "", "", false)
	require.Error(t, err)
	assert.True(t, transport.IsKind(err, transport.KindValidation))
}

func TestClient_CurrentIdentity_EnvelopeVariants(t *testing.T) {
	cases := []struct {
		name string
		body map[string]any
	}{
		{"bare user", map[string]any{"id": "u-9", "role": "Principal"}},
		{"user field", map[string]any{"user": map[string]any{"id": "u-9", "role": "principal"}}},
		{"data envelope", map[string]any{"data": map[string]any{"Id": "u-9", "Role": "PRINCIPAL"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/auth/me", r.URL.Path)
				writeJSON(t, w, tc.body)
			})

			ident, err := client.CurrentIdentity(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "u-9", ident.ID)
			assert.Equal(t, domainauth.RolePrincipal, ident.Role)
		})
	}
}

func TestClient_Logout(t *testing.T) {
	var called bool
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/logout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Logout(context.Background()))
	assert.True(t, called)
}
