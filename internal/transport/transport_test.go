package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dremio/pkg/errors"
)

func TestAuthenticators(t *testing.T) {
	tests := []struct {
		name     string
		auth     Authenticator
		token    string
		expected string
	}{
		{"session token", &SessionAuth{}, "abc", "_dremioabc"},
		{"bearer pat", &BearerAuth{}, "pat1", "Bearer pat1"},
		{"no auth", &NoAuth{}, "abc", ""},
		{"empty session token", &SessionAuth{}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v3/catalog", nil)
			tt.auth.Apply(req, tt.token)
			assert.Equal(t, tt.expected, req.Header.Get("Authorization"))
		})
	}
}

func TestAuthenticatorFor(t *testing.T) {
	assert.IsType(t, &BearerAuth{}, AuthenticatorFor("pat"))
	assert.IsType(t, &NoAuth{}, AuthenticatorFor("none"))
	assert.IsType(t, &SessionAuth{}, AuthenticatorFor("basic"))
	assert.IsType(t, &SessionAuth{}, AuthenticatorFor(""))
}

func TestClientDo(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/v3/sql", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "_dremiotok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "J1", "echo": body["sql"]})
	})
	r.Get("/api/v3/job/{id}/results", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("offset"))
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := New(srv.URL+"/", &SessionAuth{}, WithToken("tok"), WithRateLimit(0, 0))
	assert.Equal(t, srv.URL, c.BaseURL())

	var out map[string]any
	err := c.Do(context.Background(), http.MethodPost, "/api/v3/sql", nil, map[string]any{"sql": "SELECT 1"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "J1", out["id"])
	assert.Equal(t, "SELECT 1", out["echo"])

	err = c.Do(context.Background(), http.MethodGet, "/api/v3/job/J1/results", url.Values{"offset": {"100"}}, nil, &out)
	require.NoError(t, err)
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   error
	}{
		{http.StatusBadRequest, errors.ErrBadRequest},
		{http.StatusUnauthorized, errors.ErrUnauthorized},
		{http.StatusForbidden, errors.ErrPermissionDenied},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusInternalServerError, errors.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"errorMessage":"nope"}`))
			}))
			defer srv.Close()

			c := New(srv.URL, &SessionAuth{})
			err := c.Do(context.Background(), http.MethodGet, "/api/v3/catalog/x", nil, nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestClientTransportFailureIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := New(srv.URL, &NoAuth{})
	err := c.Do(context.Background(), http.MethodGet, "/api/v3/catalog", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknown)
}

func TestClientSetToken(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &BearerAuth{})
	c.SetToken("pat")
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/", nil, nil, nil))
	assert.Equal(t, "Bearer pat", seen)
	assert.Equal(t, "pat", c.Token())
}
