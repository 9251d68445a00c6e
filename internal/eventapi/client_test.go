package eventapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventops/confctl/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "secret-token", testLogger())
	require.NoError(t, err)
	return c
}

func TestClient_RequestHeaders(t *testing.T) {
	var got http.Header
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"registrants": []}`))
	}))

	_, err := c.Registrations(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "no-cache", got.Get("Cache-Control"))
}

func TestClient_BasePathIsPrefixed(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"registrants": []}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/hub/", "t", testLogger())
	require.NoError(t, err)

	_, err = c.Registrations(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "/hub/api/events/42/registrants", gotPath)
}

func TestClient_LoginRedirectMeansExpiredToken(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login/?next=%2F", http.StatusFound)
	}))

	_, err := c.Registrations(context.Background(), 42)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestClient_UnexpectedStatusIsRemoteError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "you cannot do that", http.StatusForbidden)
	}))

	_, err := c.Registrations(context.Background(), 42)

	var rerr *RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusForbidden, rerr.Status)
	assert.Contains(t, rerr.Body, "you cannot do that")
	assert.Contains(t, rerr.Error(), "failed with 403")
}
