package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRootAndHealth(t *testing.T) {
	s := New(hclog.NewNullLogger())

	rec := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hookmirror is running")

	rec = get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMount(t *testing.T) {
	s := New(hclog.NewNullLogger())

	r := chi.NewRouter()
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, "pong") })
	s.Mount("/api", r)

	rec := get(t, s.Handler(), "/api/ping")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	rec = get(t, s.Handler(), "/api/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
