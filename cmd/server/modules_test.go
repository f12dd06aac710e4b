package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/lingua-web/internal/infrastructure"
	"github.com/JaimeStill/lingua-web/pkg/lifecycle"
)

func probe(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, rec.Body.String()
}

func TestProbes(t *testing.T) {
	lc := lifecycle.New()
	router := buildRouter(&infrastructure.Infrastructure{Lifecycle: lc})

	code, body := probe(t, router, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body)

	code, body = probe(t, router, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "NOT READY", body)

	lc.WaitForStartup()

	code, body = probe(t, router, "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "READY", body)
}
