package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/voya/internal/middleware"
)

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.SecureHeaders(trivialHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestSecureHeaders_AuthRoutesNotCached(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.SecureHeaders(trivialHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
