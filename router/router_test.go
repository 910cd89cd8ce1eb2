// file: router/router_test.go

package router_test

import (
	"go-notes-api/config"
	"go-notes-api/router"
	"go-notes-api/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRouter() http.Handler {
	authService := service.NewAuthService(nil, nil, config.JWTConfig{
		SecretKey:            "test-secret-key",
		AccessTokenValidity:  15 * time.Minute,
		RefreshTokenValidity: 30 * 24 * time.Hour,
	})
	// Handlers are only needed for the routes a test actually hits.
	return router.NewRouter(nil, nil, authService)
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestRouter()

	for _, route := range []struct{ method, path string }{
		{"GET", "/notes"},
		{"POST", "/notes"},
		{"DELETE", "/notes/1"},
		{"POST", "/logout"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		assert.Equalf(t, http.StatusUnauthorized, rr.Code, "%s %s", route.method, route.path)
	}
}
