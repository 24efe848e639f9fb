package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/service"
	"github.com/noah-isme/sams-api/pkg/config"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:       config.EnvProduction,
		APIPrefix: "/api/v1",
		JWT:       config.JWTConfig{Secret: "secret", RenewTokenHeader: "X-Renewed-Token"},
	}
	return New(Deps{
		Config: cfg,
		Logger: zap.NewNop(),
		Services: Services{
			Auth:    service.NewAuthService(nil, nil, nil, nil, service.AuthConfig{Secret: "secret"}),
			Metrics: service.NewMetricsService(),
		},
	})
}

func TestRouterHealthEndpoints(t *testing.T) {
	r := newTestEngine()

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterProtectsDomainRoutes(t *testing.T) {
	r := newTestEngine()

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPost, "/api/v1/attendance/mark"},
		{http.MethodGet, "/api/v1/subject/subjects"},
		{http.MethodPost, "/api/v1/class/newClass"},
		{http.MethodPost, "/api/v1/timetable"},
		{http.MethodPost, "/api/v1/department/assign"},
		{http.MethodGet, "/api/v1/getData/students"},
	}
	for _, route := range routes {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusForbidden, rec.Code, route.path)
		assert.Contains(t, rec.Body.String(), "token missing", route.path)
	}
}

func TestRouterLoginValidates(t *testing.T) {
	r := newTestEngine()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email is required")
}
