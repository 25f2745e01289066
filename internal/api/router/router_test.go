package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"ai-counsellor/config"
	"ai-counsellor/internal/api/handler"
	"ai-counsellor/internal/repository"
	"ai-counsellor/internal/service"
	"ai-counsellor/pkg/jwt"
)

func newTestEngine(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{BodyLimit: 1 << 20, AIRateLimit: 5, AIRateWindow: time.Minute},
		Auth:   config.AuthConfig{JWTSecret: "router-test-secret-key", AccessTokenTTL: time.Hour},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, repository.NewRepository(nil), jwtMgr, nil, nil, nil, nil, zap.NewNop())
	return Setup(cfg, handler.NewHandler(svc), jwtMgr, nil, zap.NewNop())
}

func TestSetup_PublicEndpoints(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "counsellor_http_requests_total") {
		t.Errorf("expected prometheus output, got %d", w.Code)
	}
}

func TestSetup_ProtectedRoutesRequireToken(t *testing.T) {
	r := newTestEngine(t)

	for _, path := range []string{"/api/v1/auth/me", "/api/v1/profile", "/api/v1/universities", "/api/v1/shortlist", "/api/v1/tasks", "/api/v1/ai/chat/history"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, w.Code)
		}
	}
}

func TestSetup_USStatsWithoutDirectory(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/universities/us", nil))
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502 when directory is not configured, got %d", w.Code)
	}
}
