package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/giygas/empirical-rx/catalog"
	"github.com/giygas/empirical-rx/config"
	"github.com/giygas/empirical-rx/handlers"
	"github.com/giygas/empirical-rx/health"
	"github.com/giygas/empirical-rx/logging"
	"github.com/giygas/empirical-rx/storage"
	"github.com/giygas/empirical-rx/validation"
)

func TestMain(m *testing.M) {
	logging.InitLogger("")
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		Address:        "localhost",
		Env:            config.EnvTest,
		LogLevel:       "info",
		MaxRequestBody: 65536,
		MaxHeaderSize:  1048576,
		AdminEnabled:   true,
	}
}

// newTestServer wires the real store, validator and health checker over a memory slot
func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	slot := storage.NewMemorySlot(t.Name())
	store := catalog.NewStore(slot)
	store.Load(context.Background())

	handler := handlers.NewHTTPHandler(
		store,
		validation.NewDataValidator(),
		health.NewHealthChecker(store, slot),
		handlers.Options{AdminEnabled: cfg.AdminEnabled},
	)

	s := NewServer(cfg, handler)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestNewServer(t *testing.T) {
	cfg := testConfig()
	s := newTestServer(t, cfg)

	if s.server.Addr != "localhost:8080" {
		t.Errorf("Expected address localhost:8080, got %s", s.server.Addr)
	}
	if s.server.MaxHeaderBytes != int(cfg.MaxHeaderSize) {
		t.Errorf("Expected MaxHeaderBytes %d, got %d", cfg.MaxHeaderSize, s.server.MaxHeaderBytes)
	}
	if s.server.ReadTimeout != 15*time.Second || s.server.IdleTimeout != 60*time.Second {
		t.Errorf("Unexpected timeouts %v/%v", s.server.ReadTimeout, s.server.IdleTimeout)
	}
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		contentType  string
		expectedCode int
	}{
		{"search", "GET", "/conditions?q=dia", "", "", http.StatusOK},
		{"search all", "GET", "/conditions", "", "", http.StatusOK},
		{"get", "GET", "/conditions/asthma", "", "", http.StatusOK},
		{"get missing", "GET", "/conditions/gout", "", "", http.StatusNotFound},
		{"add", "POST", "/conditions", `{"name":"Gout","firstLine":"Colchicine 0.5 mg BID"}`, "application/json", http.StatusCreated},
		{"dose", "POST", "/dose", `{"mode":"adult","weight_kg":70,"adult_dose_mg":500}`, "application/json", http.StatusOK},
		{"csv", "GET", "/export.csv", "", "", http.StatusOK},
		{"json", "GET", "/export.json", "", "", http.StatusOK},
		{"links", "GET", "/links?text=" + url.QueryEscape("(e.g., Omez)"), "", "", http.StatusOK},
		{"health", "GET", "/health", "", "", http.StatusOK},
		{"metrics", "GET", "/metrics", "", "", http.StatusOK},
		{"unknown route", "GET", "/patients", "", "", http.StatusNotFound},
		{"wrong method", "DELETE", "/conditions", "", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rr := do(s, req)
			if rr.Code != tt.expectedCode {
				t.Errorf("%s %s: expected %d, got %d: %s", tt.method, tt.target, tt.expectedCode, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestServerMiddlewareHeaders(t *testing.T) {
	s := newTestServer(t, testConfig())

	rr := do(s, httptest.NewRequest("GET", "/conditions?q=uti", nil))

	if rr.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("Expected rate limit headers")
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		t.Errorf("Expected JSON content type, got %s", rr.Header().Get("Content-Type"))
	}
}

func TestServerNotFoundIsJSON(t *testing.T) {
	s := newTestServer(t, testConfig())

	rr := do(s, httptest.NewRequest("GET", "/nope", nil))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["code"] != float64(http.StatusNotFound) {
		t.Errorf("Unexpected body %v", body)
	}
}

func TestServerRejectsLargeBody(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequestBody = 128
	s := newTestServer(t, cfg)

	body := `{"name":"Gout","firstLine":"` + strings.Repeat("x", 200) + `"}`
	req := httptest.NewRequest("POST", "/conditions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if rr := do(s, req); rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", rr.Code)
	}
}

func TestServerAdminDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AdminEnabled = false
	s := newTestServer(t, cfg)

	req := httptest.NewRequest("POST", "/conditions", strings.NewReader(`{"name":"Gout","firstLine":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	if rr := do(s, req); rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
}

func TestServerBehindProxyBlocksDirectAccess(t *testing.T) {
	cfg := testConfig()
	cfg.BehindProxy = true
	s := newTestServer(t, cfg)

	direct := httptest.NewRequest("GET", "/health", nil)
	direct.RemoteAddr = "198.51.100.20:5555"
	if rr := do(s, direct); rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for direct access, got %d", rr.Code)
	}

	proxied := httptest.NewRequest("GET", "/health", nil)
	proxied.RemoteAddr = "198.51.100.20:5555"
	proxied.Header.Set("X-Forwarded-For", "203.0.113.9")
	if rr := do(s, proxied); rr.Code != http.StatusOK {
		t.Errorf("Expected 200 through the proxy, got %d", rr.Code)
	}
}

func TestServerStartShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = "0"
	s := newTestServer(t, cfg)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	// give ListenAndServe a moment to bind
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start returned %v after graceful shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
