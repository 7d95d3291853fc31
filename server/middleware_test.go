package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		query        string
		expectedCost int64
	}{
		{"Metrics scrape", "GET", "/metrics", "", 0},
		{"Health endpoint", "GET", "/health", "", 5},
		{"Health with params", "GET", "/health", "test=value", 5},
		{"Brand links", "GET", "/links", "text=x", 5},
		{"Dose calculator", "POST", "/dose", "", 5},

		{"Search with query", "GET", "/conditions", "q=gas", 10},
		{"Search without query", "GET", "/conditions", "", 20},
		{"Search blank query", "GET", "/conditions", "q=%20%20", 20},
		{"Add condition", "POST", "/conditions", "", 50},
		{"Single condition", "GET", "/conditions/asthma", "", 5},

		{"CSV export", "GET", "/export.csv", "", 100},
		{"JSON export", "GET", "/export.json", "", 100},

		{"Unknown endpoint", "GET", "/unknown", "", 5},
		{"Root path", "GET", "/", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path+"?"+tt.query, nil)
			cost := getTokenCost(req)

			if cost != tt.expectedCost {
				t.Errorf("Expected cost %d for %s %s with query %s, got %d",
					tt.expectedCost, tt.method, tt.path, tt.query, cost)
			}
		})
	}
}

func TestRateLimiter_RejectsWhenExhausted(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 10 exports cost the full bucket
	for i := 0; i < bucketCapacity/100; i++ {
		req := httptest.NewRequest("GET", "/export.csv", nil)
		req.RemoteAddr = "203.0.113.7"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, rr.Code)
		}
	}

	req := httptest.NewRequest("GET", "/export.csv", nil)
	req.RemoteAddr = "203.0.113.7"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 once the bucket is empty, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("Expected Retry-After header, got %q", rr.Header().Get("Retry-After"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("Expected no remaining tokens, got %q", rr.Header().Get("X-RateLimit-Remaining"))
	}

	// other clients are unaffected
	other := httptest.NewRequest("GET", "/export.csv", nil)
	other.RemoteAddr = "203.0.113.8"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected other client to pass, got %d", rr.Code)
	}
}

func TestRateLimiter_Headers(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/conditions?q=a", nil)
	req.RemoteAddr = "198.51.100.1"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("X-RateLimit-Limit") != strconv.Itoa(bucketCapacity) {
		t.Errorf("Unexpected limit header %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	remaining, err := strconv.Atoi(rr.Header().Get("X-RateLimit-Remaining"))
	if err != nil {
		t.Fatalf("Remaining header is not a number: %v", err)
	}
	if remaining > bucketCapacity-10 {
		t.Errorf("Expected the search to cost 10 tokens, remaining %d", remaining)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.getBucket("192.0.2.1")
	busy := rl.getBucket("192.0.2.2")
	busy.TakeAvailable(500)

	if removed := rl.cleanup(); removed != 1 {
		t.Errorf("Expected 1 idle bucket removed, got %d", removed)
	}

	rl.mu.RLock()
	_, idle := rl.clients["192.0.2.1"]
	_, active := rl.clients["192.0.2.2"]
	rl.mu.RUnlock()

	if idle || !active {
		t.Errorf("Expected only the busy bucket to remain (idle=%v active=%v)", idle, active)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter()
	rl.Stop()

	done := make(chan struct{})
	go func() {
		rl.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Stop blocked")
	}
}
