package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"raktkosh/internal/apiserver/auth"
	"raktkosh/internal/shared/storage/memstore"
)

// Router 组合测试。指标使用全局注册表，整个测试二进制只构造一次 Handler。
func TestRouter(t *testing.T) {
	store := memstore.NewStore()
	h := NewHandler(store, nil, nil, auth.Config{JWTSecret: "test-secret", TokenTTL: time.Hour})
	router := h.Router()

	do := func(method, target string, body string) *httptest.ResponseRecorder {
		var r *http.Request
		if body != "" {
			r = httptest.NewRequest(method, target, strings.NewReader(body))
		} else {
			r = httptest.NewRequest(method, target, nil)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		return w
	}

	t.Run("health", func(t *testing.T) {
		w := do("GET", "/health", "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "ok") {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		if w := do("GET", "/metrics", ""); w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("cors headers", func(t *testing.T) {
		w := do("GET", "/health", "")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q, want *", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		w := do("OPTIONS", "/api/v1/donors", "")
		if w.Code != http.StatusOK {
			t.Errorf("OPTIONS status = %d, want 200", w.Code)
		}
	})

	t.Run("public read passes auth", func(t *testing.T) {
		if w := do("GET", "/api/v1/donors", ""); w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("protected write without token", func(t *testing.T) {
		w := do("POST", "/api/v1/bloodbanks", `{"name":"x","city":"y","state":"z","phone":"1"}`)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("compatibility is public", func(t *testing.T) {
		if w := do("GET", "/api/v1/compatibility/O-", ""); w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/api/v1/donors", "/api/v1/donors"},
		{"/api/v1/donors/don-abc123", "/api/v1/donors/{id}"},
		{"/api/v1/donors/search/A+", "/api/v1/donors/search/{bloodGroup}"},
		{"/api/v1/compatibility/O-", "/api/v1/compatibility/{bloodGroup}"},
		{"/api/v1/requests/req-abc123", "/api/v1/requests/{id}"},
		{"/api/v1/requests/req-abc123/status", "/api/v1/requests/{id}/status"},
		{"/api/v1/requests/urgent", "/api/v1/requests/urgent"},
		{"/api/v1/bloodbanks/bank-abc/inventory", "/api/v1/bloodbanks/{id}/inventory"},
		{"/api/v1/bloodbanks/bank-abc", "/api/v1/bloodbanks/{id}"},
		{"/api/v1/bloodbanks/availability/summary", "/api/v1/bloodbanks/availability/summary"},
		{"/api/v1/auth/verify/tok123", "/api/v1/auth/verify/{token}"},
		{"/api/v1/auth/reset-password/tok123", "/api/v1/auth/reset-password/{token}"},
		{"/health", "/health"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
