package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler(config CORSConfig) http.Handler {
	return CORS(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSAllowedOrigin(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		wantAllowed bool
	}{
		{"exact match", "http://localhost:3000", true},
		{"wildcard subdomain", "https://ops.dialdesk.local", true},
		{"unlisted origin", "https://evil.example.com", false},
		{"no origin header", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			corsHandler(DefaultCORSConfig()).ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tt.wantAllowed && got != tt.origin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.origin)
			}
			if !tt.wantAllowed && got != "" {
				t.Errorf("Allow-Origin = %q, want unset", got)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	corsHandler(DefaultCORSConfig()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); methods == "" {
		t.Error("Allow-Methods header missing")
	}
	if rec.Header().Get("Access-Control-Max-Age") != "300" {
		t.Errorf("Max-Age = %q, want 300", rec.Header().Get("Access-Control-Max-Age"))
	}
}

func TestCORSCredentials(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowCredentials = true

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	corsHandler(config).ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Allow-Credentials should be true when configured")
	}
}
