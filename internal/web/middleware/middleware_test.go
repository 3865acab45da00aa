package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/aitools/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAdminKeyAuth(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SecurityConfig
		headers map[string]string
		want    int
	}{
		{
			name: "disabled passes through",
			cfg:  config.SecurityConfig{RequireAdminKey: false},
			want: http.StatusNoContent,
		},
		{
			name: "missing key",
			cfg:  config.SecurityConfig{RequireAdminKey: true, AdminAPIKeys: []string{"k1"}},
			want: http.StatusUnauthorized,
		},
		{
			name:    "wrong key",
			cfg:     config.SecurityConfig{RequireAdminKey: true, AdminAPIKeys: []string{"k1"}},
			headers: map[string]string{"X-API-Key": "nope"},
			want:    http.StatusForbidden,
		},
		{
			name:    "header key",
			cfg:     config.SecurityConfig{RequireAdminKey: true, AdminAPIKeys: []string{"k1", "k2"}},
			headers: map[string]string{"X-API-Key": "k2"},
			want:    http.StatusNoContent,
		},
		{
			name:    "bearer key",
			cfg:     config.SecurityConfig{RequireAdminKey: true, AdminAPIKeys: []string{"k1"}},
			headers: map[string]string{"Authorization": "Bearer k1"},
			want:    http.StatusNoContent,
		},
		{
			name:    "required without keys rejects everything",
			cfg:     config.SecurityConfig{RequireAdminKey: true},
			headers: map[string]string{"X-API-Key": "anything"},
			want:    http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			h := AdminKeyAuth(&cfg)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:   "no proxies strips port",
			remote: "203.0.113.5:4321",
			headers: map[string]string{
				"X-Real-IP": "1.2.3.4",
			},
			want: "203.0.113.5",
		},
		{
			name:    "trusted proxy real ip",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:80",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			want:    "198.51.100.7",
		},
		{
			name:    "trusted proxy forwarded for takes first hop",
			trusted: []string{"10.0.0.1"},
			remote:  "10.0.0.1:80",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"},
			want:    "198.51.100.7",
		},
		{
			name:    "invalid header ignored",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:80",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			want:    "10.1.2.3",
		},
		{
			name:    "untrusted source ignores header",
			trusted: []string{"10.0.0.0/8"},
			remote:  "192.0.2.1:80",
			headers: map[string]string{"X-Forwarded-For": "1.1.1.1"},
			want:    "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTrustedProxies_SkipsInvalid(t *testing.T) {
	got := ParseTrustedProxies([]string{"10.0.0.0/8", "", "bogus", "::1"})
	if len(got) != 2 {
		t.Fatalf("ParseTrustedProxies() = %v, want 2 prefixes", got)
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
