package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func resolveAddr(t *testing.T, proxies []string, remoteAddr string, headers map[string]string) string {
	t.Helper()
	var got string
	handler := TrustedRealIP(proxies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		proxies    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "real ip from trusted proxy",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded chain takes first hop",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.1.2.3"},
			want:       "203.0.113.9",
		},
		{
			name:       "header ignored from untrusted source",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "192.0.2.44:9999",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "192.0.2.44:9999",
		},
		{
			name:       "bare ip proxy entry",
			proxies:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:5000",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "garbage header keeps original address",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			want:       "10.1.2.3:4567",
		},
		{
			name:       "no proxies configured",
			proxies:    nil,
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "10.1.2.3:4567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveAddr(t, tt.proxies, tt.remoteAddr, tt.headers)
			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseProxies_SkipsMalformed(t *testing.T) {
	nets := parseProxies([]string{"10.0.0.0/8", "bogus", "", "192.0.2.1"})
	if len(nets) != 2 {
		t.Fatalf("parsed %d networks, want 2", len(nets))
	}
}
