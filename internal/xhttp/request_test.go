package xhttp

import (
	"net/http"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		trustedHops   int
		xForwardedFor []string
		xRealIP       string
		remoteAddr    string
		expectedIP    string
	}{
		{
			name:       "remote addr with IP and port",
			remoteAddr: "192.0.2.1:1234",
			expectedIP: "192.0.2.1",
		},
		{
			name:       "remote addr with IP only",
			remoteAddr: "192.0.2.1",
			expectedIP: "192.0.2.1",
		},
		{
			name:       "IPv6 in remote addr",
			remoteAddr: "[2001:db8::1]:1234",
			expectedIP: "2001:db8::1",
		},
		{
			name:       "IPv6 without port in remote addr",
			remoteAddr: "2001:db8::1",
			expectedIP: "2001:db8::1",
		},
		{
			name:       "localhost IPv6",
			remoteAddr: "[::1]:8080",
			expectedIP: "::1",
		},
		{
			name:       "empty remote addr",
			remoteAddr: "",
			expectedIP: "",
		},
		{
			name:          "no trusted proxy ignores spoofed x-forwarded-for",
			xForwardedFor: []string{"203.0.113.195"},
			remoteAddr:    "192.0.2.1:1234",
			expectedIP:    "192.0.2.1",
		},
		{
			name:       "no trusted proxy ignores x-real-ip",
			xRealIP:    "198.51.100.7",
			remoteAddr: "192.0.2.1:1234",
			expectedIP: "192.0.2.1",
		},
		{
			name:          "one proxy uses the hop it appended",
			trustedHops:   1,
			xForwardedFor: []string{"203.0.113.195"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "one proxy ignores client supplied hops on the left",
			trustedHops:   1,
			xForwardedFor: []string{"1.2.3.4, 5.6.7.8, 203.0.113.195"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "two proxies",
			trustedHops:   2,
			xForwardedFor: []string{"1.2.3.4, 203.0.113.195, 10.0.0.9"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "repeated headers are joined in order",
			trustedHops:   1,
			xForwardedFor: []string{"1.2.3.4", "203.0.113.195"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "fewer hops than proxies uses the leftmost",
			trustedHops:   3,
			xForwardedFor: []string{"203.0.113.195, 10.0.0.9"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "IPv6 with port in x-forwarded-for",
			trustedHops:   1,
			xForwardedFor: []string{"[2001:db8::1]:8080"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "2001:db8::1",
		},
		{
			name:          "blank trusted hop falls back to x-real-ip",
			trustedHops:   1,
			xForwardedFor: []string{"1.2.3.4, "},
			xRealIP:       "198.51.100.7",
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "198.51.100.7",
		},
		{
			name:        "x-real-ip behind a proxy",
			trustedHops: 1,
			xRealIP:     "198.51.100.7",
			remoteAddr:  "10.0.0.2:1234",
			expectedIP:  "198.51.100.7",
		},
		{
			name:        "proxy sent no forwarding headers",
			trustedHops: 1,
			remoteAddr:  "10.0.0.2:1234",
			expectedIP:  "10.0.0.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := buildRequest(t, tt.xForwardedFor, tt.xRealIP, tt.remoteAddr)
			if got := ClientIP(req, tt.trustedHops); got != tt.expectedIP {
				t.Errorf("ClientIP(%d) = %q, want %q", tt.trustedHops, got, tt.expectedIP)
			}
		})
	}
}

func buildRequest(t *testing.T, xForwardedFor []string, xRealIP, remoteAddr string) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, "http://titohook.test/webhooks/tito", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	for _, v := range xForwardedFor {
		req.Header.Add(XForwardedFor, v)
	}
	if xRealIP != "" {
		req.Header.Set(XRealIP, xRealIP)
	}

	req.RemoteAddr = remoteAddr

	return req
}
