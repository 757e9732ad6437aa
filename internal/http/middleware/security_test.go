package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := newEngine(RequestID(), SecurityHeaders(SecurityOptions{}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := do(t, r, http.MethodGet, "/x", nil, nil)

	want := map[string]string{
		"X-Content-Type-Options":        "nosniff",
		"X-Frame-Options":               "DENY",
		"Referrer-Policy":               "no-referrer",
		"Access-Control-Expose-Headers": "X-Request-ID",
	}
	for k, v := range want {
		if got := w.Header().Get(k); got != v {
			t.Fatalf("%s = %q, want %q", k, got, v)
		}
	}
	for _, k := range []string{"Strict-Transport-Security", "Permissions-Policy", "Cache-Control"} {
		if w.Header().Get(k) != "" {
			t.Fatalf("%s should be unset", k)
		}
	}
}

func TestSecurityHeaders_OptionalAndHSTS(t *testing.T) {
	r := newEngine(SecurityHeaders(SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour, NoStore: true, EnablePolicy: true}))
	r.GET("/x", func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		c.Status(http.StatusOK)
	})

	w := do(t, r, http.MethodGet, "/x", nil, nil)
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be sent over plain HTTP")
	}
	if w.Header().Get("Cache-Control") != "no-store" || w.Header().Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("optional headers missing: %v", w.Header())
	}

	w = do(t, r, http.MethodGet, "/x", nil, map[string]string{"X-Forwarded-Proto": "https"})
	if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=3600; includeSubDomains; preload" {
		t.Fatalf("HSTS = %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.TLS = &tls.ConnectionState{}
	if !isHTTPS(req) {
		t.Fatalf("direct TLS not detected")
	}
}
