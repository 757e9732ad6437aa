package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestKeyByCallerOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	if got := KeyByCallerOrIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("ip key = %q", got)
	}
	c.Set(ctxKeyUserID, "42")
	if got := KeyByCallerOrIP()(c); got != "user:42" {
		t.Fatalf("user key = %q", got)
	}
}

func TestRateLimiter_BurstAndReuse(t *testing.T) {
	rl := NewRateLimiter(2, 0, KeyByCallerOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst coercion: %d", rl.burst)
	}
	if rl.limiter("k") != rl.limiter("k") {
		t.Fatalf("bucket not reused")
	}
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1, KeyByCallerOrIP())
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.gcEvery = 2
	rl.visitors["old"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: now.Add(-time.Hour)}

	rl.limiter("a")
	rl.limiter("b")

	if _, ok := rl.visitors["old"]; ok {
		t.Fatalf("idle bucket survived the sweep")
	}
	if _, ok := rl.visitors["b"]; !ok {
		t.Fatalf("fresh bucket missing")
	}
}

func TestRateLimiter_Handler429PerCaller(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, KeyByCallerOrIP())
	r := newEngine(Identify(AuthOptions{}), rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := do(t, r, http.MethodGet, "/x", nil, map[string]string{HeaderUserID: "1"}); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	w := do(t, r, http.MethodGet, "/x", nil, map[string]string{HeaderUserID: "1"})
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "1" {
		t.Fatalf("second request: %d %v", w.Code, w.Header())
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["code"] != "too_many_requests" {
		t.Fatalf("body: %+v", body)
	}
	if w := do(t, r, http.MethodGet, "/x", nil, map[string]string{HeaderUserID: "2"}); w.Code != http.StatusOK {
		t.Fatalf("other caller limited: %d", w.Code)
	}
}
