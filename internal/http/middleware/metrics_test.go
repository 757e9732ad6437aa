package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteLabelsAndReplays(t *testing.T) {
	r := newEngine(Metrics())
	r.GET("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, "x") })
	r.POST("/replayed", func(c *gin.Context) {
		c.Set(ctxKeyIdemReplay, true)
		c.Status(http.StatusCreated)
	})

	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/items/:id", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404"))
	baseReplay := testutil.ToFloat64(httpReplays.WithLabelValues("POST", "/replayed"))

	do(t, r, http.MethodGet, "/items/1", nil, nil)
	do(t, r, http.MethodGet, "/items/2", nil, nil)
	do(t, r, http.MethodGet, "/nope", nil, nil)
	do(t, r, http.MethodPost, "/replayed", nil, nil)

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/items/:id", "200")); got != baseOK+2 {
		t.Fatalf("route counter = %v, want %v", got, baseOK+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404")); got != base404+1 {
		t.Fatalf("unmatched counter = %v", got)
	}
	if got := testutil.ToFloat64(httpReplays.WithLabelValues("POST", "/replayed")); got != baseReplay+1 {
		t.Fatalf("replay counter = %v", got)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight gauge should settle at 0, got %v", got)
	}
	if n := testutil.CollectAndCount(httpLat); n == 0 {
		t.Fatalf("latency histogram has no series")
	}
}
