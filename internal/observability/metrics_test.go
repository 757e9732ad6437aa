package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveUpstream_IncrementsCounter(t *testing.T) {
	c := upstreamReqs.WithLabelValues("course", "POST", "conflict")
	base := testutil.ToFloat64(c)

	ObserveUpstream("course", "POST", "conflict", 15*time.Millisecond)

	if got := testutil.ToFloat64(c); got != base+1 {
		t.Fatalf("upstream_requests_total = %v; want %v", got, base+1)
	}
}

func TestCountEnrollment_And_CacheLookup(t *testing.T) {
	e := enrollmentOps.WithLabelValues("module", "enroll", "absorbed")
	hit := cacheLookups.WithLabelValues("hit")
	miss := cacheLookups.WithLabelValues("miss")
	be, bh, bm := testutil.ToFloat64(e), testutil.ToFloat64(hit), testutil.ToFloat64(miss)

	CountEnrollment("module", "enroll", "absorbed")
	CountCacheLookup(true)
	CountCacheLookup(false)
	CountCacheLookup(false)

	if got := testutil.ToFloat64(e); got != be+1 {
		t.Fatalf("enrollment_ops_total = %v; want %v", got, be+1)
	}
	if got := testutil.ToFloat64(hit); got != bh+1 {
		t.Fatalf("cache hits = %v; want %v", got, bh+1)
	}
	if got := testutil.ToFloat64(miss); got != bm+2 {
		t.Fatalf("cache misses = %v; want %v", got, bm+2)
	}
}
