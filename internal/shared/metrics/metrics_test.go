package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
	}
	if cumulative != 2 {
		t.Fatalf("expected 2 observations within finite buckets, got %d", cumulative)
	}
}

func TestRenderIncludesDomainCounters(t *testing.T) {
	IncAccountRegistered()
	IncLogin(false)
	SetStoragePrimaryUp(true)
	ObserveRequestDurationMs(12)

	out := Render()
	for _, want := range []string{
		"# TYPE accounts_registered_total counter",
		"logins_failed_total ",
		"storage_primary_up 1",
		"http_request_duration_ms_bucket{le=\"25\"}",
		"http_request_duration_ms_bucket{le=\"+Inf\"}",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}
