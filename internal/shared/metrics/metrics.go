package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	accountsRegisteredTotal   atomic.Uint64
	loginsSucceededTotal      atomic.Uint64
	loginsFailedTotal         atomic.Uint64
	jobsCreatedTotal          atomic.Uint64
	applicationsSubmitted     atomic.Uint64
	applicationStatusUpdates  atomic.Uint64
	storageFallbackRoutes     atomic.Uint64
	storagePrimaryTransitions atomic.Uint64
	storagePrimaryUp          atomic.Bool

	requestDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000})
)

// IncAccountRegistered counts a successful registration.
func IncAccountRegistered() {
	accountsRegisteredTotal.Add(1)
}

// IncLogin counts a login attempt by outcome.
func IncLogin(ok bool) {
	if ok {
		loginsSucceededTotal.Add(1)
		return
	}
	loginsFailedTotal.Add(1)
}

func IncJobCreated() {
	jobsCreatedTotal.Add(1)
}

func IncApplicationSubmitted() {
	applicationsSubmitted.Add(1)
}

func IncApplicationStatusUpdated() {
	applicationStatusUpdates.Add(1)
}

// IncStorageFallback counts one repository pick served by the fallback store.
// An operation touching several repositories counts once per repository.
func IncStorageFallback() {
	storageFallbackRoutes.Add(1)
}

// SetStoragePrimaryUp records the latest primary probe outcome.
func SetStoragePrimaryUp(up bool) {
	if storagePrimaryUp.Swap(up) != up {
		storagePrimaryTransitions.Add(1)
	}
}

// ObserveRequestDurationMs records an HTTP request duration in milliseconds.
func ObserveRequestDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	requestDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "accounts_registered_total", "Total accounts registered", accountsRegisteredTotal.Load())
	writeCounter(&buf, "logins_succeeded_total", "Total successful logins", loginsSucceededTotal.Load())
	writeCounter(&buf, "logins_failed_total", "Total rejected logins", loginsFailedTotal.Load())
	writeCounter(&buf, "jobs_created_total", "Total jobs created", jobsCreatedTotal.Load())
	writeCounter(&buf, "applications_submitted_total", "Total applications submitted", applicationsSubmitted.Load())
	writeCounter(&buf, "application_status_updates_total", "Total application status changes", applicationStatusUpdates.Load())
	writeCounter(&buf, "storage_fallback_routes_total", "Repository picks served by the in-memory fallback", storageFallbackRoutes.Load())
	writeCounter(&buf, "storage_primary_transitions_total", "Primary availability changes", storagePrimaryTransitions.Load())
	up := uint64(0)
	if storagePrimaryUp.Load() {
		up = 1
	}
	writeGauge(&buf, "storage_primary_up", "Whether the primary store answered its last probe", up)
	writeHistogram(&buf, "http_request_duration_ms", "HTTP request duration in milliseconds", requestDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeGauge(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s gauge\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
