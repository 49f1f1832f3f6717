// Package selector decides, per operation, whether the primary store or the
// in-memory fallback serves a request.
package selector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/telemetry"
)

const (
	defaultProbeInterval = 5 * time.Second
	defaultProbeTimeout  = 2 * time.Second

	BackendMemory = "memory"
)

// Pinger is the connectivity check a primary store exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Options tunes a Monitor.
type Options struct {
	// Name labels the primary in logs and health output, e.g. "mongo".
	Name          string
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
	// OnFirstUp runs once, the first time the primary answers. A failure
	// keeps the primary marked down and the hook is retried on the next probe.
	OnFirstUp func(ctx context.Context) error
}

// Monitor tracks primary availability. IsPrimaryAvailable never blocks.
type Monitor struct {
	pinger    Pinger
	opts      Options
	available atomic.Bool

	hookMu   sync.Mutex
	hookDone bool

	startOnce sync.Once
	done      chan struct{}
}

// NewMonitor builds a Monitor. A nil pinger means no primary is configured
// and every operation is served by the fallback.
func NewMonitor(p Pinger, opts Options) *Monitor {
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = defaultProbeInterval
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	if opts.Name == "" {
		opts.Name = "primary"
	}
	return &Monitor{pinger: p, opts: opts, done: make(chan struct{})}
}

// Configured reports whether a primary exists at all.
func (m *Monitor) Configured() bool {
	return m != nil && m.pinger != nil
}

// Name returns the primary's label.
func (m *Monitor) Name() string {
	if m == nil {
		return BackendMemory
	}
	return m.opts.Name
}

// IsPrimaryAvailable reports the last probe result.
func (m *Monitor) IsPrimaryAvailable() bool {
	return m != nil && m.available.Load()
}

// ActiveBackend names the store currently serving operations.
func (m *Monitor) ActiveBackend() string {
	if m.IsPrimaryAvailable() {
		return m.opts.Name
	}
	return BackendMemory
}

// Probe pings the primary once and updates availability. The ping is bounded
// by ProbeTimeout unless ctx carries an earlier deadline.
func (m *Monitor) Probe(ctx context.Context) bool {
	if !m.Configured() {
		return false
	}
	return m.probe(ctx, m.opts.ProbeTimeout)
}

// ProbeWithin runs one probe bounded by timeout instead of ProbeTimeout. It is
// used at startup, where connecting may take longer than a steady-state ping.
func (m *Monitor) ProbeWithin(ctx context.Context, timeout time.Duration) bool {
	if !m.Configured() {
		return false
	}
	if timeout <= 0 {
		timeout = m.opts.ProbeTimeout
	}
	return m.probe(ctx, timeout)
}

func (m *Monitor) probe(ctx context.Context, timeout time.Duration) bool {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := m.pinger.Ping(probeCtx)
	if err == nil {
		err = m.runFirstUp(ctx)
	}
	m.set(err == nil, err)
	return err == nil
}

// Start launches the background probe loop. It stops when ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	if !m.Configured() {
		return
	}
	m.startOnce.Do(func() {
		go m.run(ctx)
	})
}

// Done is closed once the probe loop has exited.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.opts.ProbeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}

func (m *Monitor) runFirstUp(ctx context.Context) error {
	if m.opts.OnFirstUp == nil {
		return nil
	}
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	if m.hookDone {
		return nil
	}
	if err := m.opts.OnFirstUp(ctx); err != nil {
		return err
	}
	m.hookDone = true
	return nil
}

func (m *Monitor) set(up bool, cause error) {
	prev := m.available.Swap(up)
	metrics.SetStoragePrimaryUp(up)
	if prev == up {
		return
	}
	fields := map[string]any{"driver": m.opts.Name}
	if up {
		telemetry.Info("storage.primary_up", fields)
		return
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	telemetry.Warn("storage.primary_down", fields)
}
