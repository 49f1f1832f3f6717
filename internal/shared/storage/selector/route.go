package selector

import "jobboard-backend/internal/shared/metrics"

// Source hands out the repository that should serve the current operation.
// Callers pick once per operation and use the result throughout.
type Source[T any] interface {
	Pick() T
}

// Route picks Primary while the monitor reports it available and Fallback
// otherwise. Data written to one side is not copied to the other. Every
// fallback pick is counted in storage_fallback_routes_total.
type Route[T any] struct {
	Primary  T
	Fallback T
	Monitor  *Monitor
}

func NewRoute[T any](primary, fallback T, mon *Monitor) *Route[T] {
	return &Route[T]{Primary: primary, Fallback: fallback, Monitor: mon}
}

func (r *Route[T]) Pick() T {
	if r.Monitor.IsPrimaryAvailable() {
		return r.Primary
	}
	if r.Monitor.Configured() {
		metrics.IncStorageFallback()
	}
	return r.Fallback
}

// Fixed always returns the same repository.
type Fixed[T any] struct {
	Repo T
}

func NewFixed[T any](repo T) Fixed[T] {
	return Fixed[T]{Repo: repo}
}

func (f Fixed[T]) Pick() T {
	return f.Repo
}
