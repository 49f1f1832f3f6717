package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	app Application
	seq uint64
}

type MemoryRepo struct {
	mu   sync.RWMutex
	apps map[string]memoryEntry
	seq  uint64
}

var _ Repo = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{apps: make(map[string]memoryEntry)}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.apps[app.ID] = memoryEntry{app: app, seq: r.seq}
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return entry.app, nil
}

func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	return r.list(ctx, func(a Application) bool { return a.JobID == jobID })
}

func (r *MemoryRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]Application, error) {
	wanted := make(map[string]struct{}, len(jobIDs))
	for _, id := range jobIDs {
		wanted[id] = struct{}{}
	}
	return r.list(ctx, func(a Application) bool {
		_, ok := wanted[a.JobID]
		return ok
	})
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	return r.list(ctx, func(a Application) bool { return a.UserID == userID })
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Application) bool) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	entries := make([]memoryEntry, 0)
	for _, e := range r.apps {
		if keep(e.app) {
			entries = append(entries, e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.app.AppliedAt.Equal(b.app.AppliedAt) {
			return a.app.AppliedAt.After(b.app.AppliedAt)
		}
		return a.seq > b.seq
	})
	out := make([]Application, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.app)
	}
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.apps[id]
	if !ok {
		return ErrNotFound
	}
	entry.app.Status = status
	entry.app.UpdatedAt = at
	r.apps[id] = entry
	return nil
}
