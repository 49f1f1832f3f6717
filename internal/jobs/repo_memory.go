package jobs

import (
	"context"
	"sort"
	"sync"
)

type memoryEntry struct {
	job Job
	seq uint64
}

type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]memoryEntry
	seq  uint64
}

var _ Repo = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]memoryEntry)}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.jobs[job.ID] = memoryEntry{job: job, seq: r.seq}
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return entry.job, nil
}

func (r *MemoryRepo) ListByStatus(ctx context.Context, status string) ([]Job, error) {
	return r.list(ctx, func(j Job) bool { return j.Status == status })
}

func (r *MemoryRepo) ListByCompany(ctx context.Context, companyID string) ([]Job, error) {
	return r.list(ctx, func(j Job) bool { return j.CompanyID == companyID })
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Job) bool) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	entries := make([]memoryEntry, 0, len(r.jobs))
	for _, e := range r.jobs {
		if keep(e.job) {
			entries = append(entries, e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.job.CreatedAt.Equal(b.job.CreatedAt) {
			return a.job.CreatedAt.After(b.job.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]Job, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.job)
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.jobs[job.ID]
	if !ok {
		return ErrNotFound
	}
	job.CreatedAt = entry.job.CreatedAt
	job.CompanyID = entry.job.CompanyID
	entry.job = job
	r.jobs[job.ID] = entry
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}
