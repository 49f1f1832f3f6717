package applications

import (
	"context"
	"time"
)

// Repo persists applications. Lists are ordered newest applied first.
type Repo interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	// ListByJobs returns the applications to any of jobIDs in one query.
	ListByJobs(ctx context.Context, jobIDs []string) ([]Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
}
