package jobs

import "context"

// Repo persists jobs. List methods return newest first.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, id string) (Job, error)
	ListByStatus(ctx context.Context, status string) ([]Job, error)
	ListByCompany(ctx context.Context, companyID string) ([]Job, error)
	Update(ctx context.Context, job Job) error
	Delete(ctx context.Context, id string) error
}
