package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

const jobColumns = `id, title, description, requirements, company, company_id, location,
  job_type, sector, salary, deadline, status, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (` + jobColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Description,
		job.Requirements,
		job.Company,
		job.CompanyID,
		job.Location,
		job.JobType,
		job.Sector,
		job.Salary,
		job.Deadline,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 LIMIT 1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, fmt.Errorf("select job: %w", err)
	}
	return job, nil
}

func (r *PGRepo) ListByStatus(ctx context.Context, status string) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = $1 ORDER BY created_at DESC, id`
	return r.list(ctx, query, status)
}

func (r *PGRepo) ListByCompany(ctx context.Context, companyID string) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1 ORDER BY created_at DESC, id`
	return r.list(ctx, query, companyID)
}

func (r *PGRepo) list(ctx context.Context, query string, arg string) ([]Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Requirements,
		&job.Company,
		&job.CompanyID,
		&job.Location,
		&job.JobType,
		&job.Sector,
		&job.Salary,
		&job.Deadline,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	return job, err
}

func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE jobs SET
  title = $2,
  description = $3,
  requirements = $4,
  company = $5,
  location = $6,
  job_type = $7,
  sector = $8,
  salary = $9,
  deadline = $10,
  status = $11,
  updated_at = $12
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Description,
		job.Requirements,
		job.Company,
		job.Location,
		job.JobType,
		job.Sector,
		job.Salary,
		job.Deadline,
		job.Status,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
