package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

const applicationColumns = `id, job_id, user_id, user_name, user_email, cover_letter, status, applied_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (` + applicationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.JobID,
		app.UserID,
		app.UserName,
		app.UserEmail,
		app.CoverLetter,
		app.Status,
		app.AppliedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 LIMIT 1`
	var app Application
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.JobID, &app.UserID, &app.UserName, &app.UserEmail,
		&app.CoverLetter, &app.Status, &app.AppliedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, fmt.Errorf("select application: %w", err)
	}
	return app, nil
}

func (r *PGRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 ORDER BY applied_at DESC, id`
	return r.list(ctx, query, jobID)
}

func (r *PGRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]Application, error) {
	if len(jobIDs) == 0 {
		return []Application{}, nil
	}
	marks := make([]string, len(jobIDs))
	args := make([]any, len(jobIDs))
	for i, id := range jobIDs {
		marks[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id IN (` + strings.Join(marks, ", ") + `) ORDER BY applied_at DESC, id`
	return r.list(ctx, query, args...)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 ORDER BY applied_at DESC, id`
	return r.list(ctx, query, userID)
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var app Application
		if err := rows.Scan(
			&app.ID, &app.JobID, &app.UserID, &app.UserName, &app.UserEmail,
			&app.CoverLetter, &app.Status, &app.AppliedAt, &app.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
