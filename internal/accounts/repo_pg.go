package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobboard-backend/internal/shared/storage/db"
)

const (
	userEmailConstraint    = "user_accounts_email_key"
	companyEmailConstraint = "company_accounts_email_key"
)

// PGRepo stores accounts in Postgres with the profile kept as JSONB.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

func (r *PGRepo) CreateUser(ctx context.Context, u User) error {
	profile, err := json.Marshal(u.UserProfile)
	if err != nil {
		return fmt.Errorf("encode user profile: %w", err)
	}
	const query = `
INSERT INTO user_accounts (id, email, password_hash, name, profile, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.DB.ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Name,
		string(profile),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err, userEmailConstraint) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user account: %w", err)
	}
	return nil
}

func (r *PGRepo) CreateCompany(ctx context.Context, c Company) error {
	profile, err := json.Marshal(c.CompanyProfile)
	if err != nil {
		return fmt.Errorf("encode company profile: %w", err)
	}
	const query = `
INSERT INTO company_accounts (id, email, password_hash, name, company_name, profile, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.DB.ExecContext(ctx, query,
		c.ID,
		c.Email,
		c.PasswordHash,
		c.Name,
		c.CompanyName,
		string(profile),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err, companyEmailConstraint) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert company account: %w", err)
	}
	return nil
}

const selectUser = `
SELECT id, email, password_hash, name, profile, created_at, updated_at
FROM user_accounts
`

func (r *PGRepo) GetUserByID(ctx context.Context, id string) (User, error) {
	return r.getUser(ctx, selectUser+"WHERE id = $1 LIMIT 1", id)
}

func (r *PGRepo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return r.getUser(ctx, selectUser+"WHERE email = $1 LIMIT 1", email)
}

func (r *PGRepo) getUser(ctx context.Context, query string, arg string) (User, error) {
	var u User
	var name sql.NullString
	var profile []byte
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&name,
		&profile,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("select user account: %w", err)
	}
	u.Name = name.String
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &u.UserProfile); err != nil {
			return User{}, fmt.Errorf("decode user profile: %w", err)
		}
	}
	return u.clone(), nil
}

const selectCompany = `
SELECT id, email, password_hash, name, company_name, profile, created_at, updated_at
FROM company_accounts
`

func (r *PGRepo) GetCompanyByID(ctx context.Context, id string) (Company, error) {
	return r.getCompany(ctx, selectCompany+"WHERE id = $1 LIMIT 1", id)
}

func (r *PGRepo) GetCompanyByEmail(ctx context.Context, email string) (Company, error) {
	return r.getCompany(ctx, selectCompany+"WHERE email = $1 LIMIT 1", email)
}

func (r *PGRepo) getCompany(ctx context.Context, query string, arg string) (Company, error) {
	var c Company
	var name sql.NullString
	var profile []byte
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&c.ID,
		&c.Email,
		&c.PasswordHash,
		&name,
		&c.CompanyName,
		&profile,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrCompanyNotFound
		}
		return Company{}, fmt.Errorf("select company account: %w", err)
	}
	c.Name = name.String
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &c.CompanyProfile); err != nil {
			return Company{}, fmt.Errorf("decode company profile: %w", err)
		}
	}
	return c.clone(), nil
}

func (r *PGRepo) UpdateUser(ctx context.Context, u User) error {
	profile, err := json.Marshal(u.UserProfile)
	if err != nil {
		return fmt.Errorf("encode user profile: %w", err)
	}
	const query = `
UPDATE user_accounts
SET name = $2, profile = $3, updated_at = $4
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, u.ID, u.Name, string(profile), u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user account: %w", err)
	}
	return requireRow(res, ErrUserNotFound)
}

func (r *PGRepo) UpdateCompany(ctx context.Context, c Company) error {
	profile, err := json.Marshal(c.CompanyProfile)
	if err != nil {
		return fmt.Errorf("encode company profile: %w", err)
	}
	const query = `
UPDATE company_accounts
SET name = $2, company_name = $3, profile = $4, updated_at = $5
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.CompanyName, string(profile), c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update company account: %w", err)
	}
	return requireRow(res, ErrCompanyNotFound)
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
