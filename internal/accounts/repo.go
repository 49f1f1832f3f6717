package accounts

import "context"

// Repo persists both account kinds. Lookups by email expect the normalized
// form. Update writes the name and profile fields and updatedAt; email and
// password hash are immutable through it.
type Repo interface {
	CreateUser(ctx context.Context, u User) error
	CreateCompany(ctx context.Context, c Company) error
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetCompanyByID(ctx context.Context, id string) (Company, error)
	GetCompanyByEmail(ctx context.Context, email string) (Company, error)
	UpdateUser(ctx context.Context, u User) error
	UpdateCompany(ctx context.Context, c Company) error
}
