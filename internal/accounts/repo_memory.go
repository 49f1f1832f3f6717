package accounts

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu            sync.RWMutex
	users         map[string]User
	userEmails    map[string]string
	companies     map[string]Company
	companyEmails map[string]string
}

var _ Repo = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:         make(map[string]User),
		userEmails:    make(map[string]string),
		companies:     make(map[string]Company),
		companyEmails: make(map[string]string),
	}
}

func (r *MemoryRepo) CreateUser(ctx context.Context, u User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.userEmails[u.Email]; taken {
		return ErrEmailTaken
	}
	r.users[u.ID] = u.clone()
	r.userEmails[u.Email] = u.ID
	return nil
}

func (r *MemoryRepo) CreateCompany(ctx context.Context, c Company) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.companyEmails[c.Email]; taken {
		return ErrEmailTaken
	}
	r.companies[c.ID] = c.clone()
	r.companyEmails[c.Email] = c.ID
	return nil
}

func (r *MemoryRepo) GetUserByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u.clone(), nil
}

func (r *MemoryRepo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.userEmails[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return r.users[id].clone(), nil
}

func (r *MemoryRepo) GetCompanyByID(ctx context.Context, id string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.companies[id]
	if !ok {
		return Company{}, ErrCompanyNotFound
	}
	return c.clone(), nil
}

func (r *MemoryRepo) GetCompanyByEmail(ctx context.Context, email string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.companyEmails[email]
	if !ok {
		return Company{}, ErrCompanyNotFound
	}
	return r.companies[id].clone(), nil
}

func (r *MemoryRepo) UpdateUser(ctx context.Context, u User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok {
		return ErrUserNotFound
	}
	existing.Name = u.Name
	existing.UserProfile = u.UserProfile
	existing.UpdatedAt = u.UpdatedAt
	r.users[u.ID] = existing.clone()
	return nil
}

func (r *MemoryRepo) UpdateCompany(ctx context.Context, c Company) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.companies[c.ID]
	if !ok {
		return ErrCompanyNotFound
	}
	existing.Name = c.Name
	existing.CompanyName = c.CompanyName
	existing.CompanyProfile = c.CompanyProfile
	existing.UpdatedAt = c.UpdatedAt
	r.companies[c.ID] = existing.clone()
	return nil
}
