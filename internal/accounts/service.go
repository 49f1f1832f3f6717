package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/patch"
	"jobboard-backend/internal/shared/storage/selector"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/shared/validate"
)

// ErrNotOwner rejects a change to another account's profile.
var ErrNotOwner = fmt.Errorf("%w: profile belongs to another account", apperr.ErrForbidden)

// dummyHash is compared against on lookup misses so that unknown emails and
// wrong passwords take the same time.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("jobboard-login-miss"), bcrypt.DefaultCost)
	return h
})

type Service struct {
	Repo       selector.Source[Repo]
	EmailScope string
	Cost       int
	Now        func() time.Time
}

func NewService(repo selector.Source[Repo], emailScope string) *Service {
	return &Service{Repo: repo, EmailScope: emailScope, Cost: bcrypt.DefaultCost, Now: time.Now}
}

// RegisterInput is a registration request for either account kind.
type RegisterInput struct {
	Role        string `json:"role" validate:"required,oneof=user company"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckOwner allows anonymous callers and the account itself.
func CheckOwner(actor auth.Actor, role, id string) error {
	if actor.Anonymous() || actor.Is(role, id) {
		return nil
	}
	return ErrNotOwner
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Identity, error) {
	in.Email = NormalizeEmail(in.Email)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.Name = strings.TrimSpace(in.Name)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := validate.Struct(in); err != nil {
		return Identity{}, err
	}
	if in.Role == RoleCompany && in.CompanyName == "" {
		return Identity{}, apperr.Validation("Company name is required for company registration",
			apperr.FieldIssue{Field: "companyName", Issue: "required"})
	}

	repo := s.Repo.Pick()
	if err := s.checkScope(ctx, repo, in.Role, in.Email); err != nil {
		return Identity{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return Identity{}, apperr.Validation("", apperr.FieldIssue{Field: "password", Issue: "must be at most 72 bytes"})
		}
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	var ident Identity
	switch in.Role {
	case RoleCompany:
		c := Company{
			ID:           uuid.NewString(),
			Email:        in.Email,
			PasswordHash: string(hash),
			Name:         in.Name,
			CompanyName:  in.CompanyName,
			Role:         RoleCompany,
			CompanyProfile: CompanyProfile{
				Industry:    strings.TrimSpace(in.Industry),
				Website:     strings.TrimSpace(in.Website),
				Description: strings.TrimSpace(in.Description),
				Location:    strings.TrimSpace(in.Location),
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.CreateCompany(ctx, c); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				return Identity{}, ErrCompanyExists
			}
			return Identity{}, fmt.Errorf("create company: %w", err)
		}
		ident = c.Identity()
	default:
		u := User{
			ID:           uuid.NewString(),
			Email:        in.Email,
			PasswordHash: string(hash),
			Name:         in.Name,
			Role:         RoleUser,
			UserProfile:  UserProfile{Skills: []string{}},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.CreateUser(ctx, u); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				return Identity{}, ErrUserExists
			}
			return Identity{}, fmt.Errorf("create user: %w", err)
		}
		ident = u.Identity()
	}

	metrics.IncAccountRegistered()
	telemetry.Info("account.registered", map[string]any{
		"account_id": ident.ID,
		"role":       ident.Role,
	})
	return ident, nil
}

// checkScope enforces cross-kind uniqueness when emails are global. Within a
// kind the repository's unique constraint decides.
func (s *Service) checkScope(ctx context.Context, repo Repo, role, email string) error {
	if s.EmailScope != config.EmailScopeGlobal {
		return nil
	}
	var err error
	if role == RoleCompany {
		_, err = repo.GetUserByEmail(ctx, email)
	} else {
		_, err = repo.GetCompanyByEmail(ctx, email)
	}
	switch {
	case err == nil:
		return ErrEmailInUse
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check email scope: %w", err)
	}
}

// Login checks company accounts first, then users. A company holding the
// email decides the outcome, so a user account under the same email is only
// reachable when no company has it. Every miss is ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Identity, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return Identity{}, apperr.Validation("Email and password are required",
			apperr.FieldIssue{Field: "email", Issue: "required"},
			apperr.FieldIssue{Field: "password", Issue: "required"})
	}

	repo := s.Repo.Pick()

	company, err := repo.GetCompanyByEmail(ctx, email)
	switch {
	case err == nil:
		if passwordMatches(company.PasswordHash, password) {
			return loggedIn(company.Identity()), nil
		}
		return Identity{}, loginFailed("company")
	case !errors.Is(err, ErrCompanyNotFound):
		return Identity{}, fmt.Errorf("lookup company: %w", err)
	}

	user, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if passwordMatches(user.PasswordHash, password) {
			return loggedIn(user.Identity()), nil
		}
		return Identity{}, loginFailed("user")
	case !errors.Is(err, ErrUserNotFound):
		return Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
	return Identity{}, loginFailed("")
}

func loginFailed(matched string) error {
	metrics.IncLogin(false)
	telemetry.Warn("account.login_failed", map[string]any{"reason": "invalid_credentials", "matched_kind": matched})
	return ErrInvalidCredentials
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func loggedIn(ident Identity) Identity {
	metrics.IncLogin(true)
	telemetry.Info("account.login", map[string]any{"account_id": ident.ID, "role": ident.Role})
	return ident
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrUserNotFound
	}
	return s.Repo.Pick().GetUserByID(ctx, id)
}

func (s *Service) GetCompany(ctx context.Context, id string) (Company, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Company{}, ErrCompanyNotFound
	}
	return s.Repo.Pick().GetCompanyByID(ctx, id)
}

// UpdateUser applies an allow-listed partial update to a user profile.
func (s *Service) UpdateUser(ctx context.Context, actor auth.Actor, id string, p map[string]json.RawMessage) (User, error) {
	return s.editUser(ctx, actor, id, func(u *User) error {
		return patch.Apply(u, p, userFields, userIgnored)
	})
}

// UpdateCompany applies an allow-listed partial update to a company profile.
func (s *Service) UpdateCompany(ctx context.Context, actor auth.Actor, id string, p map[string]json.RawMessage) (Company, error) {
	return s.editCompany(ctx, actor, id, func(c *Company) error {
		return patch.Apply(c, p, companyFields, companyIgnored)
	})
}

// AttachUserAvatar records a stored avatar and returns the reference it
// replaced.
func (s *Service) AttachUserAvatar(ctx context.Context, actor auth.Actor, id string, b Blob) (string, error) {
	var previous string
	_, err := s.editUser(ctx, actor, id, func(u *User) error {
		previous = u.Avatar
		u.Avatar, u.AvatarType = b.URL, b.Type
		return nil
	})
	return previous, err
}

func (s *Service) AttachUserCV(ctx context.Context, actor auth.Actor, id string, b Blob) (string, error) {
	var previous string
	_, err := s.editUser(ctx, actor, id, func(u *User) error {
		previous = u.CV
		u.CV, u.CVType, u.CVName, u.CVPages = b.URL, b.Type, b.Name, b.Pages
		return nil
	})
	return previous, err
}

func (s *Service) AttachCompanyLogo(ctx context.Context, actor auth.Actor, id string, b Blob) (string, error) {
	var previous string
	_, err := s.editCompany(ctx, actor, id, func(c *Company) error {
		previous = c.Logo
		c.Logo, c.LogoType = b.URL, b.Type
		return nil
	})
	return previous, err
}

// editUser is a read-modify-write; concurrent edits of one profile resolve
// last-writer-wins.
func (s *Service) editUser(ctx context.Context, actor auth.Actor, id string, edit func(*User) error) (User, error) {
	if err := CheckOwner(actor, RoleUser, id); err != nil {
		return User{}, err
	}
	repo := s.Repo.Pick()
	u, err := repo.GetUserByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return User{}, err
	}
	if err := edit(&u); err != nil {
		return User{}, err
	}
	u.UpdatedAt = s.now()
	if err := repo.UpdateUser(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) editCompany(ctx context.Context, actor auth.Actor, id string, edit func(*Company) error) (Company, error) {
	if err := CheckOwner(actor, RoleCompany, id); err != nil {
		return Company{}, err
	}
	repo := s.Repo.Pick()
	c, err := repo.GetCompanyByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Company{}, err
	}
	if err := edit(&c); err != nil {
		return Company{}, err
	}
	c.UpdatedAt = s.now()
	if err := repo.UpdateCompany(ctx, c); err != nil {
		return Company{}, err
	}
	return c, nil
}

func (s *Service) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
