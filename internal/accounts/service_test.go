package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/storage/selector"
)

func newTestService(scope string) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	svc := NewService(selector.NewFixed[Repo](repo), scope)
	svc.Cost = bcrypt.MinCost
	return svc, repo
}

func mustRegister(t *testing.T, svc *Service, in RegisterInput) Identity {
	t.Helper()
	ident, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register(%s): %v", in.Email, err)
	}
	return ident
}

func TestRegisterThenLoginWithNormalizedEmail(t *testing.T) {
	svc, repo := newTestService(config.EmailScopeKind)
	ctx := context.Background()

	ident := mustRegister(t, svc, RegisterInput{Role: "company", Email: "  HR@Acme.io ", Password: "s3cret", Name: "Ann", CompanyName: "Acme"})
	if ident.Email != "hr@acme.io" || ident.Role != RoleCompany || ident.CompanyName != "Acme" {
		t.Fatalf("unexpected identity %+v", ident)
	}

	stored, err := repo.GetCompanyByEmail(ctx, "hr@acme.io")
	if err != nil {
		t.Fatalf("GetCompanyByEmail: %v", err)
	}
	if stored.PasswordHash == "s3cret" || stored.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}

	got, err := svc.Login(ctx, "hr@acme.io", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != ident.ID || got.Role != RoleCompany {
		t.Fatalf("expected company identity %s, got %+v", ident.ID, got)
	}
}

func TestRegisterDuplicateWithinKind(t *testing.T) {
	svc, _ := newTestService(config.EmailScopeKind)
	mustRegister(t, svc, RegisterInput{Role: "user", Email: "sam@x.io", Password: "pw"})

	_, err := svc.Register(context.Background(), RegisterInput{Role: "user", Email: "SAM@x.io", Password: "other"})
	if !errors.Is(err, apperr.ErrAlreadyExists) || err.Error() != "User already exists" {
		t.Fatalf("expected User already exists, got %v", err)
	}

	// Per-kind scope accepts the same email as a company.
	mustRegister(t, svc, RegisterInput{Role: "company", Email: "sam@x.io", Password: "pw", CompanyName: "Sam Co"})
}

func TestGlobalScopeRejectsOtherKind(t *testing.T) {
	svc, _ := newTestService(config.EmailScopeGlobal)
	mustRegister(t, svc, RegisterInput{Role: "user", Email: "sam@x.io", Password: "pw"})

	_, err := svc.Register(context.Background(), RegisterInput{Role: "company", Email: "sam@x.io", Password: "pw", CompanyName: "Sam Co"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, repo := newTestService(config.EmailScopeKind)
	cases := []RegisterInput{
		{Role: "user", Password: "pw"},
		{Role: "user", Email: "a@b.io"},
		{Role: "mentor", Email: "a@b.io", Password: "pw"},
		{Role: "user", Email: "not-an-email", Password: "pw"},
		{Role: "company", Email: "a@b.io", Password: "pw"},
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("%+v: expected validation error, got %v", in, err)
		}
	}
	if _, err := repo.GetUserByEmail(context.Background(), "a@b.io"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("nothing should be persisted, got %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(config.EmailScopeKind)
	mustRegister(t, svc, RegisterInput{Role: "user", Email: "sam@x.io", Password: "right"})

	_, wrongPw := svc.Login(context.Background(), "sam@x.io", "wrong")
	_, unknown := svc.Login(context.Background(), "nobody@x.io", "right")
	if !errors.Is(wrongPw, apperr.ErrInvalidCredentials) || !errors.Is(unknown, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v / %v", wrongPw, unknown)
	}
	if wrongPw.Error() != unknown.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPw, unknown)
	}
}

func TestLoginChecksCompanyBeforeUser(t *testing.T) {
	svc, _ := newTestService(config.EmailScopeKind)
	mustRegister(t, svc, RegisterInput{Role: "company", Email: "dual@x.io", Password: "company-pw", CompanyName: "Dual"})
	mustRegister(t, svc, RegisterInput{Role: "user", Email: "dual@x.io", Password: "user-pw"})

	got, err := svc.Login(context.Background(), "dual@x.io", "company-pw")
	if err != nil || got.Role != RoleCompany {
		t.Fatalf("expected company login, got %+v %v", got, err)
	}
	got, err = svc.Login(context.Background(), "dual@x.io", "user-pw")
	if !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("a company holding the email must decide the login, got %+v %v", got, err)
	}

	mustRegister(t, svc, RegisterInput{Role: "user", Email: "solo@x.io", Password: "user-pw"})
	got, err = svc.Login(context.Background(), "solo@x.io", "user-pw")
	if err != nil || got.Role != RoleUser {
		t.Fatalf("expected user login, got %+v %v", got, err)
	}
}

func rawPatch(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var p map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	return p
}

func TestUpdateUserReflectsAllowedFields(t *testing.T) {
	svc, _ := newTestService(config.EmailScopeKind)
	ident := mustRegister(t, svc, RegisterInput{Role: "user", Email: "sam@x.io", Password: "pw", Name: "Sam"})
	ctx := context.Background()

	body := `{"name":"Samuel","phone":"555","skills":["go","sql"],"bio":"hi","password":"hacked","email":"evil@x.io","role":"company","avatar":"x"}`
	if _, err := svc.UpdateUser(ctx, auth.Actor{}, ident.ID, rawPatch(t, body)); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	u, err := svc.GetUser(ctx, ident.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.Name != "Samuel" || u.Phone != "555" || u.Bio != "hi" || len(u.Skills) != 2 || u.Skills[1] != "sql" {
		t.Fatalf("profile not updated: %+v", u)
	}
	if u.Email != "sam@x.io" || u.Role != RoleUser || u.Avatar != "" {
		t.Fatalf("protected fields changed: %+v", u)
	}
	if _, err := svc.Login(ctx, "sam@x.io", "pw"); err != nil {
		t.Fatalf("password must be unchanged: %v", err)
	}
	if !u.UpdatedAt.After(u.CreatedAt) && !u.UpdatedAt.Equal(u.CreatedAt) {
		t.Fatalf("updatedAt not stamped")
	}
}

func TestUpdateRejectsUnknownFields(t *testing.T) {
	svc, _ := newTestService(config.EmailScopeKind)
	ident := mustRegister(t, svc, RegisterInput{Role: "company", Email: "hr@acme.io", Password: "pw", CompanyName: "Acme"})

	_, err := svc.UpdateCompany(context.Background(), auth.Actor{}, ident.ID, rawPatch(t, `{"industry":"IT","isAdmin":true}`))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	co, _ := svc.GetCompany(context.Background(), ident.ID)
	if co.Industry != "" {
		t.Fatalf("rejected patch must not be applied")
	}
}

func TestUpdateCompanyProfile(t *testing.T) {
	svc, _ := newTestService(config.EmailScopeKind)
	ident := mustRegister(t, svc, RegisterInput{Role: "company", Email: "hr@acme.io", Password: "pw", CompanyName: "Acme"})

	body := `{"employees":"250","foundedYear":1999,"social":{"linkedin":"in/acme"},"companyName":"Acme Corp"}`
	co, err := svc.UpdateCompany(context.Background(), auth.Actor{ID: ident.ID, Role: RoleCompany}, ident.ID, rawPatch(t, body))
	if err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}
	if co.Employees != 250 || co.FoundedYear == nil || *co.FoundedYear != 1999 || co.Social.LinkedIn != "in/acme" || co.CompanyName != "Acme Corp" {
		t.Fatalf("unexpected company %+v", co)
	}
}

func TestUpdateEnforcesOwner(t *testing.T) {
	svc, _ := newTestService(config.EmailScopeKind)
	ident := mustRegister(t, svc, RegisterInput{Role: "user", Email: "sam@x.io", Password: "pw"})

	_, err := svc.UpdateUser(context.Background(), auth.Actor{ID: "someone-else", Role: RoleUser}, ident.ID, rawPatch(t, `{"bio":"x"}`))
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAttachUserCVReturnsPrevious(t *testing.T) {
	svc, _ := newTestService(config.EmailScopeKind)
	ident := mustRegister(t, svc, RegisterInput{Role: "user", Email: "sam@x.io", Password: "pw"})
	ctx := context.Background()

	prev, err := svc.AttachUserCV(ctx, auth.Actor{}, ident.ID, Blob{URL: "/api/blobs/a.pdf", Type: "application/pdf", Name: "cv.pdf", Pages: 2})
	if err != nil || prev != "" {
		t.Fatalf("first attach: prev=%q err=%v", prev, err)
	}
	prev, err = svc.AttachUserCV(ctx, auth.Actor{}, ident.ID, Blob{URL: "/api/blobs/b.pdf", Type: "application/pdf", Name: "cv2.pdf"})
	if err != nil || prev != "/api/blobs/a.pdf" {
		t.Fatalf("second attach: prev=%q err=%v", prev, err)
	}

	u, _ := svc.GetUser(ctx, ident.ID)
	if u.CV != "/api/blobs/b.pdf" || u.CVName != "cv2.pdf" || u.CVPages != 0 {
		t.Fatalf("unexpected cv fields %+v", u.UserProfile)
	}

	if _, err := svc.AttachUserAvatar(ctx, auth.Actor{}, "missing", Blob{URL: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
