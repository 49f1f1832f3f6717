package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestSigner(t *testing.T, now time.Time) *Signer {
	t.Helper()
	s, err := NewSigner("test-secret", false, time.Hour)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	return s.WithClock(func() time.Time { return now })
}

func TestSignVerifyRoundTrip(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSigner(t, now)

	token, issued, err := s.Sign(Claims{Sub: "company-1", Role: "company", Email: "hr@acme.io"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if issued.JTI == "" {
		t.Fatalf("expected jti to be set")
	}
	if issued.Exp != now.Add(time.Hour).Unix() {
		t.Fatalf("unexpected exp %d", issued.Exp)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Sub != "company-1" || claims.Role != "company" || claims.JTI != issued.JTI {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyRejectsTampered(t *testing.T) {
	s := newTestSigner(t, time.Now())
	token, _, err := s.Sign(Claims{Sub: "user-1", Role: "user"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	parts := strings.Split(token, ".")
	forged, _, _ := s.Sign(Claims{Sub: "user-2", Role: "company"})
	parts[1] = strings.Split(forged, ".")[1]

	if _, err := s.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	other, _ := NewSigner("other-secret", false, time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature mismatch, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := newTestSigner(t, issuedAt).Sign(Claims{Sub: "user-1", Role: "user"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	later := newTestSigner(t, issuedAt.Add(2*time.Hour))
	_, err = later.Verify(token)
	if !errors.Is(err, ErrExpiredToken) || !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestNewSignerRequiresSecretOutsideDev(t *testing.T) {
	if _, err := NewSigner("", false, time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := NewSigner("", true, time.Hour); err != nil {
		t.Fatalf("dev signer: %v", err)
	}
}
