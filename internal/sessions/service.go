package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobboard-backend/internal/shared/auth"
)

// ErrRevoked is returned for tokens presented after logout.
var ErrRevoked = fmt.Errorf("%w: revoked", auth.ErrInvalidToken)

// Session is an issued bearer token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service issues, authenticates and revokes session tokens.
type Service struct {
	Signer *auth.Signer
	Store  Store
}

func NewService(signer *auth.Signer, store Store) *Service {
	return &Service{Signer: signer, Store: store}
}

func (s *Service) Issue(ctx context.Context, claims auth.Claims) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	token, issued, err := s.Signer.Sign(claims)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	return Session{Token: token, ExpiresAt: issued.ExpiresAt()}, nil
}

// Authenticate verifies token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Claims, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return auth.Claims{}, err
	}
	if s.Store == nil {
		return claims, nil
	}
	revoked, err := s.Store.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return auth.Claims{}, err
	}
	if revoked {
		return auth.Claims{}, ErrRevoked
	}
	return claims, nil
}

func (s *Service) Revoke(ctx context.Context, claims auth.Claims) error {
	if claims.JTI == "" {
		return errors.New("token has no id")
	}
	if s.Store == nil {
		return nil
	}
	return s.Store.Revoke(ctx, claims.JTI, claims.ExpiresAt())
}
