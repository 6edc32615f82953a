package service

import (
	"context"
	"errors"

	"github.com/trackly/tracker/internal/auth"
	"github.com/trackly/tracker/internal/users/domain"
)

// Revoker deny-lists a token until it expires.
type Revoker interface {
	Revoke(ctx context.Context, claims *auth.Claims) error
}

// AuthService signs users up and in, and revokes tokens on logout.
type AuthService struct {
	repo    Repository
	tokens  *auth.Tokens
	revoker Revoker
}

func NewAuthService(repo Repository, tokens *auth.Tokens, revoker Revoker) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, revoker: revoker}
}

func (s *AuthService) Signup(ctx context.Context, in domain.Credentials) (*domain.Token, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Create(ctx, in.Email, hash)
	if err != nil {
		return nil, err
	}
	return s.issue(u.ID)
}

// Login returns domain.ErrInvalidCredentials for an unknown email or a
// wrong password alike.
func (s *AuthService) Login(ctx context.Context, in domain.Credentials) (*domain.Token, error) {
	u, err := s.repo.GetByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(u.ID)
}

func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoker == nil || claims == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims)
}

func (s *AuthService) issue(userID string) (*domain.Token, error) {
	tok, _, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}
	return &domain.Token{AccessToken: tok, TokenType: "bearer"}, nil
}
