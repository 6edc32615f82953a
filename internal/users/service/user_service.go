package service

import (
	"context"

	"github.com/trackly/tracker/internal/auth"
	"github.com/trackly/tracker/internal/users/domain"
)

// Repository is the user storage the services need.
type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, email, passwordHash *string) (*domain.User, error)
}

// UserService handles the current user's profile
type UserService struct {
	repo Repository
}

func NewUserService(repo Repository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateMe changes email and/or password. The password is hashed here.
func (s *UserService) UpdateMe(ctx context.Context, userID string, in domain.UpdateUser) (*domain.User, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	var hash *string
	if in.Password != nil {
		h, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}
	return s.repo.Update(ctx, userID, in.Email, hash)
}
