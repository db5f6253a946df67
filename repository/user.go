package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

type UserRepository interface {
	// Create inserts a new account and fails with domain.ErrEmailTaken when
	// the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
