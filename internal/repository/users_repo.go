package repository

import (
	"context"

	"github.com/namenice/kamui/internal/domain"
)

// UsersRepository covers the auxiliary account table. Users are soft-deleted:
// every read filters on deleted_at IS NULL.
type UsersRepository interface {
	ListUsers(ctx context.Context, f UserFilter, opts ListOptions) ([]*domain.User, int, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	SoftDeleteUser(ctx context.Context, id string) error
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}

// UserFilter narrows user lists. Search matches first/last name and email.
type UserFilter struct {
	Search string
	Role   string
	Status string
}
