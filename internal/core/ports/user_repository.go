package ports

import (
	"context"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create returns domain.ErrUserExists when the username is taken and
	// domain.ErrUserIDTaken when the id is.
	Create(ctx context.Context, user *domain.User) error
	// CreateMany stores every user or none of them.
	CreateMany(ctx context.Context, users []*domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindWithPIN returns every user that has a PIN set.
	FindWithPIN(ctx context.Context) ([]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update replaces the stored user with the same id.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
