package ports

import (
	"context"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// CreateUserInput carries registration data. ID is generated when empty.
type CreateUserInput struct {
	ID            string
	Username      string
	Password      string
	PIN           string
	Name          string
	Role          string
	AssignedStage string
}

// UserService defines user administration use cases.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	// Seed creates the given users only when no user exists yet and reports
	// how many were created.
	Seed(ctx context.Context, users []CreateUserInput) (int, error)
}
