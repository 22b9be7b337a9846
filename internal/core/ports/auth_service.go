package ports

import (
	"context"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// LoginResult is the authenticated user plus an optional session token.
type LoginResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	LoginByPassword(ctx context.Context, username, password string) (*LoginResult, error)
	LoginByPIN(ctx context.Context, pin string) (*LoginResult, error)
}
