package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

// AuthService checks credentials against stored users. When a JWT secret is
// configured, successful logins also carry a signed session token.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// LoginByPassword authenticates by username. The supplied value is accepted
// when it matches either the stored password or the stored PIN.
func (s *AuthService) LoginByPassword(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("login %s: %w", username, err)
	}

	if !matchSecret(user.Password, password) && !matchSecret(user.PIN, password) {
		s.logger.Info().Str("username", username).Msg("password login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	return s.result(user)
}

// LoginByPIN authenticates with a PIN alone.
func (s *AuthService) LoginByPIN(ctx context.Context, pin string) (*ports.LoginResult, error) {
	if pin == "" {
		return nil, domain.ErrInvalidCredentials
	}

	users, err := s.repo.FindWithPIN(ctx)
	if err != nil {
		return nil, fmt.Errorf("pin login: %w", err)
	}
	for _, u := range users {
		if matchSecret(u.PIN, pin) {
			return s.result(u)
		}
	}

	s.logger.Info().Msg("pin login rejected")
	return nil, domain.ErrInvalidCredentials
}

func (s *AuthService) result(user *domain.User) (*ports.LoginResult, error) {
	res := &ports.LoginResult{User: user}
	if s.jwtSecret == "" {
		return res, nil
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	res.Token = token
	return res, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
