package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

// UserService implements user administration.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	user, err := s.newUser(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrUserExists) && !errors.Is(err, domain.ErrUserIDTaken) {
			s.logger.Error().Err(err).Msg("failed to create user")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user created")
	return user, nil
}

// newUser validates input, applies defaults and hashes the credentials. It
// does not store anything.
func (s *UserService) newUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Invalidf("name is required")
	}
	if input.Password == "" && input.PIN == "" {
		return nil, domain.Invalidf("a password or a pin is required")
	}

	username := strings.TrimSpace(input.Username)
	if username != "" {
		if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
			return nil, err
		}
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = domain.RoleWorker
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}

	user := &domain.User{
		ID:            id,
		Username:      username,
		Name:          name,
		Role:          role,
		AssignedStage: strings.TrimSpace(input.AssignedStage),
	}
	if err := setCredentials(user, input.Password, input.PIN); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser merges the supplied fields into the stored user. The id never
// changes.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username != "" && username != user.Username {
			if err := s.ensureUsernameFree(ctx, username, id); err != nil {
				return nil, err
			}
		}
		patch.Username = &username
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Invalidf("name must not be empty")
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := hashSecret(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("update user %s: %w", id, err)
		}
		patch.Password = &hash
	}
	if patch.PIN != nil && *patch.PIN != "" {
		hash, err := hashSecret(*patch.PIN)
		if err != nil {
			return nil, fmt.Errorf("update user %s: %w", id, err)
		}
		patch.PIN = &hash
	}

	patch.Apply(user)
	if user.Password == "" && user.PIN == "" {
		return nil, domain.Invalidf("a password or a pin is required")
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// Seed populates an empty user collection. It is a no-op once any user
// exists. The batch is checked in full before anything is written and then
// stored in one call, so a rejected seed can simply be retried.
func (s *UserService) Seed(ctx context.Context, users []ports.CreateUserInput) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed users: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	batch := make([]*domain.User, 0, len(users))
	ids := make(map[string]bool, len(users))
	usernames := make(map[string]bool, len(users))
	for i, in := range users {
		user, err := s.newUser(ctx, in)
		if err != nil {
			return 0, fmt.Errorf("seed users: entry %d: %w", i, err)
		}
		if ids[user.ID] {
			return 0, fmt.Errorf("seed users: entry %d: %w", i, domain.ErrUserIDTaken)
		}
		if user.Username != "" && usernames[user.Username] {
			return 0, fmt.Errorf("seed users: entry %d: %w", i, domain.ErrUserExists)
		}
		ids[user.ID] = true
		usernames[user.Username] = true
		batch = append(batch, user)
	}

	if err := s.repo.CreateMany(ctx, batch); err != nil {
		return 0, fmt.Errorf("seed users: %w", err)
	}
	s.logger.Info().Int("count", len(batch)).Msg("users seeded")
	return len(batch), nil
}

// ensureUsernameFree fails with ErrUserExists when another user owns username.
func (s *UserService) ensureUsernameFree(ctx context.Context, username, selfID string) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check username: %w", err)
	case existing.ID != selfID:
		return domain.ErrUserExists
	}
	return nil
}

func setCredentials(user *domain.User, password, pin string) error {
	if password != "" {
		hash, err := hashSecret(password)
		if err != nil {
			return err
		}
		user.Password = hash
	}
	if pin != "" {
		hash, err := hashSecret(pin)
		if err != nil {
			return err
		}
		user.PIN = hash
	}
	return nil
}
