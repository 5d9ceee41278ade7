package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/retour-ops/retour/internal/shared"
)

// fallbackUser is a built-in sandbox credential accepted when the data store
// is unreachable and fallback logins are enabled.
type fallbackUser struct {
	User
	Password string
}

var fallbackUsers = []fallbackUser{
	{User: User{ID: 1, Username: "admin", FullName: "System Administrator", Role: shared.RoleAdmin, IsActive: true}, Password: "admin123"},
	{User: User{ID: 2, Username: "staff", FullName: "Staff Member", Role: shared.RoleStaff, IsActive: true}, Password: "staff123"},
}

// Service wraps authentication business rules.
type Service struct {
	repo          Repository
	logger        *slog.Logger
	allowFallback bool
}

// NewService constructs a new Service. allowFallback enables the degraded-mode
// built-in credentials; callers must keep it off in production.
func NewService(repo Repository, logger *slog.Logger, allowFallback bool) *Service {
	return &Service{repo: repo, logger: logger, allowFallback: allowFallback}
}

// Authenticate validates username/password credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		// The store is unreachable. Degraded-mode logins only.
		if s.allowFallback {
			s.logger.Warn("database unavailable during login, consulting fallback users", slog.Any("error", err))
			return s.authenticateFallback(username, password)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) authenticateFallback(username, password string) (*User, error) {
	for i := range fallbackUsers {
		fb := &fallbackUsers[i]
		if fb.Username == username && fb.Password == password {
			u := fb.User
			return &u, nil
		}
	}
	return nil, shared.ErrInvalidCredentials
}
