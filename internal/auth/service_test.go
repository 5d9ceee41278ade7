package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/retour-ops/retour/internal/shared"
)

type mockRepository struct {
	users map[string]*User
	err   error
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := &mockRepository{users: map[string]*User{
		"alice": {ID: 1, Username: "alice", PasswordHash: hashPassword(t, "s3cret"), Role: shared.RoleStaff, IsActive: true},
	}}
	svc := NewService(repo, slog.Default(), false)

	user, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := &mockRepository{users: map[string]*User{
		"alice": {ID: 1, Username: "alice", PasswordHash: hashPassword(t, "s3cret"), IsActive: true},
	}}
	svc := NewService(repo, slog.Default(), false)

	_, err := svc.Authenticate(context.Background(), "alice", "nope")
	assert.True(t, errors.Is(err, shared.ErrInvalidCredentials))
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := NewService(&mockRepository{users: map[string]*User{}}, slog.Default(), false)

	_, err := svc.Authenticate(context.Background(), "ghost", "whatever")
	assert.True(t, errors.Is(err, shared.ErrInvalidCredentials))
}

func TestAuthenticateInactiveUser(t *testing.T) {
	repo := &mockRepository{users: map[string]*User{
		"alice": {ID: 1, Username: "alice", PasswordHash: hashPassword(t, "s3cret"), IsActive: false},
	}}
	svc := NewService(repo, slog.Default(), false)

	_, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	assert.True(t, errors.Is(err, shared.ErrInvalidCredentials))
}

func TestAuthenticateStoreDownWithoutFallback(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewService(&mockRepository{err: storeErr}, slog.Default(), false)

	_, err := svc.Authenticate(context.Background(), "admin", "admin123")
	assert.True(t, errors.Is(err, storeErr))
}

func TestAuthenticateStoreDownWithFallback(t *testing.T) {
	svc := NewService(&mockRepository{err: errors.New("connection refused")}, slog.Default(), true)

	user, err := svc.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, shared.RoleAdmin, user.Role)

	_, err = svc.Authenticate(context.Background(), "admin", "wrong")
	assert.True(t, errors.Is(err, shared.ErrInvalidCredentials))
}
