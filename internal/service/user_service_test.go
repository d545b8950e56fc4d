package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-tickets/internal/auth"
	"github.com/spec-kit/support-tickets/internal/cache"
	"github.com/spec-kit/support-tickets/internal/domain"
	apperrors "github.com/spec-kit/support-tickets/pkg/errorutil"
)

func TestCreateUserThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, role := range []domain.Role{domain.RoleClient, domain.RoleOperator} {
		email := role.String() + "@example.com"
		u, err := f.users.CreateUser(ctx, "Someone", email, role)
		require.NoError(t, err)

		session, err := f.users.Login(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, session.User.ID)
		assert.Equal(t, role, session.User.Role)
		assert.NotEmpty(t, session.Token)
	}

	f.pool.Close()
	_, ok := f.cache.get(cache.UserKey(1))
	assert.True(t, ok)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, "Ana", "ana@example.com", domain.RoleClient)
	require.NoError(t, err)

	_, err = f.users.Register(ctx, "Other", "ana@example.com", domain.RoleOperator)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.users.CreateUser(ctx, "Other", "ana@example.com", domain.RoleOperator)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	assert.Equal(t, 1, f.count("users"))
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name, email string
		role        domain.Role
	}{
		{"", "a@example.com", domain.RoleClient},
		{"Ana", "", domain.RoleClient},
		{"Ana", "not-an-email", domain.RoleClient},
		{"Ana", "a@example.com", domain.Role(0)},
	}
	for _, tc := range cases {
		_, err := f.users.CreateUser(ctx, tc.name, tc.email, tc.role)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, "%+v", tc)
	}
	assert.Equal(t, 0, f.count("users"))
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Login(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Current(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	first := f.user(t, "first@example.com", domain.RoleClient)
	second := f.user(t, "second@example.com", domain.RoleOperator)

	u, err := f.users.Current(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, u.ID)

	session, err := f.users.Login(ctx, second.Email)
	require.NoError(t, err)
	claims, err := auth.NewTokenManager("test-secret", 5).ParseToken(session.Token)
	require.NoError(t, err)

	u, err = f.users.Current(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, second.ID, u.ID)
}

func TestUserStoreFailure(t *testing.T) {
	svc := NewUserService(UserDependencies{
		Store:  failingStore{err: errConnRefused},
		Tokens: auth.NewTokenManager("s", 5),
	})
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "Ana", "ana@example.com", domain.RoleClient)
	assert.ErrorIs(t, err, apperrors.ErrStoreFailure)
	_, err = svc.Register(ctx, "Ana", "ana@example.com", domain.RoleClient)
	assert.ErrorIs(t, err, apperrors.ErrStoreFailure)
	_, err = svc.Login(ctx, "ana@example.com")
	assert.ErrorIs(t, err, apperrors.ErrStoreFailure)
}
