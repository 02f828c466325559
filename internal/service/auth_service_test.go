package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OutOfContext/MyTicketSystem/internal/auth"
	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	apperrors "github.com/OutOfContext/MyTicketSystem/pkg/util"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.authSvc.Register(ctx, RegistrationInput{Username: "alice", Password: "pw1", Email: "alice@example.com", FullName: "Alice"}))

	err := env.authSvc.Register(ctx, RegistrationInput{Username: "alice", Password: "pw2", Email: "other@example.com", FullName: "Other"})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Username is already taken!")
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	err = env.authSvc.Register(ctx, RegistrationInput{Username: "alice2", Password: "pw2", Email: "alice@example.com", FullName: "Other"})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Email is already in use!")

	n, err := env.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "failed registrations create no rows")

	resp, err := env.authSvc.Login(ctx, "alice", "pw1", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Type)
	assert.Equal(t, "USER", resp.Role)
	assert.Equal(t, "Alice", resp.FullName)

	user, claims, err := env.authSvc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, domain.RoleUser, claims.Role)

	_, err = env.authSvc.Login(ctx, "alice", "wrong", "10.0.0.1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = env.authSvc.Login(ctx, "nobody", "pw1", "10.0.0.1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "alice", domain.RoleUser)

	resp, err := env.authSvc.Login(ctx, "alice", "pw-alice", "10.0.0.1")
	require.NoError(t, err)
	_, claims, err := env.authSvc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, env.authSvc.Logout(ctx, claims))

	_, _, err = env.authSvc.Authenticate(ctx, resp.Token)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.EqualError(t, err, "Token has been revoked")
}

func TestAuthService_DisabledAndDeletedUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", domain.RoleUser)

	resp, err := env.authSvc.Login(ctx, "alice", "pw-alice", "10.0.0.1")
	require.NoError(t, err)

	alice.Enabled = false
	require.NoError(t, env.users.Update(ctx, alice))

	_, err = env.authSvc.Login(ctx, "alice", "pw-alice", "10.0.0.1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, _, err = env.authSvc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, env.userSvc.DeleteUser(ctx, alice.ID))
	_, _, err = env.authSvc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, _, err = env.authSvc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_LoginThrottled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "alice", domain.RoleUser)

	for i := 0; i < 5; i++ {
		_, err := env.authSvc.Login(ctx, "alice", "wrong", "10.0.0.1")
		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	}
	_, err := env.authSvc.Login(ctx, "ALICE", "pw-alice", "10.0.0.1")
	assert.ErrorIs(t, err, &apperrors.DomainError{Code: apperrors.CodeTooManyRequests})
}

func TestAuthService_LoginThrottledPerClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "alice", domain.RoleUser)

	for i := 0; i < 5; i++ {
		_, err := env.authSvc.Login(ctx, "alice", "wrong", "203.0.113.9")
		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	}
	_, err := env.authSvc.Login(ctx, "alice", "pw-alice", "203.0.113.9")
	assert.ErrorIs(t, err, &apperrors.DomainError{Code: apperrors.CodeTooManyRequests})

	resp, err := env.authSvc.Login(ctx, "alice", "pw-alice", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
}

func TestAuthService_FailsOpenWithoutRedis(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "alice", domain.RoleUser)
	env.redis.Close()

	resp, err := env.authSvc.Login(ctx, "alice", "pw-alice", "10.0.0.1")
	require.NoError(t, err)
	_, _, err = env.authSvc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
}

func TestAuthService_WithoutRedisClient(t *testing.T) {
	env := newTestEnv(t)
	env.authSvc.denylist = auth.NewTokenDenylist(nil)
	env.authSvc.limiter = auth.NewLoginLimiter(nil, 5)
	env.createUser(t, "alice", domain.RoleUser)

	for i := 0; i < 10; i++ {
		_, err := env.authSvc.Login(context.Background(), "alice", "pw-alice", "10.0.0.1")
		require.NoError(t, err)
	}
}
