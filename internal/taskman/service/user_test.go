package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPassword = "Sup3rSecret!"

func TestUserServiceRegister(t *testing.T) {
	s := newTestStore(t)
	svc := &UserService{Store: s}
	ctx := context.Background()

	t.Run("creates an active user", func(t *testing.T) {
		u, err := svc.Register(ctx, "alice", "alice@example.com", testPassword)
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.True(t, u.IsActive)
		require.NotEqual(t, testPassword, u.PasswordHash, "password must be hashed")
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "other@example.com", testPassword)
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "username")
		require.NotContains(t, ve.Fields, "email")
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice2", "alice@example.com", testPassword)
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "email")
		require.NotContains(t, ve.Fields, "username")
	})

	t.Run("reports both colliding identifiers", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "alice@example.com", testPassword)
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "username")
		require.Contains(t, ve.Fields, "email")
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := svc.Register(ctx, "bob", "not-an-email", testPassword)
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "email")
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		weak := map[string]string{
			"short":          "Ab1!",
			"no uppercase":   "sup3rsecret!",
			"no lowercase":   "SUP3RSECRET!",
			"no digit":       "SuperSecret!",
			"no special":     "Sup3rSecret1",
		}
		for name, pw := range weak {
			_, err := svc.Register(ctx, "bob", "bob@example.com", pw)
			ve, ok := AsValidationError(err)
			require.True(t, ok, name)
			require.Contains(t, ve.Fields, "password", name)
		}
	})

	t.Run("collects multiple violations", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "bad", "weak")
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "username")
		require.Contains(t, ve.Fields, "email")
		require.Contains(t, ve.Fields, "password")
	})
}

func TestUserServiceLogin(t *testing.T) {
	s := newTestStore(t)
	svc := &UserService{Store: s}
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", testPassword)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		require.Equal(t, registered.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "WrongPassw0rd!")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username maps to the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", testPassword)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(ctx, registered.ID))
		_, err := svc.Login(ctx, "alice", testPassword)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserServiceChangePassword(t *testing.T) {
	s := newTestStore(t)
	svc := &UserService{Store: s}
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", testPassword)
	require.NoError(t, err)

	t.Run("requires the current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID, "WrongPassw0rd!", "NewSecret1!")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("new password must be strong", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID, testPassword, "weak")
		_, ok := AsValidationError(err)
		require.True(t, ok)
	})

	t.Run("rotates the credential", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, u.ID, testPassword, "NewSecret1!"))

		_, err := svc.Login(ctx, "alice", testPassword)
		require.ErrorIs(t, err, ErrInvalidCredentials)

		logged, err := svc.Login(ctx, "alice", "NewSecret1!")
		require.NoError(t, err)
		require.Equal(t, u.ID, logged.ID)
	})
}

func TestUserServiceGetProfile(t *testing.T) {
	s := newTestStore(t)
	users := &UserService{Store: s}
	tasks := &TaskService{Store: s}
	ctx := context.Background()

	u, err := users.Register(ctx, "alice", "alice@example.com", testPassword)
	require.NoError(t, err)

	_, err = tasks.Create(ctx, u.ID, TaskPayload{Title: strPtr("one thing")})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, u.ID, TaskPayload{Title: strPtr("another thing")})
	require.NoError(t, err)

	profile, count, err := users.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", profile.Username)
	require.EqualValues(t, 2, count)

	_, _, err = users.GetProfile(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
