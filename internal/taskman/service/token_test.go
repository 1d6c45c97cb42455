package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskway/taskman/pkg/jwtx"
)

func newTokenService(t *testing.T) (*TokenService, *UserService) {
	t.Helper()

	s := newTestStore(t)
	signer, err := jwtx.NewHS256("test-secret", "taskman-test")
	require.NoError(t, err)

	return &TokenService{
		Signer:     signer,
		Store:      s,
		Issuer:     "taskman-test",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}, &UserService{Store: s}
}

func TestTokenServiceIssuePair(t *testing.T) {
	tokens, users := newTokenService(t)
	ctx := context.Background()

	u, err := users.Register(ctx, "alice", "alice@example.com", testPassword)
	require.NoError(t, err)

	pair, err := tokens.IssuePair(u)
	require.NoError(t, err)
	require.Equal(t, "Bearer", pair.TokenType)
	require.EqualValues(t, 3600, pair.ExpiresIn)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := tokens.Signer.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, access.Subject)
	require.Equal(t, jwtx.TokenTypeAccess, access.TokenType)

	refresh, err := tokens.Signer.Verify(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, jwtx.TokenTypeRefresh, refresh.TokenType)
	require.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestTokenServiceRefresh(t *testing.T) {
	tokens, users := newTokenService(t)
	ctx := context.Background()

	u, err := users.Register(ctx, "alice", "alice@example.com", testPassword)
	require.NoError(t, err)

	pair, err := tokens.IssuePair(u)
	require.NoError(t, err)

	t.Run("returns a fresh access token", func(t *testing.T) {
		access, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := tokens.Signer.Verify(access)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.Subject)
		require.Equal(t, jwtx.TokenTypeAccess, claims.TokenType)
	})

	t.Run("rejects an access token used as refresh", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		other, err := jwtx.NewHS256("other-secret", "taskman-test")
		require.NoError(t, err)
		forged, err := other.Sign(jwtx.NewClaims(
			u.ID, u.Username, jwtx.TokenTypeRefresh, "taskman-test",
			jwtx.DefaultRefreshTokenTTL, time.Now().UTC()))
		require.NoError(t, err)

		_, err = tokens.Refresh(ctx, forged)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("deactivated users cannot refresh", func(t *testing.T) {
		require.NoError(t, users.Deactivate(ctx, u.ID))
		_, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}
