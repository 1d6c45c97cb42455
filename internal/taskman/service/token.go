package service

import (
	"context"
	"errors"
	"time"

	"github.com/taskway/taskman/internal/taskman/domain"
	"github.com/taskway/taskman/internal/taskman/store"
	"github.com/taskway/taskman/pkg/jwtx"
	"github.com/taskway/taskman/pkg/slogx"
)

type TokenService struct {
	Signer     *jwtx.HS256
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair mints an access/refresh token pair for the user.
func (s *TokenService) IssuePair(u domain.User) (domain.TokenPair, error) {
	now := time.Now().UTC()

	access, err := s.Signer.Sign(jwtx.NewClaims(
		u.ID, u.Username, jwtx.TokenTypeAccess, s.Issuer, s.AccessTTL, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.Signer.Sign(jwtx.NewClaims(
		u.ID, u.Username, jwtx.TokenTypeRefresh, s.Issuer, s.RefreshTTL, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The user
// must still exist and be active; deactivated accounts cannot refresh their
// way back in.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.Signer.Verify(refreshToken)
	if err != nil {
		slogx.FromContext(ctx).Info("refresh token rejected", "err", err)
		return "", ErrInvalidRefresh
	}

	if claims.TokenType != jwtx.TokenTypeRefresh {
		return "", ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidRefresh
		}
		return "", err
	}
	if !u.IsActive {
		return "", ErrInvalidRefresh
	}

	return s.Signer.Sign(jwtx.NewClaims(
		u.ID, u.Username, jwtx.TokenTypeAccess, s.Issuer, s.AccessTTL, time.Now().UTC()))
}
