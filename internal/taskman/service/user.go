package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/taskway/taskman/internal/taskman/domain"
	"github.com/taskway/taskman/internal/taskman/store"
	"github.com/taskway/taskman/pkg/cryptox"
	"github.com/taskway/taskman/pkg/idx"
	"github.com/taskway/taskman/pkg/slogx"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	PasswordMinLength = 8
)

type UserService struct {
	Store store.Store
}

// Register validates the registration details, hashes the password and
// creates the user. Username and email uniqueness violations surface as
// field errors so the client can tell which one collided.
func (s *UserService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	violations := map[string]string{}

	switch {
	case username == "":
		violations["username"] = "username is required"
	case len(username) < UsernameMinLength:
		violations["username"] = "username must be at least 3 characters"
	case len(username) > UsernameMaxLength:
		violations["username"] = "username must be at most 50 characters"
	}

	if email == "" {
		violations["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		violations["email"] = "email is not a valid address"
	}

	if msg := checkPasswordStrength(password); msg != "" {
		violations["password"] = msg
	}

	if len(violations) > 0 {
		return domain.User{}, &ValidationError{Fields: violations}
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Look up both identifiers so the field errors are precise
			fields := map[string]string{}
			if _, lookupErr := s.Store.Users().GetUserByUsername(ctx, username); lookupErr == nil {
				fields["username"] = "username is already taken"
			}
			if _, lookupErr := s.Store.Users().GetUserByEmail(ctx, email); lookupErr == nil {
				fields["email"] = "email is already registered"
			}
			if len(fields) == 0 {
				// Conflicting row vanished between insert and lookup
				fields["username"] = "username is already taken"
			}
			return domain.User{}, &ValidationError{Fields: fields}
		}
		slogx.FromContext(ctx).Error("user create failed", "err", err)
		return domain.User{}, err
	}

	return u, nil
}

// Login verifies the credentials and returns the user. Missing users, wrong
// passwords and deactivated accounts all map to the same error so login
// failures don't reveal which part was wrong.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash verification anyway to keep timing comparable
			_ = cryptox.VerifyPassword(password, fakePasswordHash())
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	if !u.IsActive {
		return domain.User{}, ErrInvalidCredentials
	}

	return u, nil
}

// GetProfile returns the user together with how many tasks they own.
func (s *UserService) GetProfile(ctx context.Context, userID string) (domain.User, int64, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, 0, ErrUserNotFound
		}
		return domain.User{}, 0, err
	}

	count, err := s.Store.Tasks().CountTasksByOwner(ctx, userID)
	if err != nil {
		return domain.User{}, 0, err
	}

	return u, count, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if msg := checkPasswordStrength(next); msg != "" {
		return &ValidationError{Fields: map[string]string{"new_password": msg}}
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := cryptox.VerifyPassword(current, u.PasswordHash); err != nil {
			return ErrInvalidCredentials
		}

		hash, err := cryptox.HashPassword(next)
		if err != nil {
			return err
		}

		return tx.Users().UpdatePasswordHash(ctx, userID, hash)
	})
}

// Deactivate disables the account. Existing access tokens keep working until
// they expire, but refresh and login are refused from here on.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	err := s.Store.Users().SetUserActive(ctx, userID, false)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// checkPasswordStrength returns a violation message, or "" when the password
// is acceptable: at least 8 characters with an upper, a lower, a digit and a
// special character.
func checkPasswordStrength(password string) string {
	if len(password) < PasswordMinLength {
		return "password must be at least 8 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return "password must contain an uppercase letter"
	case !hasLower:
		return "password must contain a lowercase letter"
	case !hasDigit:
		return "password must contain a digit"
	case !hasSpecial:
		return "password must contain a special character"
	}
	return ""
}

// fakePasswordHash is a throwaway argon2id hash used to equalize login timing
// when the username doesn't exist.
func fakePasswordHash() string {
	return "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
}
