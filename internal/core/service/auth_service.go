package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/connectly/social-api/internal/core/domain"
	"github.com/connectly/social-api/internal/core/ports"
)

// AuthService implements signup, credential sign-in and the social bridge.
type AuthService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	hasher   ports.PasswordHasher
	tx       ports.Transactor
	logger   zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	profiles ports.ProfileRepository,
	hasher ports.PasswordHasher,
	tx ports.Transactor,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, profiles: profiles, hasher: hasher, tx: tx, logger: logger}
}

// Signup creates a user and its linked profile as one atomic unit.
//
// The email/username existence checks up front are advisory: a concurrent
// signup racing on the same value is caught by the store's unique index
// inside the transaction and surfaces as the same conflict error.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	email := NormalizeEmail(input.Email)
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if email == "" || input.Password == "" || username == "" || input.DisplayName == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	taken, err := s.profiles.IsUsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	var created *domain.User
	txErr := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user, err := s.users.Create(ctx, &domain.User{
			Email:         email,
			PasswordHash:  hash,
			Role:          domain.RoleUser,
			Provider:      domain.ProviderCredentials,
			IsActive:      true,
			Notifications: domain.DefaultNotificationSettings(),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return err
		}

		profile, err := s.profiles.Create(ctx, &domain.Profile{
			Username:    username,
			DisplayName: input.DisplayName,
			UserID:      user.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		if err := s.users.SetProfileID(ctx, user.ID, profile.ID); err != nil {
			return err
		}

		user.ProfileID = profile.ID
		created = user
		return nil
	})
	if txErr != nil {
		return nil, classifySignupError(txErr)
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", username).Msg("user signed up")
	return created, nil
}

// SignIn authenticates email+password. Missing account, missing stored
// credential and wrong password all fail identically so responses do not
// reveal whether the email is registered.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.HasPassword() || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// SocialSignIn maps an externally verified email to a local user. Creation
// for first-time social users happens through UserService.UpsertOAuth before
// this bridge runs; a miss here is an authentication failure.
func (s *AuthService) SocialSignIn(ctx context.Context, email string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.users.FindByEmail(ctx, email)
}

// classifySignupError keeps conflict kinds intact across the transaction
// boundary and wraps everything else as an aborted transaction.
func classifySignupError(err error) error {
	if errors.Is(err, domain.ErrEmailInUse) || errors.Is(err, domain.ErrUsernameTaken) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrTransactionAborted, err)
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique index agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
