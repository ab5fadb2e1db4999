package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/connectly/social-api/internal/core/domain"
	"github.com/connectly/social-api/internal/core/ports"
)

const (
	minUsernameLen     = 3
	maxUsernameLen     = 20
	usernameRetryLimit = 5
)

// UserService implements the social-login upsert and the single-document
// user mutations (block lists, notification settings).
type UserService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	tx       ports.Transactor
	logger   zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	profiles ports.ProfileRepository,
	tx ports.Transactor,
	logger zerolog.Logger,
) *UserService {
	return &UserService{users: users, profiles: profiles, tx: tx, logger: logger}
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpsertOAuth returns the existing user for the email, or creates a
// user+profile pair inside one transaction. The username is derived from the
// email local part; the provider has already verified the address.
func (s *UserService) UpsertOAuth(ctx context.Context, input ports.OAuthUserInput) (*domain.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	username, err := s.generateUniqueUsername(ctx, localPart(email))
	if err != nil {
		return nil, err
	}

	displayName := input.Name
	if displayName == "" {
		displayName = username
	}

	var created *domain.User
	txErr := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		user, err := s.users.Create(ctx, &domain.User{
			Email:         email,
			Role:          domain.RoleUser,
			Provider:      input.Provider,
			ProviderID:    input.ProviderID,
			EmailVerified: true,
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
			DisplayName: displayName,
			AvatarURL:   input.AvatarURL,
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

	s.logger.Info().Str("user_id", created.ID).Str("provider", input.Provider).Msg("social user created")
	return created, nil
}

// Block adds targetID to userID's blocked set and the inverse edge on the
// target. Both writes are atomic set-adds, so replays are harmless.
func (s *UserService) Block(ctx context.Context, userID, targetID string) (*domain.User, error) {
	if userID == targetID {
		return nil, fmt.Errorf("%w: cannot block yourself", domain.ErrInvalidInput)
	}
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return nil, err
	}
	if err := s.users.Block(ctx, userID, targetID); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) Unblock(ctx context.Context, userID, targetID string) (*domain.User, error) {
	if err := s.users.Unblock(ctx, userID, targetID); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

// UpdateNotificationSettings merges the patch over the stored settings and
// persists the result as one document update.
func (s *UserService) UpdateNotificationSettings(ctx context.Context, userID string, patch ports.NotificationSettingsPatch) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := user.Notifications
	if patch.NewFollower != nil {
		settings.NewFollower = *patch.NewFollower
	}
	if patch.NewPostInGroup != nil {
		settings.NewPostInGroup = *patch.NewPostInGroup
	}
	if patch.EventReminder != nil {
		settings.EventReminder = *patch.EventReminder
	}
	if patch.DirectMessage != nil {
		settings.DirectMessage = *patch.DirectMessage
	}

	if err := s.users.UpdateNotificationSettings(ctx, userID, settings); err != nil {
		return nil, err
	}

	user.Notifications = settings
	return user, nil
}

// generateUniqueUsername sanitizes base into a valid username and probes for
// availability, appending a random numeric suffix on collision. After the
// retry budget it falls back to a timestamp-based name.
func (s *UserService) generateUniqueUsername(ctx context.Context, base string) (string, error) {
	username := sanitizeUsername(base)

	taken, err := s.profiles.IsUsernameTaken(ctx, username)
	if err != nil {
		return "", err
	}

	for attempts := 0; taken && attempts < usernameRetryLimit; attempts++ {
		username = fmt.Sprintf("%s_%03d", trim(username, maxUsernameLen-4), randomSuffix())
		taken, err = s.profiles.IsUsernameTaken(ctx, username)
		if err != nil {
			return "", err
		}
	}

	if taken {
		username = fmt.Sprintf("user_%d", time.Now().UnixNano())
	}
	return username, nil
}

func sanitizeUsername(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	username := trim(b.String(), maxUsernameLen)
	if len(username) < minUsernameLen {
		username = "user" + username
	}
	return username
}

func trim(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func randomSuffix() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(900))
	if err != nil {
		return time.Now().UnixNano() % 900
	}
	return 100 + n.Int64()
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
