package ports

import (
	"context"

	"github.com/connectly/social-api/internal/core/domain"
)

// OAuthUserInput describes a user vouched for by an external provider. The
// email arrives already verified.
type OAuthUserInput struct {
	Email      string
	Name       string
	AvatarURL  string
	Provider   string
	ProviderID string
}

type UserService interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// UpsertOAuth returns the existing user for the email or atomically
	// creates a user+profile pair with a generated unique username.
	UpsertOAuth(ctx context.Context, input OAuthUserInput) (*domain.User, error)

	Block(ctx context.Context, userID, targetID string) (*domain.User, error)
	Unblock(ctx context.Context, userID, targetID string) (*domain.User, error)
	UpdateNotificationSettings(ctx context.Context, userID string, patch NotificationSettingsPatch) (*domain.User, error)
}

// NotificationSettingsPatch is a partial update; nil fields keep their
// current value.
type NotificationSettingsPatch struct {
	NewFollower    *bool
	NewPostInGroup *bool
	EventReminder  *bool
	DirectMessage  *bool
}
