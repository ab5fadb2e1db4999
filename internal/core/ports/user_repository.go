package ports

import (
	"context"

	"github.com/connectly/social-api/internal/core/domain"
)

// UserRepository defines the persistence interface for user identities.
// Mutations to the block lists and notification settings rely on the store's
// atomic per-document update semantics; no in-process locking is involved.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// SetProfileID writes the 1:1 back-reference after the profile is
	// created. Called inside the signup transaction.
	SetProfileID(ctx context.Context, userID, profileID string) error

	Block(ctx context.Context, userID, targetID string) error
	Unblock(ctx context.Context, userID, targetID string) error
	UpdateNotificationSettings(ctx context.Context, userID string, settings domain.NotificationSettings) error
}
