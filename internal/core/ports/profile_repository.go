package ports

import (
	"context"

	"github.com/connectly/social-api/internal/core/domain"
)

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged"; the username is immutable after creation and therefore
// absent here.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	Location    *string
	AvatarURL   *string
	BannerURL   *string
	Interests   []string
}

// ProfileRepository defines the persistence interface for public profiles.
// Usernames are stored lowercased; lookups are case-insensitive by virtue of
// normalizing before querying.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	FindByUsername(ctx context.Context, username string) (*domain.Profile, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	Update(ctx context.Context, id string, update ProfileUpdate) (*domain.Profile, error)

	// Follow and Unfollow mutate both sides of the edge with atomic
	// set-add/set-remove document updates.
	Follow(ctx context.Context, followerID, followeeID string) (*domain.Profile, error)
	Unfollow(ctx context.Context, followerID, followeeID string) (*domain.Profile, error)
}
