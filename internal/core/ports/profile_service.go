package ports

import (
	"context"

	"github.com/connectly/social-api/internal/core/domain"
)

type ProfileService interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)

	// Update applies the patch to the profile owned by actor. Non-owners are
	// rejected; the username cannot change.
	Update(ctx context.Context, profileID string, update ProfileUpdate, actor *domain.User) (*domain.Profile, error)

	Follow(ctx context.Context, actorProfileID, targetProfileID string) (*domain.Profile, error)
	Unfollow(ctx context.Context, actorProfileID, targetProfileID string) (*domain.Profile, error)
}
