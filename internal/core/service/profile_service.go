package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/connectly/social-api/internal/core/domain"
	"github.com/connectly/social-api/internal/core/ports"
)

// ProfileService implements profile reads, owner-only updates and the
// follow graph mutations.
type ProfileService struct {
	profiles ports.ProfileRepository
	logger   zerolog.Logger
}

func NewProfileService(profiles ports.ProfileRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

func (s *ProfileService) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return s.profiles.FindByID(ctx, id)
}

func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return s.profiles.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
}

// Update applies the patch to profileID if actor owns it. The username is
// immutable after creation, which ports.ProfileUpdate enforces by shape.
func (s *ProfileService) Update(ctx context.Context, profileID string, update ports.ProfileUpdate, actor *domain.User) (*domain.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return s.profiles.Update(ctx, profileID, update)
}

func (s *ProfileService) Follow(ctx context.Context, actorProfileID, targetProfileID string) (*domain.Profile, error) {
	if actorProfileID == targetProfileID {
		return nil, fmt.Errorf("%w: cannot follow yourself", domain.ErrInvalidInput)
	}
	return s.profiles.Follow(ctx, actorProfileID, targetProfileID)
}

func (s *ProfileService) Unfollow(ctx context.Context, actorProfileID, targetProfileID string) (*domain.Profile, error) {
	if actorProfileID == targetProfileID {
		return nil, fmt.Errorf("%w: cannot unfollow yourself", domain.ErrInvalidInput)
	}
	return s.profiles.Unfollow(ctx, actorProfileID, targetProfileID)
}
