package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/connectly/social-api/internal/core/domain"
	"github.com/connectly/social-api/internal/core/ports"
)

func newTestProfileService() (*ProfileService, *stubProfileRepo) {
	profiles := newStubProfileRepo()
	return NewProfileService(profiles, zerolog.Nop()), profiles
}

func seedProfile(t *testing.T, profiles *stubProfileRepo, username, userID string) *domain.Profile {
	t.Helper()
	p, err := profiles.Create(context.Background(), &domain.Profile{
		Username: username, DisplayName: username, UserID: userID,
	})
	if err != nil {
		t.Fatalf("seed profile %s: %v", username, err)
	}
	return p
}

func TestProfileService_GetByUsername_CaseInsensitive(t *testing.T) {
	svc, profiles := newTestProfileService()
	seedProfile(t, profiles, "alice", "user-1")

	p, err := svc.GetByUsername(context.Background(), "  ALICE ")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if p.Username != "alice" {
		t.Fatalf("unexpected profile: %s", p.Username)
	}
}

func TestProfileService_Update_OwnerOnly(t *testing.T) {
	svc, profiles := newTestProfileService()
	p := seedProfile(t, profiles, "alice", "user-1")

	bio := "hello"
	owner := &domain.User{ID: "user-1"}
	stranger := &domain.User{ID: "user-2"}

	if _, err := svc.Update(context.Background(), p.ID, ports.ProfileUpdate{Bio: &bio}, stranger); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	updated, err := svc.Update(context.Background(), p.ID, ports.ProfileUpdate{Bio: &bio}, owner)
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Bio != "hello" {
		t.Fatalf("bio not applied: %q", updated.Bio)
	}
	if updated.Username != "alice" {
		t.Fatalf("username must not change: %s", updated.Username)
	}
}

func TestProfileService_FollowUnfollow(t *testing.T) {
	svc, profiles := newTestProfileService()
	a := seedProfile(t, profiles, "alice", "user-1")
	b := seedProfile(t, profiles, "bob", "user-2")

	if _, err := svc.Follow(context.Background(), a.ID, a.ID); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected self-follow rejection, got %v", err)
	}

	updated, err := svc.Follow(context.Background(), a.ID, b.ID)
	if err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if updated.FollowingCount() != 1 || updated.Following[0] != b.ID {
		t.Fatalf("following edge missing: %+v", updated.Following)
	}
	target, _ := profiles.FindByID(context.Background(), b.ID)
	if target.FollowersCount() != 1 || target.Followers[0] != a.ID {
		t.Fatalf("followers edge missing: %+v", target.Followers)
	}

	updated, err = svc.Unfollow(context.Background(), a.ID, b.ID)
	if err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}
	if updated.FollowingCount() != 0 {
		t.Fatalf("following edge not removed: %+v", updated.Following)
	}
	target, _ = profiles.FindByID(context.Background(), b.ID)
	if target.FollowersCount() != 0 {
		t.Fatalf("followers edge not removed: %+v", target.Followers)
	}
}

func TestProfileService_Follow_MissingTarget(t *testing.T) {
	svc, profiles := newTestProfileService()
	a := seedProfile(t, profiles, "alice", "user-1")

	if _, err := svc.Follow(context.Background(), a.ID, "profile-999"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
