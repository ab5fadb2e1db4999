package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/connectly/social-api/internal/core/domain"
	"github.com/connectly/social-api/internal/core/ports"
)

type stubUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.BlockedUsers = append([]string(nil), u.BlockedUsers...)
	clone.BlockedBy = append([]string(nil), u.BlockedBy...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailInUse
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetProfileID(_ context.Context, userID, profileID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ProfileID = profileID
	return nil
}

func (r *stubUserRepo) Block(_ context.Context, userID, targetID string) error {
	r.users[userID].BlockedUsers = appendUnique(r.users[userID].BlockedUsers, targetID)
	r.users[targetID].BlockedBy = appendUnique(r.users[targetID].BlockedBy, userID)
	return nil
}

func (r *stubUserRepo) Unblock(_ context.Context, userID, targetID string) error {
	r.users[userID].BlockedUsers = remove(r.users[userID].BlockedUsers, targetID)
	r.users[targetID].BlockedBy = remove(r.users[targetID].BlockedBy, userID)
	return nil
}

func (r *stubUserRepo) UpdateNotificationSettings(_ context.Context, userID string, settings domain.NotificationSettings) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Notifications = settings
	return nil
}

type stubProfileRepo struct {
	seq        int
	profiles   map[string]*domain.Profile
	failCreate error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Interests = append([]string(nil), p.Interests...)
	clone.Following = append([]string(nil), p.Following...)
	clone.Followers = append([]string(nil), p.Followers...)
	return &clone
}

func (r *stubProfileRepo) Create(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if r.failCreate != nil {
		return nil, r.failCreate
	}
	for _, p := range r.profiles {
		if p.Username == profile.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.seq++
	created := cloneProfile(profile)
	created.ID = fmt.Sprintf("profile-%d", r.seq)
	r.profiles[created.ID] = cloneProfile(created)
	return created, nil
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) FindByUsername(_ context.Context, username string) (*domain.Profile, error) {
	for _, p := range r.profiles {
		if p.Username == username {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	for _, p := range r.profiles {
		if p.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProfileRepo) Update(_ context.Context, id string, update ports.ProfileUpdate) (*domain.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	if update.DisplayName != nil {
		p.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	if update.Location != nil {
		p.Location = *update.Location
	}
	if update.AvatarURL != nil {
		p.AvatarURL = *update.AvatarURL
	}
	if update.BannerURL != nil {
		p.BannerURL = *update.BannerURL
	}
	if update.Interests != nil {
		p.Interests = update.Interests
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) Follow(_ context.Context, followerID, followeeID string) (*domain.Profile, error) {
	target, ok := r.profiles[followeeID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	follower, ok := r.profiles[followerID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	target.Followers = appendUnique(target.Followers, followerID)
	follower.Following = appendUnique(follower.Following, followeeID)
	return cloneProfile(follower), nil
}

func (r *stubProfileRepo) Unfollow(_ context.Context, followerID, followeeID string) (*domain.Profile, error) {
	target, ok := r.profiles[followeeID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	follower, ok := r.profiles[followerID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	target.Followers = remove(target.Followers, followerID)
	follower.Following = remove(follower.Following, followeeID)
	return cloneProfile(follower), nil
}

// stubTx emulates transactional rollback by snapshotting both stores before
// running fn and restoring them when fn fails.
type stubTx struct {
	users    *stubUserRepo
	profiles *stubProfileRepo
}

func (t *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	userSnap := make(map[string]*domain.User, len(t.users.users))
	for id, u := range t.users.users {
		userSnap[id] = cloneUser(u)
	}
	profileSnap := make(map[string]*domain.Profile, len(t.profiles.profiles))
	for id, p := range t.profiles.profiles {
		profileSnap[id] = cloneProfile(p)
	}
	userSeq, profileSeq := t.users.seq, t.profiles.seq

	if err := fn(ctx); err != nil {
		t.users.users = userSnap
		t.users.seq = userSeq
		t.profiles.profiles = profileSnap
		t.profiles.seq = profileSeq
		return err
	}
	return nil
}

func appendUnique(s []string, v string) []string {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}

func remove(s []string, v string) []string {
	out := s[:0]
	for _, e := range s {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}

func newTestAuthService() (*AuthService, *stubUserRepo, *stubProfileRepo) {
	users := newStubUserRepo()
	profiles := newStubProfileRepo()
	tx := &stubTx{users: users, profiles: profiles}
	svc := NewAuthService(users, profiles, NewBcryptHasher(bcrypt.MinCost), tx, zerolog.Nop())
	return svc, users, profiles
}

func TestAuthService_Signup_Success(t *testing.T) {
	svc, users, profiles := newTestAuthService()

	user, err := svc.Signup(context.Background(), ports.SignupInput{
		Email:       "A@X.com",
		Password:    "supersecret",
		DisplayName: "Alice",
		Username:    "Alice",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if user.Email != "a@x.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "supersecret" {
		t.Fatalf("expected hashed password, got %q", user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser || user.Provider != domain.ProviderCredentials {
		t.Fatalf("unexpected role/provider: %s/%s", user.Role, user.Provider)
	}

	if len(users.users) != 1 || len(profiles.profiles) != 1 {
		t.Fatalf("expected exactly one user and one profile, got %d/%d", len(users.users), len(profiles.profiles))
	}

	profile, err := profiles.FindByID(context.Background(), user.ProfileID)
	if err != nil {
		t.Fatalf("linked profile missing: %v", err)
	}
	if profile.UserID != user.ID {
		t.Fatalf("profile back-reference mismatch: %s != %s", profile.UserID, user.ID)
	}
	if profile.Username != "alice" {
		t.Fatalf("username not lowercased: %s", profile.Username)
	}

	stored, _ := users.FindByID(context.Background(), user.ID)
	if stored.ProfileID != profile.ID {
		t.Fatalf("user profile reference mismatch: %s != %s", stored.ProfileID, profile.ID)
	}
}

func TestAuthService_Signup_EmailConflict(t *testing.T) {
	svc, users, _ := newTestAuthService()

	first := ports.SignupInput{Email: "a@x.com", Password: "supersecret", DisplayName: "Alice", Username: "alice"}
	if _, err := svc.Signup(context.Background(), first); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	second := ports.SignupInput{Email: "a@x.com", Password: "other-pass", DisplayName: "Imposter", Username: "imposter"}
	if _, err := svc.Signup(context.Background(), second); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}

	if len(users.users) != 1 {
		t.Fatalf("expected exactly one user with that email, got %d", len(users.users))
	}
}

func TestAuthService_Signup_UsernameConflict(t *testing.T) {
	svc, _, _ := newTestAuthService()

	first := ports.SignupInput{Email: "a@x.com", Password: "supersecret", DisplayName: "Alice", Username: "alice"}
	if _, err := svc.Signup(context.Background(), first); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	second := ports.SignupInput{Email: "b@x.com", Password: "supersecret", DisplayName: "Bob", Username: "ALICE"}
	if _, err := svc.Signup(context.Background(), second); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken (case-insensitive), got %v", err)
	}
}

func TestAuthService_Signup_RollbackOnProfileFailure(t *testing.T) {
	svc, users, profiles := newTestAuthService()
	profiles.failCreate = errors.New("profile insert exploded")

	_, err := svc.Signup(context.Background(), ports.SignupInput{
		Email: "a@x.com", Password: "supersecret", DisplayName: "Alice", Username: "alice",
	})
	if !errors.Is(err, domain.ErrTransactionAborted) {
		t.Fatalf("expected ErrTransactionAborted, got %v", err)
	}

	if len(users.users) != 0 || len(profiles.profiles) != 0 {
		t.Fatalf("partial state left behind: %d users, %d profiles", len(users.users), len(profiles.profiles))
	}
}

func TestAuthService_Signup_ConflictInsideTransactionKeepsKind(t *testing.T) {
	svc, _, profiles := newTestAuthService()
	// Simulate losing a username race after the advisory pre-check passed.
	profiles.failCreate = domain.ErrUsernameTaken

	_, err := svc.Signup(context.Background(), ports.SignupInput{
		Email: "a@x.com", Password: "supersecret", DisplayName: "Alice", Username: "alice",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken to survive the transaction, got %v", err)
	}
	if errors.Is(err, domain.ErrTransactionAborted) {
		t.Fatalf("conflict should not be reported as a generic abort")
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.Signup(context.Background(), ports.SignupInput{
		Email: "carol@x.com", Password: "s3cret-pass", DisplayName: "Carol", Username: "carol",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	user, err := svc.SignIn(context.Background(), "Carol@X.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if user.ProfileID == "" {
		t.Fatalf("expected profile reference on signed-in user")
	}
}

func TestAuthService_SignIn_UniformFailures(t *testing.T) {
	svc, users, _ := newTestAuthService()

	if _, err := svc.Signup(context.Background(), ports.SignupInput{
		Email: "carol@x.com", Password: "s3cret-pass", DisplayName: "Carol", Username: "carol",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	// A pure social account with no stored credential.
	if _, err := users.Create(context.Background(), &domain.User{
		Email: "social@x.com", Role: domain.RoleUser, Provider: domain.ProviderGoogle, IsActive: true,
	}); err != nil {
		t.Fatalf("create social user: %v", err)
	}

	cases := []struct {
		name            string
		email, password string
	}{
		{"unknown account", "nobody@x.com", "whatever"},
		{"wrong password", "carol@x.com", "not-the-password"},
		{"social account without credential", "social@x.com", "whatever"},
	}
	for _, tc := range cases {
		if _, err := svc.SignIn(context.Background(), tc.email, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
	}
}

func TestAuthService_SocialSignIn(t *testing.T) {
	svc, users, _ := newTestAuthService()

	if _, err := svc.SocialSignIn(context.Background(), "nobody@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	created, err := users.Create(context.Background(), &domain.User{
		Email: "social@x.com", Role: domain.RoleUser, Provider: domain.ProviderGoogle, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create social user: %v", err)
	}

	user, err := svc.SocialSignIn(context.Background(), " Social@X.com ")
	if err != nil {
		t.Fatalf("social sign in failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("resolved wrong user: %s", user.ID)
	}
}
