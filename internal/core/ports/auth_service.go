package ports

import (
	"context"

	"github.com/connectly/social-api/internal/core/domain"
)

// SignupInput carries the fields required to create a credentials account.
type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
	Username    string
}

type AuthService interface {
	// Signup atomically creates a user and its linked profile. No token is
	// issued; the caller signs in separately.
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)

	// SignIn authenticates email+password and returns the user with its
	// profile reference resolved.
	SignIn(ctx context.Context, email, password string) (*domain.User, error)

	// SocialSignIn trusts an externally verified email and maps it to a
	// local user. It never creates one.
	SocialSignIn(ctx context.Context, email string) (*domain.User, error)
}
