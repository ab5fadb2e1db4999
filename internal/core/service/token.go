package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/connectly/social-api/internal/core/domain"
)

// SessionClaims is the full claim set carried by a session token. Subject
// holds the user id; ProfileID links straight to the public persona so
// collaborators can use it as a foreign key without a lookup.
type SessionClaims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	ProfileID string `json:"profileId,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HS256 session tokens. There is
// no server-side session table: validity is proven by signature and expiry
// alone. Verify performs no store access.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret. If ttl <= 0 a
// 24 hour lifetime is used.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue builds the claim set for user and signs it.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		Email:     user.Email,
		Role:      user.Role,
		ProfileID: user.ProfileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates signature and expiry and returns the decoded claims. Any
// structural, cryptographic or expiry failure collapses into
// domain.ErrInvalidToken; nothing about the cause leaks to the caller.
func (s *TokenService) Verify(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
