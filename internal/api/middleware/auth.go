package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/connectly/social-api/internal/api/metrics"
	"github.com/connectly/social-api/internal/core/domain"
	"github.com/connectly/social-api/internal/core/service"
)

// CookieName is the fixed cookie carrying the session token.
const CookieName = "access_token"

// ContextUserKey is the echo.Context key under which the guard stores the
// sanitized authenticated user.
const ContextUserKey = "user"

// TokenVerifier is the verification half of the token service. It is pure:
// no store access happens during Verify.
type TokenVerifier interface {
	Verify(token string) (*service.SessionClaims, error)
}

// UserFinder re-fetches the token subject from the store. The guard needs
// nothing else from the user repository.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// TokenExtractor pulls the raw token out of a request. Extractors are the
// only part that differs between the cookie and bearer strategies; the
// verification and user re-fetch behind them are shared.
type TokenExtractor func(c echo.Context) (string, bool)

// FromBearerHeader extracts the token from "Authorization: Bearer <token>".
func FromBearerHeader(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// FromCookie extracts the token from the session cookie.
func FromCookie(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Session is the guard protecting authenticated routes. It tries the given
// extractors in order, verifies the first token found, re-fetches the user
// by the token subject (so deactivated accounts and stale role claims lose
// access despite a valid signature), strips the credential and attaches the
// result to the request context. Any failure short-circuits with 401.
func Session(verifier TokenVerifier, users UserFinder, extractors ...TokenExtractor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := extractToken(c, extractors)
			if !ok {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication token")
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			}

			user, err := users.FindByID(c.Request().Context(), claims.Subject)
			if err != nil || !user.IsActive {
				metrics.TokenVerificationsTotal.WithLabelValues("user_not_found").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUserNotFound.Error())
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(ContextUserKey, user.Sanitized())
			return next(c)
		}
	}
}

func extractToken(c echo.Context, extractors []TokenExtractor) (string, bool) {
	for _, extract := range extractors {
		if token, ok := extract(c); ok {
			return token, true
		}
	}
	return "", false
}
