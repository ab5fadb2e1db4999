package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/connectly/social-api/internal/api/metrics"
)

// RateLimiter is the counting interface the throttle middleware needs.
type RateLimiter interface {
	Allow(ctx context.Context, scope, key string) (bool, error)
}

// Throttle rejects requests with 429 once the caller exceeds the limiter's
// window. The client is keyed by IP. Limiter errors fail open: losing Redis
// must not take authentication down with it.
func Throttle(limiter RateLimiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), scope, c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
				return next(c)
			}
			if !ok {
				metrics.ThrottledRequestsTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
