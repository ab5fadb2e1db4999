package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/connectly/social-api/internal/api/middleware"
	"github.com/connectly/social-api/internal/core/domain"
)

// currentUser extracts the sanitized user attached by the Session guard.
// Presence proves the guard ran; its absence on a protected route means the
// route was wired without the guard, which is rejected rather than assumed.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
