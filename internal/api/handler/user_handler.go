package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/connectly/social-api/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UpsertOAuth handles the trusted callback from the external OAuth flow.
// Existing users are returned as-is; first-time social users get a
// user+profile pair with a generated username.
//
// @Summary      Upsert a social-login user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      oauthUserRequest  true  "Verified provider identity"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Router       /users/oauth [post]
func (h *UserHandler) UpsertOAuth(c echo.Context) error {
	var req oauthUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.UpsertOAuth(c.Request().Context(), ports.OAuthUserInput{
		Email:      req.Email,
		Name:       req.Name,
		AvatarURL:  req.AvatarURL,
		Provider:   req.Provider,
		ProviderID: req.ProviderID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Sanitized())
}

// Get returns any user account by id. Restricted to moderation roles.
//
// @Summary      Look up a user account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Sanitized())
}

// Block adds the target user to the caller's block list.
//
// @Summary      Block a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id to block"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/me/blocks/{id} [post]
func (h *UserHandler) Block(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	updated, err := h.users.Block(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated.Sanitized())
}

// Unblock removes the target user from the caller's block list.
//
// @Summary      Unblock a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id to unblock"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /users/me/blocks/{id} [delete]
func (h *UserHandler) Unblock(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	updated, err := h.users.Unblock(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated.Sanitized())
}

// UpdateNotificationSettings merges a partial settings update.
//
// @Summary      Update notification settings
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      notificationSettingsRequest  true  "Settings patch"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Router       /users/me/notification-settings [patch]
func (h *UserHandler) UpdateNotificationSettings(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req notificationSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.users.UpdateNotificationSettings(c.Request().Context(), user.ID, ports.NotificationSettingsPatch{
		NewFollower:    req.NewFollower,
		NewPostInGroup: req.NewPostInGroup,
		EventReminder:  req.EventReminder,
		DirectMessage:  req.DirectMessage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated.Sanitized())
}
