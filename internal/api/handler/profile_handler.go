package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/connectly/social-api/internal/core/ports"
)

type updateProfileRequest struct {
	DisplayName *string  `json:"display_name" validate:"omitempty,min=3"`
	Bio         *string  `json:"bio"`
	Location    *string  `json:"location"`
	AvatarURL   *string  `json:"avatar_url"`
	BannerURL   *string  `json:"banner_url"`
	Interests   []string `json:"interests"`
}

type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get returns a profile by id.
//
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Param        id  path      string  true  "Profile id"
// @Success      200  {object}  domain.Profile
// @Failure      404  {object}  errorResponse
// @Router       /profiles/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, err := h.profiles.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetByUsername returns a profile by its case-insensitive username.
//
// @Summary      Get a profile by username
// @Tags         profiles
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200  {object}  domain.Profile
// @Failure      404  {object}  errorResponse
// @Router       /profiles/by-username/{username} [get]
func (h *ProfileHandler) GetByUsername(c echo.Context) error {
	profile, err := h.profiles.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Update lets the owner change mutable profile fields. The username is
// immutable; it is not part of the request schema at all.
//
// @Summary      Update a profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Profile id"
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Profile
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /profiles/{id} [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profiles.Update(c.Request().Context(), c.Param("id"), ports.ProfileUpdate{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Location:    req.Location,
		AvatarURL:   req.AvatarURL,
		BannerURL:   req.BannerURL,
		Interests:   req.Interests,
	}, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Follow adds the caller's profile to the target's followers.
//
// @Summary      Follow a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Profile id to follow"
// @Success      200  {object}  domain.Profile
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /profiles/{id}/follow [post]
func (h *ProfileHandler) Follow(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Follow(c.Request().Context(), user.ProfileID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Unfollow removes the caller's profile from the target's followers.
//
// @Summary      Unfollow a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Profile id to unfollow"
// @Success      200  {object}  domain.Profile
// @Failure      404  {object}  errorResponse
// @Router       /profiles/{id}/follow [delete]
func (h *ProfileHandler) Unfollow(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Unfollow(c.Request().Context(), user.ProfileID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
