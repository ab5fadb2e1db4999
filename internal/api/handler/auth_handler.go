package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/connectly/social-api/internal/api/metrics"
	"github.com/connectly/social-api/internal/api/middleware"
	"github.com/connectly/social-api/internal/core/domain"
	"github.com/connectly/social-api/internal/core/ports"
)

// TokenIssuer is the issuing half of the token service.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// CookieConfig controls the attributes of the session cookie. MaxAge is
// independent of the token's own expiry: the browser may keep the cookie
// longer than the token inside it stays valid.
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

type AuthHandler struct {
	auth   ports.AuthService
	tokens TokenIssuer
	cookie CookieConfig
}

func NewAuthHandler(auth ports.AuthService, tokens TokenIssuer, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, cookie: cookie}
}

// Signup creates a new user with a linked profile.
//
// @Summary      Sign up with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	user, err := h.auth.Signup(c.Request().Context(), ports.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Username:    req.Username,
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(signupResult(err)).Inc()
		return err
	}
	metrics.SignupsTotal.WithLabelValues("created").Inc()
	metrics.SignupDuration.Observe(time.Since(start).Seconds())

	// No token on signup; the client signs in explicitly.
	return c.JSON(http.StatusCreated, user.Sanitized())
}

// Signin authenticates credentials, sets the session cookie and returns the
// sanitized user.
//
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Credentials"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.SigninsTotal.WithLabelValues("credentials", "unauthorized").Inc()
		return err
	}

	if err := h.setSessionCookie(c, user); err != nil {
		return err
	}
	metrics.SigninsTotal.WithLabelValues("credentials", "ok").Inc()
	return c.JSON(http.StatusOK, user.Sanitized())
}

// Provider bridges a social login whose email was already verified by the
// external identity provider.
//
// @Summary      Sign in through a social provider
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      providerRequest  true  "Pre-verified email"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/provider [post]
func (h *AuthHandler) Provider(c echo.Context) error {
	var req providerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.SocialSignIn(c.Request().Context(), req.Email)
	if err != nil {
		metrics.SigninsTotal.WithLabelValues("social", "unauthorized").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUserNotFound.Error())
		}
		return err
	}

	if err := h.setSessionCookie(c, user); err != nil {
		return err
	}
	metrics.SigninsTotal.WithLabelValues("social", "ok").Inc()
	return c.JSON(http.StatusOK, userResponse{User: user.Sanitized()})
}

// Signout instructs the client to discard the session cookie. Sessions are
// stateless, so a previously issued token stays valid until its natural
// expiry; there is nothing server-side to revoke.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/signout [post]
func (h *AuthHandler) Signout(c echo.Context) error {
	cookie := h.newCookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, messageResponse{Message: "Signed out successfully"})
}

// Session returns the authenticated user resolved by the guard.
//
// @Summary      Get the current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, user *domain.User) error {
	token, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}
	cookie := h.newCookie(token)
	cookie.MaxAge = int(h.cookie.MaxAge.Seconds())
	c.SetCookie(cookie)
	return nil
}

func (h *AuthHandler) newCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	}
}

func signupResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailInUse), errors.Is(err, domain.ErrUsernameTaken):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
