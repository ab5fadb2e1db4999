package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/connectly/social-api/internal/api/handler"
	"github.com/connectly/social-api/internal/api/middleware"
	"github.com/connectly/social-api/internal/core/domain"
	"github.com/connectly/social-api/internal/core/service"
	mongodb "github.com/connectly/social-api/internal/infrastructure/db/mongo"
	redisdb "github.com/connectly/social-api/internal/infrastructure/db/redis"
	"github.com/connectly/social-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *goredis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)
	tx := mongodb.NewTransactor(db.Client())
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.AuthSecret, cfg.TokenTTL)

	authService := service.NewAuthService(userRepo, profileRepo, hasher, tx, log)
	userService := service.NewUserService(userRepo, profileRepo, tx, log)
	profileService := service.NewProfileService(profileRepo, log)

	authHandler := handler.NewAuthHandler(authService, tokens, sessionCookieConfig(cfg))
	userHandler := handler.NewUserHandler(userService)
	profileHandler := handler.NewProfileHandler(profileService)

	// Cookie-first with bearer fallback, so the same guard serves browser
	// sessions and API clients.
	guard := middleware.Session(tokens, userRepo, middleware.FromCookie, middleware.FromBearerHeader)
	throttle := middleware.Throttle(redisdb.NewThrottle(rdb, cfg.ThrottleLimit, cfg.ThrottleWindow), "auth", log)

	// --- Auth routes ---
	auth := e.Group("/auth", throttle)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/signin", authHandler.Signin)
	auth.POST("/provider", authHandler.Provider)
	auth.POST("/signout", authHandler.Signout)
	auth.GET("/session", authHandler.Session, guard)

	// --- User routes ---
	e.POST("/users/oauth", userHandler.UpsertOAuth, throttle)
	e.GET("/users/:id", userHandler.Get, guard,
		middleware.RequireRole(domain.RoleModerator, domain.RoleAdmin))
	me := e.Group("/users/me", guard)
	me.POST("/blocks/:id", userHandler.Block)
	me.DELETE("/blocks/:id", userHandler.Unblock)
	me.PATCH("/notification-settings", userHandler.UpdateNotificationSettings)

	// --- Profile routes ---
	profiles := e.Group("/profiles")
	profiles.GET("/:id", profileHandler.Get)
	profiles.GET("/by-username/:username", profileHandler.GetByUsername)
	profiles.PATCH("/:id", profileHandler.Update, guard)
	profiles.POST("/:id/follow", profileHandler.Follow, guard)
	profiles.DELETE("/:id/follow", profileHandler.Unfollow, guard)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

// sessionCookieConfig derives the browser cookie attributes from the
// environment: cross-site friendly in production behind TLS, relaxed for
// local development.
func sessionCookieConfig(cfg *config.Config) handler.CookieConfig {
	cc := handler.CookieConfig{
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   cfg.CookieMaxAge,
	}
	if cfg.Env == "production" {
		cc.Secure = true
		cc.SameSite = http.SameSiteNoneMode
	}
	return cc
}
