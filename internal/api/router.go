package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/programming-notes/user-registration-and-authentication-challenge/docs"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/api/handler"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/api/middleware"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/ports"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/service"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/infrastructure/config"
	redisdb "github.com/programming-notes/user-registration-and-authentication-challenge/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The user repository is injected by main so that its index bootstrap runs
// once during startup rather than on route registration.
func NewRouter(db *mongo.Database, rdb *redis.Client, users ports.UserRepository, audit ports.AuditRecorder, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	sessionStore := redisdb.NewSessionStore(rdb)

	credentials := service.NewCredentialService(users, cfg.Auth.BcryptCost)
	authenticator := service.NewAuthenticator(users, cfg.Auth.BcryptCost)
	sessionGuard := service.NewSessionGuard(sessionStore, users, cfg.Session.TTL)

	authHandler := handler.NewAuthHandler(credentials, authenticator, sessionGuard, audit, handler.CookieSettings{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		TTL:    cfg.Session.TTL,
	})
	secretHandler := handler.NewSecretHandler()
	requireSession := middleware.RequireSession(sessionGuard, cfg.Session.CookieName)

	// --- Auth routes ---
	e.GET("/login", authHandler.LoginPage)
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)

	// --- Protected routes ---
	e.GET("/secret", secretHandler.Show, requireSession)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	// liveness – is the process alive? readiness – are dependencies up?
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
