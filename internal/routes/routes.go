package routes

import (
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/apps"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/config"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/token"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	issuer *token.Issuer,
	authHandler *handlers.AuthHandler,
	oauthHandler *handlers.OAuthHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP by default
	api.Use(middleware.RateLimit(cfg.RateLimit))

	api.Get("/health", healthHandler.Check)

	// Auth - public, stricter limit: 10 req/min per IP by default
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(cfg.AuthRateLimit))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Get("/google/start", oauthHandler.GoogleStart)
	auth.Get("/google/callback", oauthHandler.GoogleCallback)

	// Each plugin gets its own protected group so JWT middleware never
	// reaches the public routes above.
	for _, p := range plugins {
		protected := api.Group("/"+p.ID(), middleware.JWTProtected(issuer))
		p.RegisterRoutes(protected, db, cfg)
	}
}
