package routes

import (
	"time"

	"github.com/docuvault/docuvault/internal/config"
	"github.com/docuvault/docuvault/internal/handlers"
	"github.com/docuvault/docuvault/internal/middleware"
	"github.com/docuvault/docuvault/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	documentHandler *handlers.DocumentHandler,
	ingestionHandler *handlers.IngestionHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api/v1")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	protected := middleware.JWTProtected(cfg)
	editors := middleware.RolesRequired(models.RoleAdmin, models.RoleEditor)
	admins := middleware.RolesRequired(models.RoleAdmin)

	// Users — admin only
	users := api.Group("/users", protected, admins)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Documents — any authenticated role can read within its scope;
	// uploads and mutations need editor rights.
	documents := api.Group("/documents", protected)
	documents.Post("/", editors, documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.Get)
	documents.Patch("/:id", editors, documentHandler.Update)
	documents.Delete("/:id", editors, documentHandler.Delete)
	documents.Get("/:id/download", documentHandler.Download)

	// Ingestion — webhook is public (shared-secret header), the rest JWT.
	ingestion := api.Group("/ingestion")
	ingestion.Post("/webhook", ingestionHandler.Webhook)
	ingestion.Post("/:documentId/trigger", protected, editors, ingestionHandler.Trigger)
	ingestion.Get("/:documentId/status", protected, ingestionHandler.Status)
}
