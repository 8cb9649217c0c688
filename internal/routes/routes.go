package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/toptally/scoreboard-backend/internal/config"
	"github.com/toptally/scoreboard-backend/internal/handlers"
	"github.com/toptally/scoreboard-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	scoreboardHandler *handlers.ScoreboardHandler,
	webhookHandler *handlers.WebhookHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health
	api.Get("/health", healthHandler.Check)

	// Public pricing table and shared scoreboard views (no JWT)
	api.Get("/pricing", profileHandler.Pricing)
	api.Get("/boards/:slug", scoreboardHandler.GetPublic)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
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

	// Protected routes (JWT required) - apply middleware to individual
	// routes so public routes stay unaffected
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	api.Get("/me", middleware.JWTProtected(cfg), profileHandler.Me)

	// Scoreboard management (protected)
	boards := api.Group("/scoreboards", middleware.JWTProtected(cfg))
	boards.Post("/", scoreboardHandler.Create)
	boards.Get("/", scoreboardHandler.List)
	boards.Get("/:id", scoreboardHandler.Get)
	boards.Put("/:id", scoreboardHandler.Update)
	boards.Delete("/:id", scoreboardHandler.Delete)
	boards.Post("/:id/unlock", scoreboardHandler.Unlock)
	boards.Post("/:id/entries", scoreboardHandler.AddEntry)
	boards.Post("/:id/entries/import", scoreboardHandler.ImportEntries)
	boards.Put("/:id/entries/:entryId", scoreboardHandler.UpdateEntry)
	boards.Delete("/:id/entries/:entryId", scoreboardHandler.DeleteEntry)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/subscriptions", adminHandler.ListSubscriptions)
	admin.Post("/subscriptions/link", adminHandler.LinkSubscription)
	admin.Post("/subscriptions/:id/refetch", adminHandler.RefetchSubscription)
	admin.Post("/subscriptions/:id/cancel", adminHandler.CancelSubscription)
	admin.Post("/users/:userId/gift", adminHandler.GiftSubscription)
	admin.Delete("/users/:userId/gift", adminHandler.RemoveGift)
	admin.Post("/pricing/sync", adminHandler.SyncPricing)
	admin.Get("/audit-logs", adminHandler.ListAuditLogs)

	// Webhooks use signature auth, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/lemonsqueezy", webhookHandler.HandleLemonSqueezy)
}
