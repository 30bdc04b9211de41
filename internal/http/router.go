package http

import (
	"time"

	"github.com/ads-marketplace/adcopy/internal/config"
	"github.com/ads-marketplace/adcopy/internal/http/handlers"
	"github.com/ads-marketplace/adcopy/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handlers groups everything SetupRouter mounts. WSHub may be nil.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Meta       *handlers.MetaHandler
	Generation *handlers.GenerationHandler
	Product    *handlers.ProductHandler
	WSHub      *handlers.WSHub
}

// NewApp returns a fiber app that renders errors as JSON.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
}

func SetupRouter(app *fiber.App, cfg *config.Config, log *zap.Logger, rdb *redis.Client, h Handlers) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "Content-Disposition, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/token", h.Auth.IssueToken)

	// Meta (public)
	api.Get("/meta/options", h.Meta.GetOptions)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	protected.Post("/export", h.Generation.Export)
	protected.Get("/generations", h.Generation.ListRuns)

	// Routes below call out to the model or the web and share the per-caller limit.
	limited := protected.Group("", middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))
	limited.Post("/generate", h.Generation.Generate)
	limited.Post("/generate/download", h.Generation.Download)
	limited.Post("/product-preview", h.Product.Preview)

	// WebSocket
	if h.WSHub != nil {
		app.Use("/ws", handlers.WSUpgradeMiddleware())
		app.Get("/ws", websocket.New(h.WSHub.HandleWS))
	}
}
