package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/radar-fin/radar_fin/internal/auth"
	"github.com/radar-fin/radar_fin/internal/config"
	"github.com/radar-fin/radar_fin/internal/extraction"
	"github.com/radar-fin/radar_fin/internal/identity"
	"github.com/radar-fin/radar_fin/internal/middleware"
	"github.com/radar-fin/radar_fin/internal/notification"
	"github.com/radar-fin/radar_fin/internal/transactions"
	"github.com/radar-fin/radar_fin/internal/webhook"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg       config.Config
	DB        *pgxpool.Pool
	Cache     *redis.Client
	Extractor extraction.Client
	Logger    *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories: Postgres when available, in-memory otherwise (dev/tests).
	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}
	var store transactions.Repository
	if d.DB != nil {
		store = transactions.NewPostgresRepository(d.DB)
	} else {
		store = transactions.NewInMemory()
	}

	extractor := d.Extractor
	if extractor == nil {
		extractor = extraction.DisabledClient{}
	}

	// Services and handlers
	identitySvc := identity.NewService(identityRepo, d.Cfg.DefaultCountryCode)
	notifier := notification.NewLoggerNotifier(d.Logger)
	pipeline := webhook.NewPipeline(identitySvc, store, extractor, notifier, d.Logger)
	webhookHandler := webhook.NewHandler(pipeline, d.Logger)
	authSvc := auth.NewService(d.Cfg, identityRepo)
	authHandler := auth.NewHandler(identitySvc, authSvc)
	advisor, _ := d.Extractor.(extraction.Advisor)
	txHandler := transactions.NewHandler(store, identitySvc, advisor)

	// Inbound webhook, deduplicated on the transport message id when Redis is up.
	wh := app.Group("/webhook")
	if d.Cache != nil {
		wh.Use(middleware.WebhookDedup(d.Cache, d.Cfg.DedupTTL, d.Logger))
	}
	RegisterWebhookRoutes(wh, webhookHandler)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	jwtmw := middleware.JWTAuth(d.Cfg, identityRepo)
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter, jwtmw)

	// Protected routes
	protected := api.Group("", jwtmw)
	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		user, err := identityRepo.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{
			"user_id":    user.ID,
			"name":       user.Name,
			"phone":      user.Phone,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		})
	})
	RegisterTransactionRoutes(api, protected, txHandler)

	return nil
}
