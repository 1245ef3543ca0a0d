package http

import (
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type AppConfig struct {
	IsProduction   bool
	BodyLimitBytes int
	Timeout        time.Duration
	AllowOrigins   string
}

// NewApp builds the fiber app with the middleware every route shares.
func NewApp(cfg AppConfig, metrics *middleware.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "storefront-api",
		BodyLimit:    cfg.BodyLimitBytes,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		ErrorHandler: ErrorHandler(logger, cfg.IsProduction),
	})

	app.Use(otelfiber.Middleware())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if metrics != nil {
		app.Use(metrics.Handler())
	}
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.IsProduction,
	}))
	app.Use(helmet.New())
	// the auth cookie only crosses origins that are named explicitly
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: !strings.Contains(cfg.AllowOrigins, "*"),
	}))

	return app
}

// NewLimiter caps requests per client IP within window.
func NewLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status":  "fail",
				"message": "Too many requests from this IP, please try again later.",
			})
		},
	})
}
