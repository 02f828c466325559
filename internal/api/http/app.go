package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/config"
	"github.com/OutOfContext/MyTicketSystem/internal/observability"
)

// NewApp builds the fiber application with global middlewares and routes.
func NewApp(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	RegisterMiddlewares(app, logger, metrics, MiddlewareOptions{
		Timeout:     cfg.RequestTimeout(),
		CORSOrigins: cfg.CORSOrigins,
	})
	RegisterRoutes(app, routes)
	return app
}
