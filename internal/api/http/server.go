package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/api/http/handlers"
	"github.com/spec-kit/support-tickets/internal/auth"
	"github.com/spec-kit/support-tickets/internal/config"
	"github.com/spec-kit/support-tickets/internal/observability"
	"github.com/spec-kit/support-tickets/internal/service"
)

// ServerDependencies bundles everything the HTTP layer calls into.
type ServerDependencies struct {
	Tickets *service.TicketService
	Users   *service.UserService
	Tokens  *auth.TokenManager
	Health  map[string]handlers.Pinger
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// NewApp builds the fiber application with middlewares and routes.
func NewApp(cfg config.AppConfig, deps ServerDependencies) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger),
	})

	RegisterMiddlewares(app, logger, deps.Metrics, MiddlewareConfig{
		Timeout:          cfg.RequestTimeout(),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.Name, cfg.Version, deps.Health, logger),
		Users:   handlers.NewUsersHandler(deps.Users),
		Tickets: handlers.NewTicketsHandler(deps.Tickets),
		Tokens:  deps.Tokens,
		Metrics: deps.Metrics,
	})
	return app
}
