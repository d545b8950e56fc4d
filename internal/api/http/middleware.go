package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/observability"
	apperrors "github.com/spec-kit/support-tickets/pkg/errorutil"
)

// MiddlewareConfig tunes the global middleware chain.
type MiddlewareConfig struct {
	Timeout          time.Duration
	CORSAllowOrigins string
}

// RegisterMiddlewares attaches global middlewares. The request logger sits
// outside the error middleware so it observes the rendered status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, cfg MiddlewareConfig) {
	app.Use(requestid.New())
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(logger))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewStoreFailure(fmt.Errorf("panic: %v", r))
			}
			if err != nil {
				writeError(c, logger, err)
				err = nil
			}
		}()
		return c.Next()
	}
}

// ErrorHandler renders errors that escape the middleware chain, such as
// fiber's own 404 for unknown routes.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		writeError(c, logger, err)
		return nil
	}
}

// writeError renders err as the JSON error envelope. Domain errors were
// already logged where they were created; only unclassified 5xx are logged.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error) {
	var domainErr *apperrors.DomainError
	classified := errors.As(err, &domainErr)
	if fe, ok := err.(*fiber.Error); ok {
		domainErr = apperrors.NewDomainError(fiberCode(fe.Code), fe.Message, fe.Code, nil)
	} else if !classified {
		domainErr = apperrors.ToDomainError(err)
	}

	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}
	if !classified && domainErr.HTTPStatus >= 500 {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(domainErr))
	}
	_ = c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return apperrors.CodeNotFound
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperrors.CodeInvalidArgument
	case fiber.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case fiber.StatusConflict:
		return apperrors.CodeConflict
	default:
		return "HTTP_ERROR"
	}
}
