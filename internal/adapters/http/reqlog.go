package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type (
	loggerKey    struct{}
	requestIDKey struct{}
)

// RequestIDLogMiddleware puts a logger carrying the request ID into the user
// context. Catalogue calls made from handlers log through it, and the ID is
// attached to the active span so traces and logs can be joined.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, requestIDKey{}, rid)
		ctx = context.WithValue(ctx, loggerKey{}, slog.Default().With("request_id", rid))
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request_id", rid))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// LoggerFromCtx returns the request logger, or the default logger outside a
// request.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// RequestIDFromCtx returns the request ID set by RequestIDLogMiddleware.
func RequestIDFromCtx(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}
