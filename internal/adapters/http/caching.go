package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != fiber.MethodGet {
			return err
		}

		// Don't override if already set
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics", path == "/", strings.HasPrefix(path, "/ws"):
			ttl = "no-cache"

		case path == "/api/v1/projects" || path == "/api/v1/projects.geojson" || path == "/v1/projects":
			ttl = "public, max-age=60" // catalogue imports should show up quickly

		case strings.HasPrefix(path, "/v1/projects/nearby"):
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/api/v1/projects/") || strings.HasPrefix(path, "/v1/projects/"):
			ttl = "public, max-age=300"

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
