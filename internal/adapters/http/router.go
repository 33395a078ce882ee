package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/geodash/internal/pkg/metrics"
)

// legacyRoutes are the probe endpoints kept for older dashboard builds.
var legacyRoutes = []DeprecatedRoute{
	{Path: "/api", SunsetDate: time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC), Alternative: "/v1/health"},
	{Path: "/api/test", SunsetDate: time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC), Alternative: "/v1/ready"},
}

// NewApp returns a fiber app with the error handler every route relies on.
func NewApp(cfg fiber.Config) *fiber.App {
	cfg.ErrorHandler = errorHandler
	return fiber.New(cfg)
}

// SetupRoutes registers the dashboard, REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
		// Map sessions are long-lived and counted once.
		Next: func(c *fiber.Ctx) bool {
			return websocket.IsWebSocketUpgrade(c)
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	app.Use(DeprecationMiddleware(legacyRoutes))

	// Dashboard
	app.Get("/", DashboardPageHandler(deps))
	app.Get("/static/bridge.js", BridgeScriptHandler())
	app.Get("/static/dashboard.css", StylesheetHandler())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Backend contract consumed by dashboards, 15s per-request timeout
	api := app.Group("/api")
	api.Get("/", RootHandler())
	api.Get("/test", TestHandler())
	api.Get("/v1/projects", timeout.NewWithContext(ListProjectsHandler(deps), 15*time.Second))
	api.Get("/v1/projects.geojson", timeout.NewWithContext(ProjectsGeoJSONHandler(deps), 15*time.Second))
	api.Get("/v1/projects/:id", timeout.NewWithContext(GetProjectHandler(deps), 15*time.Second))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Get("/projects", timeout.NewWithContext(PagedProjectsHandler(deps), 15*time.Second))
	v1.Post("/projects", timeout.NewWithContext(ImportProjectsHandler(deps), 30*time.Second))
	v1.Get("/projects/nearby", timeout.NewWithContext(NearbyProjectsHandler(deps), 15*time.Second))
	v1.Get("/projects/:id", timeout.NewWithContext(GetProjectHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.Docs)

	// Map sessions
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/map", websocket.New(MapSessionHandler(deps)))
}
