package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/geodash/internal/adapters/http"
	"github.com/samirrijal/geodash/internal/adapters/memory"
	natsadapter "github.com/samirrijal/geodash/internal/adapters/nats"
	"github.com/samirrijal/geodash/internal/adapters/postgres"
	"github.com/samirrijal/geodash/internal/adapters/projectsapi"
	"github.com/samirrijal/geodash/internal/adapters/valkey"
	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/core/ports"
	"github.com/samirrijal/geodash/internal/core/usecases"
	"github.com/samirrijal/geodash/internal/mapview"
	"github.com/samirrijal/geodash/internal/pkg/config"
	"github.com/samirrijal/geodash/internal/pkg/logging"
	"github.com/samirrijal/geodash/internal/pkg/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load("geodash-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup("geodash-api", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{Version: version}

	// Catalogue storage
	var repo ports.ProjectRepository
	if cfg.Database.Enabled {
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		go db.ReportPoolStats(ctx, 15*time.Second)

		repo = postgres.NewProjectRepo(db)
		deps.DB = db
	} else {
		slog.Info("database disabled, serving the sample catalogue from memory")
		repo = memory.NewProjectRepo(domain.SampleProjects())
	}

	// Cache
	var cache ports.CacheService
	if cfg.Valkey.Addr != "" {
		c, err := valkey.New(cfg.Valkey.Addr, "geodash:")
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer c.Close()
			cache = c
			deps.Cache = c
		}
	}

	// NATS
	var events ports.EventPublisher
	if cfg.NATS.URL != "" {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			events = pub
			deps.NATS = pub.Conn()
			deps.Events = natsadapter.NewSubscriber(pub.Conn())
		}
	}

	deps.Projects = usecases.NewProjectService(repo, cache, events)

	// Dashboard sessions read the local catalogue unless pointed at another backend.
	if cfg.Dashboard.BackendURL != "" {
		slog.Info("dashboard reads projects from remote backend", "url", cfg.Dashboard.BackendURL)
		deps.Source = projectsapi.NewClient(cfg.Dashboard.BackendURL,
			time.Duration(cfg.Dashboard.RequestTimeout)*time.Second)
	}

	deps.Map = mapview.Config{
		AccessToken: cfg.Map.AccessToken,
		LightStyle:  cfg.Map.LightStyle,
		DarkStyle:   cfg.Map.DarkStyle,
		Center:      domain.GeoPoint{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon},
		Zoom:        cfg.Map.Zoom,
		Locale:      cfg.Dashboard.LocaleTag(),
		DateLayout:  cfg.Dashboard.DateLayout,
	}
	deps.Title = cfg.Dashboard.Title
	deps.Docs = http.DocsSettings{Title: cfg.Docs.Title, SpecPath: cfg.Docs.SpecPath}
	if deps.Map.AccessToken == "" {
		slog.Warn("map access token not configured, the map will not load tiles")
	}

	// Fiber
	app := http.NewApp(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    4 * 1024 * 1024, // catalogue imports
		AppName:      "Geodash API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Stop the pool stats reporter.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
