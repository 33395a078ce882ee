package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	natsadapter "github.com/samirrijal/geodash/internal/adapters/nats"
	"github.com/samirrijal/geodash/internal/adapters/postgres"
	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/core/ports"
	"github.com/samirrijal/geodash/internal/core/usecases"
	"github.com/samirrijal/geodash/internal/pkg/config"
	"github.com/samirrijal/geodash/internal/pkg/logging"
)

var (
	upFiles   = []string{"migrations/001_projects.sql"}
	downFiles = []string{"migrations/001_projects.down.sql"}
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|seed>")
	}

	cfg, err := config.Load("geodash-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("geodash-migrate", cfg.Log.Level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		err = runFiles(ctx, db, upFiles)
	case "down":
		err = runFiles(ctx, db, downFiles)
	case "seed":
		err = seed(ctx, db, cfg.NATS.URL)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runFiles(ctx context.Context, db *postgres.DB, files []string) error {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", f, err)
		}
		fmt.Printf("OK  %s\n", f)
	}
	slog.Info("migrations applied", "files", len(files))
	return nil
}

// seed imports the sample catalogue through the project service so open
// dashboards are notified when NATS is configured.
func seed(ctx context.Context, db *postgres.DB, natsURL string) error {
	var events ports.EventPublisher
	if natsURL != "" {
		pub, err := natsadapter.NewPublisher(natsURL)
		if err != nil {
			slog.Warn("nats unavailable, seeding without notification", "error", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	svc := usecases.NewProjectService(postgres.NewProjectRepo(db), nil, events)
	projects := domain.SampleProjects()
	if err := svc.Import(ctx, projects); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	slog.Info("sample projects seeded", "count", len(projects))
	return nil
}
