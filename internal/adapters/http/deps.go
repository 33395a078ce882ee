package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geodash/internal/adapters/postgres"
	"github.com/samirrijal/geodash/internal/adapters/valkey"
	"github.com/samirrijal/geodash/internal/core/ports"
	"github.com/samirrijal/geodash/internal/core/usecases"
	"github.com/samirrijal/geodash/internal/mapview"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Projects *usecases.ProjectService

	// Source feeds dashboard sessions. It is either Projects or a client for
	// a remote backend.
	Source ports.ProjectSource
	// Events notifies dashboard sessions of catalogue imports. Optional.
	Events ports.EventSubscriber

	Map     mapview.Config
	Title   string
	Docs    DocsSettings
	Version string

	NATS  *nats.Conn
	DB    *postgres.DB
	Cache *valkey.Cache
}

func (d *Dependencies) source() ports.ProjectSource {
	if d.Source != nil {
		return d.Source
	}
	if d.Projects != nil {
		return d.Projects
	}
	return nil
}
