package ports

import (
	"context"

	"github.com/samirrijal/geodash/internal/core/domain"
)

// ProjectRepository persists the project catalogue.
type ProjectRepository interface {
	List(ctx context.Context) ([]domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	UpsertBatch(ctx context.Context, projects []domain.Project) error
}

// ProjectSource supplies the dashboard with a project list. It is satisfied
// both in-process by the catalogue service and remotely by the API client.
type ProjectSource interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
}
