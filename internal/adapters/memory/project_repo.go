// Package memory provides an in-process project catalogue used when no
// database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samirrijal/geodash/internal/core/domain"
)

// ProjectRepo implements ports.ProjectRepository over a map.
type ProjectRepo struct {
	mu       sync.RWMutex
	projects map[int64]domain.Project
}

// NewProjectRepo returns a repo holding seed.
func NewProjectRepo(seed []domain.Project) *ProjectRepo {
	r := &ProjectRepo{projects: make(map[int64]domain.Project, len(seed))}
	for _, p := range seed {
		r.projects[p.ID] = p
	}
	return r
}

// List returns every project ordered by id.
func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetByID returns a copy of the project with id.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &p, nil
}

// UpsertBatch inserts or replaces projects by id.
func (r *ProjectRepo) UpsertBatch(ctx context.Context, projects []domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return nil
}
