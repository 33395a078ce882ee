package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/core/ports"
	"github.com/samirrijal/geodash/internal/pkg/geospatial"
	"github.com/samirrijal/geodash/internal/pkg/metrics"
	"github.com/samirrijal/geodash/internal/pkg/telemetry"
)

const (
	projectListKey = "projects:list"
	projectIDKey   = "projects:id:"

	projectListTTL = 300 // 5 min
	projectIDTTL   = 600 // 10 min for single project
)

// ProjectService handles the project catalogue.
type ProjectService struct {
	projects ports.ProjectRepository
	cache    ports.CacheService
	events   ports.EventPublisher
}

// NewProjectService creates a new ProjectService. cache and events may be nil.
func NewProjectService(projects ports.ProjectRepository, cache ports.CacheService, events ports.EventPublisher) *ProjectService {
	return &ProjectService{projects: projects, cache: cache, events: events}
}

// List returns every project ordered by id.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanProjectsList)
	defer span.End()

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, projectListKey); err == nil {
			var projects []domain.Project
			if err := json.Unmarshal(data, &projects); err == nil {
				metrics.CacheHits.WithLabelValues("projects_list").Inc()
				span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
				return projects, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("projects_list").Inc()
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	span.SetAttributes(attribute.Int(telemetry.AttrProjectCount, len(projects)))

	if s.cache != nil {
		if data, err := json.Marshal(projects); err == nil {
			_ = s.cache.Set(ctx, projectListKey, data, projectListTTL)
		}
	}
	return projects, nil
}

// ListProjects satisfies ports.ProjectSource so a dashboard can read the
// catalogue in-process.
func (s *ProjectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.List(ctx)
}

// GetByID returns a single project or domain.ErrProjectNotFound.
func (s *ProjectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanProjectsGet)
	defer span.End()
	span.SetAttributes(attribute.Int64(telemetry.AttrProjectID, id))

	cacheKey := projectIDKey + strconv.FormatInt(id, 10)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var p domain.Project
			if err := json.Unmarshal(data, &p); err == nil {
				metrics.CacheHits.WithLabelValues("projects_id").Inc()
				return &p, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("projects_id").Inc()
	}

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(p); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, projectIDTTL)
		}
	}
	return p, nil
}

// Nearby returns projects within radiusMeters of center, nearest first.
func (s *ProjectService) Nearby(ctx context.Context, center domain.GeoPoint, radiusMeters float64, limit int) ([]domain.NearbyProject, error) {
	if !center.Valid() {
		return nil, fmt.Errorf("invalid center (%v, %v)", center.Lat, center.Lon)
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("radius must be positive")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanProjectsNearby)
	defer span.End()

	projects, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	box := geospatial.BoundingBox(center.Lat, center.Lon, radiusMeters)
	out := make([]domain.NearbyProject, 0)
	for _, p := range projects {
		if !p.Location().Valid() || !box.Contains(p.Latitude, p.Longitude) {
			continue
		}
		d := geospatial.Haversine(center.Lat, center.Lon, p.Latitude, p.Longitude)
		if d <= radiusMeters {
			out = append(out, domain.NearbyProject{Project: p, DistanceMeters: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Import validates and upserts projects, drops cached reads and announces
// the change. Nothing is written when any record is invalid or an id
// appears twice in the batch.
func (s *ProjectService) Import(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanProjectsImport)
	defer span.End()
	span.SetAttributes(attribute.Int(telemetry.AttrProjectCount, len(projects)))

	var errs []error
	seen := make(map[int64]bool, len(projects))
	for _, p := range projects {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[p.ID] {
			errs = append(errs, &domain.ValidationError{ID: p.ID, Problems: []string{"duplicate id"}})
		}
		seen[p.ID] = true
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if err := s.projects.UpsertBatch(ctx, projects); err != nil {
		span.RecordError(err)
		return fmt.Errorf("upsert projects: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, projectListKey)
		for _, p := range projects {
			_ = s.cache.Delete(ctx, projectIDKey+strconv.FormatInt(p.ID, 10))
		}
	}

	if s.events != nil {
		if err := s.events.PublishProjectsUpdated(ctx, len(projects)); err != nil {
			slog.WarnContext(ctx, "publish projects updated", "error", err)
		}
	}
	return nil
}
