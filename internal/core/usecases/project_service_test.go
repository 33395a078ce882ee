package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/core/usecases"
)

// --- Mock ProjectRepository ---

type mockProjectRepo struct {
	listFn        func(ctx context.Context) ([]domain.Project, error)
	getByIDFn     func(ctx context.Context, id int64) (*domain.Project, error)
	upsertBatchFn func(ctx context.Context, projects []domain.Project) error
}

func (m *mockProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrProjectNotFound
}

func (m *mockProjectRepo) UpsertBatch(ctx context.Context, projects []domain.Project) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, projects)
	}
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	data    map[string][]byte
	ttls    map[string]int
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	counts []int
	err    error
}

func (m *mockPublisher) PublishProjectsUpdated(ctx context.Context, count int) error {
	m.counts = append(m.counts, count)
	return m.err
}

// --- Tests ---

func TestProjectService_List(t *testing.T) {
	repo := &mockProjectRepo{
		listFn: func(ctx context.Context) ([]domain.Project, error) {
			return domain.SampleProjects(), nil
		},
	}

	svc := usecases.NewProjectService(repo, nil, nil)
	projects, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 4 {
		t.Fatalf("expected 4 projects, got %d", len(projects))
	}
	if projects[0].Name != "Rustaveli Ave Road Repair" {
		t.Errorf("expected Rustaveli Ave Road Repair, got %s", projects[0].Name)
	}
}

func TestProjectService_List_EmptyIsNotNil(t *testing.T) {
	svc := usecases.NewProjectService(&mockProjectRepo{}, nil, nil)
	projects, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if projects == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestProjectService_List_CachesResult(t *testing.T) {
	calls := 0
	repo := &mockProjectRepo{
		listFn: func(ctx context.Context) ([]domain.Project, error) {
			calls++
			return domain.SampleProjects(), nil
		},
	}
	cache := newMockCache()
	svc := usecases.NewProjectService(repo, cache, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.List(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 repo call, got %d", calls)
	}
	if cache.ttls["projects:list"] != 300 {
		t.Errorf("expected 300s TTL, got %d", cache.ttls["projects:list"])
	}
}

func TestProjectService_List_RepoError(t *testing.T) {
	repo := &mockProjectRepo{
		listFn: func(ctx context.Context) ([]domain.Project, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := usecases.NewProjectService(repo, nil, nil)
	if _, err := svc.List(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestProjectService_GetByID(t *testing.T) {
	repo := &mockProjectRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Project, error) {
			return &domain.Project{ID: id, Name: "Mtkvari River Bridge"}, nil
		},
	}
	cache := newMockCache()
	svc := usecases.NewProjectService(repo, cache, nil)

	p, err := svc.GetByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 2 {
		t.Errorf("expected id 2, got %d", p.ID)
	}
	if cache.ttls["projects:id:2"] != 600 {
		t.Errorf("expected 600s TTL, got %d", cache.ttls["projects:id:2"])
	}
}

func TestProjectService_GetByID_NotFound(t *testing.T) {
	svc := usecases.NewProjectService(&mockProjectRepo{}, nil, nil)
	_, err := svc.GetByID(context.Background(), 99)
	if !errors.Is(err, domain.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectService_Nearby(t *testing.T) {
	repo := &mockProjectRepo{
		listFn: func(ctx context.Context) ([]domain.Project, error) {
			return domain.SampleProjects(), nil
		},
	}
	svc := usecases.NewProjectService(repo, nil, nil)

	// Freedom Square
	near, err := svc.Nearby(context.Background(), domain.GeoPoint{Lat: 41.6934, Lon: 44.8015}, 1000, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(near) == 0 {
		t.Fatal("expected at least one project within 1km")
	}
	if near[0].ID != 1 {
		t.Errorf("expected Rustaveli project first, got %d", near[0].ID)
	}
	for i := 1; i < len(near); i++ {
		if near[i].DistanceMeters < near[i-1].DistanceMeters {
			t.Error("expected results ordered by distance")
		}
	}
}

func TestProjectService_Nearby_InvalidInput(t *testing.T) {
	svc := usecases.NewProjectService(&mockProjectRepo{}, nil, nil)
	if _, err := svc.Nearby(context.Background(), domain.GeoPoint{Lat: 100, Lon: 0}, 500, 10); err == nil {
		t.Error("expected error for invalid center")
	}
	if _, err := svc.Nearby(context.Background(), domain.GeoPoint{Lat: 41.7, Lon: 44.8}, 0, 10); err == nil {
		t.Error("expected error for zero radius")
	}
}

func TestProjectService_Import(t *testing.T) {
	var upserted []domain.Project
	repo := &mockProjectRepo{
		upsertBatchFn: func(ctx context.Context, projects []domain.Project) error {
			upserted = projects
			return nil
		},
	}
	cache := newMockCache()
	_ = cache.Set(context.Background(), "projects:list", []byte("[]"), 300)
	pub := &mockPublisher{}
	svc := usecases.NewProjectService(repo, cache, pub)

	if err := svc.Import(context.Background(), domain.SampleProjects()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(upserted) != 4 {
		t.Errorf("expected 4 upserted, got %d", len(upserted))
	}
	if _, ok := cache.data["projects:list"]; ok {
		t.Error("expected list cache to be invalidated")
	}
	if len(pub.counts) != 1 || pub.counts[0] != 4 {
		t.Errorf("expected one event with count 4, got %v", pub.counts)
	}
}

func TestProjectService_Import_RejectsInvalid(t *testing.T) {
	called := false
	repo := &mockProjectRepo{
		upsertBatchFn: func(ctx context.Context, projects []domain.Project) error {
			called = true
			return nil
		},
	}
	svc := usecases.NewProjectService(repo, nil, nil)

	projects := domain.SampleProjects()
	projects = append(projects, domain.Project{ID: 9, Name: "", Latitude: 200})

	err := svc.Import(context.Background(), projects)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) != 2 {
		t.Errorf("expected 2 problems, got %v", verr.Problems)
	}
	if called {
		t.Error("repo must not be called when validation fails")
	}
}

func TestProjectService_Import_RejectsDuplicateIDs(t *testing.T) {
	called := false
	repo := &mockProjectRepo{
		upsertBatchFn: func(ctx context.Context, projects []domain.Project) error {
			called = true
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewProjectService(repo, nil, pub)

	first := domain.SampleProjects()[0]
	second := domain.SampleProjects()[1]
	second.ID = first.ID

	err := svc.Import(context.Background(), []domain.Project{first, second})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.ID != first.ID || len(verr.Problems) != 1 || verr.Problems[0] != "duplicate id" {
		t.Errorf("unexpected validation error %+v", verr)
	}
	if called {
		t.Error("repo must not be called when ids repeat")
	}
	if len(pub.counts) != 0 {
		t.Errorf("expected no event, got %v", pub.counts)
	}
}

func TestProjectService_Import_PublishErrorIsNotFatal(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats: connection closed")}
	svc := usecases.NewProjectService(&mockProjectRepo{}, nil, pub)
	if err := svc.Import(context.Background(), domain.SampleProjects()[:1]); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
