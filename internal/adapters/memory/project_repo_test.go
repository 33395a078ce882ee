package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/geodash/internal/core/domain"
)

func TestProjectRepo_ListOrdered(t *testing.T) {
	seed := domain.SampleProjects()
	seed[0], seed[3] = seed[3], seed[0]
	r := NewProjectRepo(seed)

	got, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range got {
		if p.ID != int64(i+1) {
			t.Errorf("position %d: expected id %d, got %d", i, i+1, p.ID)
		}
	}
}

func TestProjectRepo_GetByID(t *testing.T) {
	r := NewProjectRepo(domain.SampleProjects())

	p, err := r.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.StatusOverBudget {
		t.Errorf("expected %q, got %q", domain.StatusOverBudget, p.Status)
	}

	// Returned value is a copy.
	p.Name = "changed"
	again, _ := r.GetByID(context.Background(), 3)
	if again.Name == "changed" {
		t.Error("GetByID leaked internal state")
	}

	if _, err := r.GetByID(context.Background(), 42); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectRepo_UpsertBatch(t *testing.T) {
	r := NewProjectRepo(domain.SampleProjects())

	updated := domain.SampleProjects()[0]
	updated.BudgetSpent = 500000
	err := r.UpsertBatch(context.Background(), []domain.Project{
		updated,
		{ID: 5, Name: "Dighomi Park Lighting", Latitude: 41.76, Longitude: 44.77},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, _ := r.List(context.Background())
	if len(all) != 5 {
		t.Fatalf("expected 5 projects, got %d", len(all))
	}
	if all[0].BudgetSpent != 500000 {
		t.Errorf("expected update applied, got %v", all[0].BudgetSpent)
	}
}
