package mapview

import (
	"log/slog"

	"github.com/samirrijal/geodash/internal/core/domain"
)

// Feature property keys read back by the click handler.
const (
	propID             = "id"
	propName           = "name"
	propDescription    = "description"
	propStatus         = "status"
	propBudgetAlloc    = "budgetAllocated"
	propBudgetSpent    = "budgetSpent"
	propStartDate      = "startDate"
	propCompletionDate = "completionDate"
	propFundingSource  = "fundingSource"
)

// ProjectFeature flattens a project into a point feature.
func ProjectFeature(p domain.Project) domain.Feature {
	return domain.PointFeature(p.Location(), map[string]any{
		propID:             p.ID,
		propName:           p.Name,
		propDescription:    p.Description,
		propStatus:         string(p.Status),
		propBudgetAlloc:    p.BudgetAllocated,
		propBudgetSpent:    p.BudgetSpent,
		propStartDate:      p.StartDate,
		propCompletionDate: p.ExpectedCompletionDate,
		propFundingSource:  string(p.FundingSource),
	})
}

// BuildFeatureCollection converts projects to point features in input order.
// Projects with unusable coordinates are skipped and logged.
func BuildFeatureCollection(projects []domain.Project, log *slog.Logger) *domain.FeatureCollection {
	if log == nil {
		log = slog.Default()
	}

	features := make([]domain.Feature, 0, len(projects))
	var bounds domain.Bounds
	for _, p := range projects {
		loc := p.Location()
		if !loc.Valid() {
			log.Warn("skipping project with invalid coordinates",
				"project_id", p.ID, "lat", p.Latitude, "lon", p.Longitude)
			continue
		}
		bounds = bounds.Extend(loc, len(features) == 0)
		features = append(features, ProjectFeature(p))
	}

	fc := domain.NewFeatureCollection(features)
	if len(features) > 0 {
		fc.BBox = bounds.BBox()
	}
	return fc
}
