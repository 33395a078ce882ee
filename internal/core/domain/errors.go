package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProjectNotFound is returned by catalogue lookups for an unknown id.
var ErrProjectNotFound = errors.New("project not found")

// ValidationError lists every problem found in a project record.
type ValidationError struct {
	ID       int64
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("project %d: %s", e.ID, strings.Join(e.Problems, "; "))
}

// Validate checks the fields required to place and describe a project.
// Unknown statuses and funding sources are allowed; they render with
// default colors and labels.
func (p Project) Validate() error {
	var problems []string
	if p.ID <= 0 {
		problems = append(problems, "id must be positive")
	}
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !p.Location().Valid() {
		problems = append(problems, fmt.Sprintf("invalid coordinates (%v, %v)", p.Latitude, p.Longitude))
	}
	if p.BudgetAllocated < 0 || p.BudgetSpent < 0 {
		problems = append(problems, "budget amounts must not be negative")
	}
	if len(problems) > 0 {
		return &ValidationError{ID: p.ID, Problems: problems}
	}
	return nil
}

// NearbyProject is a project with its distance from a query point.
type NearbyProject struct {
	Project
	DistanceMeters float64 `json:"distance_m"`
}
