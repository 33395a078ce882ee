package domain

// Status is the health of a project. It drives marker and popup colors.
type Status string

const (
	StatusOnTrack    Status = "On Track"
	StatusWarning    Status = "Warning"
	StatusOverBudget Status = "Over Budget/Delayed"
)

// Known reports whether s is one of the closed set of statuses.
func (s Status) Known() bool {
	switch s {
	case StatusOnTrack, StatusWarning, StatusOverBudget:
		return true
	}
	return false
}

// FundingSource identifies who pays for a project.
type FundingSource string

const (
	FundingLocal FundingSource = "Local"
	FundingEU    FundingSource = "EU"
	FundingUS    FundingSource = "US"
	FundingMixed FundingSource = "Mixed"
)

// Known reports whether f is one of the closed set of funding sources.
func (f FundingSource) Known() bool {
	switch f {
	case FundingLocal, FundingEU, FundingUS, FundingMixed:
		return true
	}
	return false
}

// Project is a civic infrastructure project shown on the dashboard map.
// Amounts are in Georgian lari.
type Project struct {
	ID                     int64         `json:"id"`
	Name                   string        `json:"name"`
	Description            string        `json:"description,omitempty"`
	Latitude               float64       `json:"latitude"`
	Longitude              float64       `json:"longitude"`
	BudgetAllocated        float64       `json:"budget_allocated"`
	BudgetSpent            float64       `json:"budget_spent"`
	StartDate              string        `json:"start_date"`
	ExpectedCompletionDate string        `json:"expected_completion_date"`
	Status                 Status        `json:"status"`
	FundingSource          FundingSource `json:"funding_source"`
}

// Location returns the project coordinates.
func (p Project) Location() GeoPoint {
	return GeoPoint{Lat: p.Latitude, Lon: p.Longitude}
}

// OverBudget reports whether spending exceeds the allocation.
// This is a legitimate state, not an error.
func (p Project) OverBudget() bool {
	return p.BudgetSpent > p.BudgetAllocated
}

// SampleProjects returns the catalogue the dashboard ships with.
func SampleProjects() []Project {
	return []Project{
		{
			ID:                     1,
			Name:                   "Rustaveli Ave Road Repair",
			Latitude:               41.6979,
			Longitude:              44.7973,
			BudgetAllocated:        500000,
			BudgetSpent:            450000,
			StartDate:              "2023-01-15",
			ExpectedCompletionDate: "2024-06-30",
			Status:                 StatusOnTrack,
			FundingSource:          FundingLocal,
		},
		{
			ID:                     2,
			Name:                   "Vake Park Renovation",
			Latitude:               41.7086,
			Longitude:              44.7600,
			BudgetAllocated:        1200000,
			BudgetSpent:            1150000,
			StartDate:              "2022-09-01",
			ExpectedCompletionDate: "2024-03-31",
			Status:                 StatusWarning,
			FundingSource:          FundingEU,
		},
		{
			ID:                     3,
			Name:                   "New Bridge Construction - Mtkvari",
			Latitude:               41.7167,
			Longitude:              44.7833,
			BudgetAllocated:        2500000,
			BudgetSpent:            2800000,
			StartDate:              "2023-03-01",
			ExpectedCompletionDate: "2024-09-30",
			Status:                 StatusOverBudget,
			FundingSource:          FundingMixed,
		},
		{
			ID:                     4,
			Name:                   "School Tech Upgrade Program",
			Latitude:               41.7230,
			Longitude:              44.7688,
			BudgetAllocated:        300000,
			BudgetSpent:            290000,
			StartDate:              "2023-05-10",
			ExpectedCompletionDate: "2024-05-09",
			Status:                 StatusOnTrack,
			FundingSource:          FundingUS,
		},
	}
}
