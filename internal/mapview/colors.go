package mapview

import "github.com/samirrijal/geodash/internal/core/domain"

const (
	colorOnTrack    = "#2ECC71"
	colorWarning    = "#F1C40F"
	colorOverBudget = "#E74C3C"
	colorUnknown    = "#95A5A6"
)

// StatusColor returns the marker color for a status. Unrecognized values get grey.
func StatusColor(status string) string {
	switch domain.Status(status) {
	case domain.StatusOnTrack:
		return colorOnTrack
	case domain.StatusWarning:
		return colorWarning
	case domain.StatusOverBudget:
		return colorOverBudget
	default:
		return colorUnknown
	}
}

// statusColorExpression is the engine-side equivalent of StatusColor.
func statusColorExpression() []any {
	return []any{
		"match",
		[]any{"get", "status"},
		string(domain.StatusOnTrack), StatusColor(string(domain.StatusOnTrack)),
		string(domain.StatusWarning), StatusColor(string(domain.StatusWarning)),
		string(domain.StatusOverBudget), StatusColor(string(domain.StatusOverBudget)),
		colorUnknown,
	}
}
