package mapview_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/mapview"
)

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"On Track", "#2ECC71"},
		{"Warning", "#F1C40F"},
		{"Over Budget/Delayed", "#E74C3C"},
		{"", "#95A5A6"},
		{"on track", "#95A5A6"},
		{"Cancelled", "#95A5A6"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, mapview.StatusColor(tt.status))
		})
	}
}

func TestPercentSpent(t *testing.T) {
	assert.Equal(t, "90.0", mapview.FormatPercent(mapview.PercentSpent(450000, 500000)))
	assert.Equal(t, "112.0", mapview.FormatPercent(mapview.PercentSpent(2800000, 2500000)))

	zero := mapview.PercentSpent(1000, 0)
	assert.True(t, math.IsNaN(zero))
	assert.Equal(t, "N/A", mapview.FormatPercent(zero))
}

func TestFormatter_Currency(t *testing.T) {
	f := mapview.NewFormatter(language.AmericanEnglish, "")

	assert.Equal(t, "1,150,000", f.Currency(1150000))
	assert.Equal(t, "500", f.Currency(500))
	assert.Equal(t, "0", f.Currency(0))
	assert.Equal(t, "N/A", f.Currency(math.NaN()))
}

func TestFormatter_Date(t *testing.T) {
	f := mapview.NewFormatter(language.AmericanEnglish, "")

	assert.Equal(t, "1/15/2023", f.Date("2023-01-15"))
	assert.Equal(t, "6/30/2024", f.Date("2024-06-30T00:00:00Z"))
	assert.Equal(t, "N/A", f.Date("not a date"))
	assert.Equal(t, "N/A", f.Date(""))

	iso := mapview.NewFormatter(language.German, "02.01.2006")
	assert.Equal(t, "15.01.2023", iso.Date("2023-01-15"))
}

func TestFormatter_DateLayoutFollowsLocale(t *testing.T) {
	tests := map[string]string{
		"en-US": "1/15/2023",
		"en":    "1/15/2023",
		"en-GB": "15/01/2023",
		"fr-FR": "15/01/2023",
		"ka-GE": "15.01.2023",
		"de":    "15.01.2023",
		"ja-JP": "2023/01/15",
		"sw-KE": "2023-01-15",
	}
	for locale, want := range tests {
		t.Run(locale, func(t *testing.T) {
			f := mapview.NewFormatter(language.MustParse(locale), "")
			assert.Equal(t, want, f.Date("2023-01-15"))
		})
	}

	// An explicit layout wins over the locale.
	f := mapview.NewFormatter(language.MustParse("ka-GE"), time.DateOnly)
	assert.Equal(t, "2023-01-15", f.Date("2023-01-15"))
}

func TestFormatter_PopupMissingProperties(t *testing.T) {
	f := mapview.NewFormatter(language.AmericanEnglish, "")

	c := f.Popup(map[string]any{"name": "Orphan"})
	assert.Equal(t, "Orphan", c.Name)
	assert.Equal(t, "₾0 / ₾0 (N/A)", c.Budget)
	assert.Equal(t, "N/A - N/A", c.Timeline)
	assert.Equal(t, "#95A5A6", c.StatusColor)
	assert.Equal(t, "Unknown", c.FundingSource)
}

func TestFormatter_PopupFromDecodedJSON(t *testing.T) {
	f := mapview.NewFormatter(language.AmericanEnglish, "")

	// Properties echoed back by the browser arrive as JSON numbers.
	c := f.Popup(map[string]any{
		"name":            "Rustaveli Ave Road Repair",
		"status":          "On Track",
		"budgetAllocated": float64(500000),
		"budgetSpent":     float64(450000),
		"startDate":       "2023-01-15",
		"completionDate":  "2024-06-30",
		"fundingSource":   "Local",
	})
	assert.Equal(t, "₾450,000 / ₾500,000 (90.0%)", c.Budget)
	assert.Equal(t, "1/15/2023 - 6/30/2024", c.Timeline)
	assert.Equal(t, "#2ECC71", c.StatusColor)
	assert.Equal(t, "Local", c.FundingSource)
}

func TestPopupContent_HTMLEscapes(t *testing.T) {
	c := mapview.PopupContent{
		Name:        `<script>alert("x")</script>`,
		Description: "Phase 1 & 2",
		Status:      "Warning",
		StatusColor: "#F1C40F",
	}
	html, err := c.HTML(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Phase 1 &amp; 2")
	assert.Contains(t, html, `<span style="color:#F1C40F;font-weight:bold;">Warning</span>`)
}

func TestPopupContent_HTMLSanitizesStatusColor(t *testing.T) {
	c := mapview.PopupContent{Name: "Bridge", Status: "Warning", StatusColor: `red"><script>`}
	html, err := c.HTML(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "zTemplUnsafeCSSPropertyValue")
}

func TestPopupContent_HTMLOmitsEmptyDescription(t *testing.T) {
	html, err := mapview.PopupContent{Name: "Bridge"}.HTML(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, html, "<p")
}

func TestProjectFeature_CoordinateOrder(t *testing.T) {
	for _, p := range domain.SampleProjects() {
		f := mapview.ProjectFeature(p)
		assert.Equal(t, "Point", f.Geometry.Type)
		assert.Equal(t, []float64{p.Longitude, p.Latitude}, f.Geometry.Coordinates)
		assert.Equal(t, p.ID, f.Properties["id"])
		assert.Equal(t, "", f.Properties["description"])
	}
}

func TestBuildFeatureCollection_SkipsInvalidCoordinates(t *testing.T) {
	projects := domain.SampleProjects()
	projects = append(projects,
		domain.Project{ID: 5, Name: "Nowhere", Latitude: math.NaN(), Longitude: 44.8},
		domain.Project{ID: 6, Name: "Off planet", Latitude: 120, Longitude: 44.8},
	)

	fc := mapview.BuildFeatureCollection(projects, nil)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 4)
	assert.Equal(t, []float64{44.76, 41.6979, 44.7973, 41.723}, fc.BBox)
}

func TestBuildFeatureCollection_Empty(t *testing.T) {
	fc := mapview.BuildFeatureCollection(nil, nil)
	assert.NotNil(t, fc.Features)
	assert.Empty(t, fc.Features)
	assert.Nil(t, fc.BBox)
}
