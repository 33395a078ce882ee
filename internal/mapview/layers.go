package mapview

import "github.com/samirrijal/geodash/internal/core/domain"

// Engine identifiers owned by the controller.
const (
	SourceID         = "projects-source"
	CircleLayerID    = "projects-circle"
	BuildingsLayerID = "3d-buildings"
)

func circleLayer(theme domain.Theme) domain.Layer {
	stroke := "#000"
	if theme == domain.ThemeDark {
		stroke = "#fff"
	}
	return domain.Layer{
		ID:     CircleLayerID,
		Type:   "circle",
		Source: SourceID,
		Paint: map[string]any{
			"circle-radius":       10,
			"circle-color":        statusColorExpression(),
			"circle-stroke-width": 2,
			"circle-stroke-color": stroke,
			"circle-opacity":      0.8,
		},
	}
}

func buildingsLayer(theme domain.Theme) domain.Layer {
	color := "#d6d6d6"
	if theme == domain.ThemeDark {
		color = "#444"
	}
	return domain.Layer{
		ID:          BuildingsLayerID,
		Type:        "fill-extrusion",
		Source:      "composite",
		SourceLayer: "building",
		Filter:      []any{"==", "extrude", "true"},
		MinZoom:     15,
		Paint: map[string]any{
			"fill-extrusion-color":   color,
			"fill-extrusion-height":  []any{"get", "height"},
			"fill-extrusion-base":    []any{"get", "min_height"},
			"fill-extrusion-opacity": 0.7,
		},
	}
}

// firstSymbolLayer returns the id of the lowest symbol layer, or "".
func firstSymbolLayer(style []domain.StyleLayer) string {
	for _, l := range style {
		if l.Type == "symbol" {
			return l.ID
		}
	}
	return ""
}
