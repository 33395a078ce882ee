package domain

// Rendering engine boundary types. They mirror the shapes the browser map
// library consumes, so they serialize directly into engine commands.

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	BBox     []float64 `json:"bbox,omitempty"`
}

// NewFeatureCollection returns an empty collection with the GeoJSON type set.
func NewFeatureCollection(features []Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{Type: "FeatureCollection", Features: features}
}

// Feature is a GeoJSON feature with a flat property bag.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON geometry. Only points are produced here.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [Lon, Lat]
}

// PointFeature builds a point feature at p.
func PointFeature(p GeoPoint, props map[string]any) Feature {
	return Feature{
		Type:       "Feature",
		Geometry:   Geometry{Type: "Point", Coordinates: []float64{p.Lon, p.Lat}},
		Properties: props,
	}
}

// Point returns the feature's coordinates and whether they form a point.
func (f Feature) Point() (GeoPoint, bool) {
	if len(f.Geometry.Coordinates) < 2 {
		return GeoPoint{}, false
	}
	return GeoPoint{Lon: f.Geometry.Coordinates[0], Lat: f.Geometry.Coordinates[1]}, true
}

// MapOptions configures a new engine instance.
type MapOptions struct {
	AccessToken string     `json:"accessToken,omitempty"`
	Style       string     `json:"style"`
	Center      [2]float64 `json:"center"` // [Lon, Lat]
	Zoom        float64    `json:"zoom"`
	Pitch       float64    `json:"pitch"`
	Bearing     float64    `json:"bearing"`
}

// Layer is a style layer definition.
type Layer struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Source      string         `json:"source,omitempty"`
	SourceLayer string         `json:"source-layer,omitempty"`
	Filter      []any          `json:"filter,omitempty"`
	MinZoom     float64        `json:"minzoom,omitempty"`
	Paint       map[string]any `json:"paint,omitempty"`
}

// StyleLayer is the id/type pair of a layer already in the engine's style.
type StyleLayer struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// MapEventType names an engine event.
type MapEventType string

const (
	EventLoad       MapEventType = "load"
	EventClick      MapEventType = "click"
	EventMouseEnter MapEventType = "mouseenter"
	EventMouseLeave MapEventType = "mouseleave"
)

// MapEvent is an event emitted by the engine.
type MapEvent struct {
	Type     MapEventType `json:"type"`
	Layer    string       `json:"layer,omitempty"`
	Features []Feature    `json:"features,omitempty"`
	Style    []StyleLayer `json:"style,omitempty"` // set on load
}

// Popup is an info window anchored at a coordinate.
type Popup struct {
	LngLat [2]float64 `json:"lngLat"`
	HTML   string     `json:"html"`
}
