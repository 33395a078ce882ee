package geospatial

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// Rustaveli Ave to Tbilisi city centre, roughly 2.4 km.
	d := Haversine(41.6979, 44.7973, 41.7167, 44.7833)
	if d < 2000 || d > 2600 {
		t.Errorf("expected ~2.4km, got %.0fm", d)
	}
	if got := Haversine(41.7, 44.8, 41.7, 44.8); got != 0 {
		t.Errorf("expected 0 for identical points, got %f", got)
	}
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	box := BoundingBox(41.7167, 44.7833, 5000)
	if !box.Contains(41.6979, 44.7973) {
		t.Error("expected nearby point inside box")
	}
	if box.Contains(43.263, -2.935) {
		t.Error("expected distant point outside box")
	}
	if math.Abs((box.MaxLat-box.MinLat)/2-5000/metersPerDegree) > 1e-9 {
		t.Errorf("unexpected latitude span %f", box.MaxLat-box.MinLat)
	}
}

func TestBoundingBox_Pole(t *testing.T) {
	box := BoundingBox(90, 0, 1000)
	if !box.Contains(89.999, 170) {
		t.Error("expected any longitude inside box at the pole")
	}
}
