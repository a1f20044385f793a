package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Istanbul (41.0082, 28.9784) to Ankara (39.9334, 32.8597) ~ 350 km
	d := HaversineKm(41.0082, 28.9784, 39.9334, 32.8597)
	if d < 340 || d > 360 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineKmZero(t *testing.T) {
	if d := HaversineKm(41.0, 29.0, 41.0, 29.0); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestHaversineKmShortRange(t *testing.T) {
	// ~0.0005 degrees of latitude is roughly 55 meters.
	d := HaversineKm(41.0, 29.0, 41.0005, 29.0)
	if d < 0.050 || d > 0.060 {
		t.Fatalf("expected ~0.055 km, got %v", d)
	}
}

func TestDegreesForRadiusKm(t *testing.T) {
	if got := DegreesForRadiusKm(111.32); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected 1 degree, got %v", got)
	}
	if got := DegreesForRadiusKm(0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	const lat, lng, radius = 41.0082, 28.9784, 5.0
	box := BoundingBox(lat, lng, radius)

	if box.MinLat >= lat || box.MaxLat <= lat || box.MinLng >= lng || box.MaxLng <= lng {
		t.Fatalf("box does not contain center: %+v", box)
	}

	// Points on the circle in the four cardinal directions must fall inside.
	dLat := DegreesForRadiusKm(radius)
	if box.MaxLat < lat+dLat || box.MinLat > lat-dLat {
		t.Fatalf("latitude span too narrow: %+v", box)
	}
	// Longitude span must be at least the latitude span at non-zero latitude.
	if (box.MaxLng - box.MinLng) < (box.MaxLat - box.MinLat) {
		t.Fatalf("longitude span narrower than latitude span: %+v", box)
	}
}

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     bool
	}{
		{41.0, 29.0, true},
		{-90, -180, true},
		{90, 180, true},
		{91, 0, false},
		{0, 181, false},
		{math.NaN(), 0, false},
		{0, math.NaN(), false},
	}
	for _, c := range cases {
		if got := ValidCoordinates(c.lat, c.lng); got != c.want {
			t.Fatalf("ValidCoordinates(%v, %v) = %v, want %v", c.lat, c.lng, got, c.want)
		}
	}
}
