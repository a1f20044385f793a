package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0

	// kmPerDegree approximates one degree of latitude at the equator.
	kmPerDegree = 111.32
)

// HaversineKm returns the great-circle distance between two WGS84
// coordinates in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DegreesForRadiusKm converts a radius in kilometers to an approximate
// number of degrees, suitable for a coarse index-friendly predicate on
// latitude/longitude columns. Callers must refine candidates with
// HaversineKm afterwards.
func DegreesForRadiusKm(km float64) float64 {
	return km / kmPerDegree
}

// Box is an axis-aligned bounding box in degrees.
type Box struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundingBox returns the box that encloses a circle of the given radius
// around a center point. The longitude span widens with latitude so the box
// never clips the circle; near the poles it degrades to the full range.
func BoundingBox(lat, lng, radiusKm float64) Box {
	dLat := DegreesForRadiusKm(radiusKm)

	cosLat := math.Cos(lat * math.Pi / 180)
	dLng := 180.0
	if cosLat > 1e-6 {
		dLng = dLat / cosLat
	}

	return Box{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
		MinLng: lng - dLng,
		MaxLng: lng + dLng,
	}
}

// ValidCoordinates reports whether lat/lng form a usable WGS84 pair.
func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
