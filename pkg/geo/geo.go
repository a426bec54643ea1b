// Package geo holds coordinate types and great-circle distance helpers shared by
// the backend ranking endpoint and the emergency lookup client.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Coordinate represents a WGS84 latitude/longitude pair
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is finite and within WGS84 bounds.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) || math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// String renders the coordinate as "lat,lon" with five decimals.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Latitude, c.Longitude)
}

// Distance returns the great-circle distance between two points in kilometers.
func Distance(from, to Coordinate) float64 {
	dLat := degreesToRadians(to.Latitude - from.Latitude)
	dLon := degreesToRadians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(from.Latitude))*math.Cos(degreesToRadians(to.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push a a hair outside [0,1] for antipodal points.
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// FormatKm renders a distance with two decimals, e.g. "1153.24".
func FormatKm(km float64) string {
	return fmt.Sprintf("%.2f", km)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
