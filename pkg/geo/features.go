package geo

// FeatureCollection is the GeoJSON-like envelope returned by the hospital
// search endpoint.
type FeatureCollection struct {
	Type     string    `json:"type,omitempty"`
	Features []Feature `json:"features"`
}

// Feature is a single place with its properties and point geometry.
type Feature struct {
	Type       string            `json:"type,omitempty"`
	Properties FeatureProperties `json:"properties"`
	Geometry   Geometry          `json:"geometry"`
}

// FeatureProperties carries the place attributes. Absent or null values decode
// to their zero value.
type FeatureProperties struct {
	Name        string  `json:"name"`
	Street      string  `json:"street"`
	HouseNumber string  `json:"housenumber"`
	City        string  `json:"city"`
	Postcode    string  `json:"postcode"`
	Website     string  `json:"website"`
	Phone       string  `json:"phone"`
	Distance    float64 `json:"distance"`
}

// Geometry is a GeoJSON point. Coordinates are ordered [lon, lat].
type Geometry struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

// PointGeometry builds a point geometry in [lon, lat] order.
func PointGeometry(c Coordinate) Geometry {
	return Geometry{Type: "Point", Coordinates: []float64{c.Longitude, c.Latitude}}
}

// Coordinate returns the point as a Coordinate, swapping the [lon, lat] order.
// Missing components are zero.
func (g Geometry) Coordinate() Coordinate {
	var c Coordinate
	if len(g.Coordinates) > 0 {
		c.Longitude = g.Coordinates[0]
	}
	if len(g.Coordinates) > 1 {
		c.Latitude = g.Coordinates[1]
	}
	return c
}
