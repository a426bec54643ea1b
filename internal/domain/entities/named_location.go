package entities

import (
	"strings"

	"github.com/arogyavritti/backend/pkg/geo"
)

// NamedLocation is a preset search origin a patient can pick instead of
// sharing their live location.
type NamedLocation struct {
	Name       string         `json:"name"`
	Coordinate geo.Coordinate `json:"coordinate"`
}

var presetLocations = []NamedLocation{
	{Name: "Delhi", Coordinate: geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090}},
	{Name: "Mumbai", Coordinate: geo.Coordinate{Latitude: 19.0760, Longitude: 72.8777}},
	{Name: "Bangalore", Coordinate: geo.Coordinate{Latitude: 12.9716, Longitude: 77.5946}},
	{Name: "Chennai", Coordinate: geo.Coordinate{Latitude: 13.0827, Longitude: 80.2707}},
	{Name: "Kolkata", Coordinate: geo.Coordinate{Latitude: 22.5726, Longitude: 88.3639}},
	{Name: "Hyderabad", Coordinate: geo.Coordinate{Latitude: 17.3854, Longitude: 78.4867}},
	{Name: "Pune", Coordinate: geo.Coordinate{Latitude: 18.5204, Longitude: 73.8567}},
	{Name: "Ahmedabad", Coordinate: geo.Coordinate{Latitude: 23.0225, Longitude: 72.5714}},
	{Name: "Jaipur", Coordinate: geo.Coordinate{Latitude: 26.9124, Longitude: 75.7873}},
	{Name: "Lucknow", Coordinate: geo.Coordinate{Latitude: 26.8467, Longitude: 80.9462}},
	{Name: "Bhopal", Coordinate: geo.Coordinate{Latitude: 23.2599, Longitude: 77.4126}},
	{Name: "Chandigarh", Coordinate: geo.Coordinate{Latitude: 30.7333, Longitude: 76.7794}},
	{Name: "Patna", Coordinate: geo.Coordinate{Latitude: 25.5941, Longitude: 85.1376}},
	{Name: "Indore", Coordinate: geo.Coordinate{Latitude: 22.7196, Longitude: 75.8577}},
	{Name: "Nagpur", Coordinate: geo.Coordinate{Latitude: 21.1458, Longitude: 79.0882}},
	{Name: "Kanpur", Coordinate: geo.Coordinate{Latitude: 26.4499, Longitude: 80.3319}},
	{Name: "Coimbatore", Coordinate: geo.Coordinate{Latitude: 11.0168, Longitude: 76.9558}},
	{Name: "Visakhapatnam", Coordinate: geo.Coordinate{Latitude: 17.6868, Longitude: 83.2185}},
	{Name: "Thiruvananthapuram", Coordinate: geo.Coordinate{Latitude: 8.5241, Longitude: 76.9366}},
	{Name: "Vijayawada", Coordinate: geo.Coordinate{Latitude: 16.5062, Longitude: 80.6480}},
}

// PresetLocations returns a copy of the preset catalog in display order.
func PresetLocations() []NamedLocation {
	out := make([]NamedLocation, len(presetLocations))
	copy(out, presetLocations)
	return out
}

// FindPresetLocation looks up a preset by name, ignoring case and surrounding space.
func FindPresetLocation(name string) (NamedLocation, bool) {
	name = strings.TrimSpace(name)
	for _, loc := range presetLocations {
		if strings.EqualFold(loc.Name, name) {
			return loc, true
		}
	}
	return NamedLocation{}, false
}
