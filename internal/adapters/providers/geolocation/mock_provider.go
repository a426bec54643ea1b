package geolocation

import (
	"context"
	"fmt"

	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/pkg/geo"
)

// MockGeolocationProvider serves deterministic data when no Geoapify key is
// configured. Hospitals are placed at fixed offsets around the requested
// center so ranking is predictable.
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() providers.GeolocationProvider {
	return &MockGeolocationProvider{}
}

type mockHospital struct {
	name    string
	street  string
	number  string
	phone   string
	website string
	dLat    float64
	dLon    float64
}

var mockHospitals = []mockHospital{
	{name: "City General Hospital", street: "Hospital Road", number: "12", phone: "+91 11 2345 6789", website: "https://citygeneral.example", dLat: 0.012, dLon: 0.008},
	{name: "Sanjeevani Multispeciality", street: "MG Road", number: "45", phone: "+91 11 2233 4455", dLat: -0.004, dLon: 0.003},
	{name: "", street: "Ring Road", dLat: 0.021, dLon: -0.017},
	{name: "Lifeline Trauma Centre", street: "Station Road", number: "7", website: "https://lifeline.example", dLat: -0.018, dLon: -0.011},
}

// NearbyHospitals returns the fixed mock hospitals around center.
func (m *MockGeolocationProvider) NearbyHospitals(ctx context.Context, center geo.Coordinate) (*geo.FeatureCollection, error) {
	collection := &geo.FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geo.Feature, 0, len(mockHospitals)),
	}
	for _, h := range mockHospitals {
		point := geo.Coordinate{Latitude: center.Latitude + h.dLat, Longitude: center.Longitude + h.dLon}
		collection.Features = append(collection.Features, geo.Feature{
			Type: "Feature",
			Properties: geo.FeatureProperties{
				Name:        h.name,
				Street:      h.street,
				HouseNumber: h.number,
				City:        "Mock City",
				Postcode:    "110001",
				Website:     h.website,
				Phone:       h.phone,
				Distance:    geo.Distance(center, point) * 1000,
			},
			Geometry: geo.PointGeometry(point),
		})
	}
	return collection, nil
}

// ReverseGeocode converts coordinates to a mock address
func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.Address, error) {
	return &providers.Address{
		Suburb:    "Connaught Place",
		City:      "New Delhi",
		State:     "Delhi",
		Country:   "India",
		Formatted: fmt.Sprintf("%.5f, %.5f", lat, lon),
	}, nil
}

// LocateIP always resolves to central Delhi.
func (m *MockGeolocationProvider) LocateIP(ctx context.Context, ip string) (*providers.IPLocation, error) {
	return &providers.IPLocation{
		IP:         ip,
		Coordinate: geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090},
		City:       "New Delhi",
		Country:    "India",
	}, nil
}
