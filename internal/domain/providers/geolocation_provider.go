package providers

import (
	"context"

	"github.com/arogyavritti/backend/pkg/geo"
)

// GeolocationProvider defines the interface for the upstream places service
type GeolocationProvider interface {
	// NearbyHospitals returns hospitals around center using the provider's
	// default radius and result limit.
	NearbyHospitals(ctx context.Context, center geo.Coordinate) (*geo.FeatureCollection, error)

	// ReverseGeocode converts coordinates to an address
	ReverseGeocode(ctx context.Context, lat, lon float64) (*Address, error)

	// LocateIP estimates coordinates for a client IP. An empty ip asks the
	// provider to use the caller's address.
	LocateIP(ctx context.Context, ip string) (*IPLocation, error)
}

// Address is a reverse geocoded place. Fields the provider omits are empty.
type Address struct {
	Suburb    string `json:"suburb,omitempty"`
	City      string `json:"city,omitempty"`
	Town      string `json:"town,omitempty"`
	Village   string `json:"village,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Formatted string `json:"formatted,omitempty"`
}

// Label returns the most specific non-empty place name, or "" when none.
func (a Address) Label() string {
	for _, v := range []string{a.Suburb, a.City, a.Town, a.Village, a.State} {
		if v != "" {
			return v
		}
	}
	return ""
}

// IPLocation is an approximate position derived from a network address
type IPLocation struct {
	IP         string         `json:"ip,omitempty"`
	Coordinate geo.Coordinate `json:"location"`
	City       string         `json:"city,omitempty"`
	Country    string         `json:"country,omitempty"`
}
