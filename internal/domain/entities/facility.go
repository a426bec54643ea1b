package entities

import (
	"strings"

	"github.com/arogyavritti/backend/pkg/geo"
)

// UnnamedFacility is the display name used when the provider omits one.
const UnnamedFacility = "Unnamed Hospital"

// FacilityRecord is a provider place normalized so that no field is ever
// missing. It carries no distance of its own; see Facility.
type FacilityRecord struct {
	Name        string         `json:"name"`
	Street      string         `json:"street"`
	HouseNumber string         `json:"house_number"`
	City        string         `json:"city"`
	Postcode    string         `json:"postcode"`
	Website     string         `json:"website"`
	Phone       string         `json:"phone"`
	Coordinate  geo.Coordinate `json:"coordinate"`
}

// Facility is a FacilityRecord annotated with its distance from a query origin.
type Facility struct {
	FacilityRecord
	DistanceKm float64 `json:"distance_km"`
}

// FacilityRecordFromFeature normalizes a hospital search feature.
func FacilityRecordFromFeature(f geo.Feature) FacilityRecord {
	name := strings.TrimSpace(f.Properties.Name)
	if name == "" {
		name = UnnamedFacility
	}
	return FacilityRecord{
		Name:        name,
		Street:      strings.TrimSpace(f.Properties.Street),
		HouseNumber: strings.TrimSpace(f.Properties.HouseNumber),
		City:        strings.TrimSpace(f.Properties.City),
		Postcode:    strings.TrimSpace(f.Properties.Postcode),
		Website:     strings.TrimSpace(f.Properties.Website),
		Phone:       strings.TrimSpace(f.Properties.Phone),
		Coordinate:  f.Geometry.Coordinate(),
	}
}

// FacilityRecordsFromFeatures normalizes every feature of a collection. A nil
// or empty collection yields an empty, non-nil slice.
func FacilityRecordsFromFeatures(features []geo.Feature) []FacilityRecord {
	records := make([]FacilityRecord, 0, len(features))
	for _, f := range features {
		records = append(records, FacilityRecordFromFeature(f))
	}
	return records
}
