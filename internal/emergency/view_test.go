package emergency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/pkg/geo"
)

func TestBuildView(t *testing.T) {
	aiims := entities.Facility{
		FacilityRecord: entities.FacilityRecord{
			Name:        "AIIMS",
			Street:      "Ansari Nagar",
			HouseNumber: "1",
			City:        "New Delhi",
			Postcode:    "110029",
			Phone:       "011-26588500",
			Website:     "https://aiims.edu",
			Coordinate:  geo.Coordinate{Latitude: 28.5672, Longitude: 77.2100},
		},
		DistanceKm: 5.1634,
	}
	bare := entities.Facility{
		FacilityRecord: entities.FacilityRecord{
			Name:       entities.UnnamedFacility,
			Coordinate: geo.Coordinate{Latitude: 28.7, Longitude: 77.1},
		},
		DistanceKm: 1153.2449,
	}

	v := BuildView(delhi, "Connaught Place", false, []entities.Facility{aiims, bare})

	assert.Equal(t, delhi, v.Center)
	assert.Empty(t, v.Notice)

	require.Len(t, v.Markers, 3)
	assert.Equal(t, Marker{Title: "Connaught Place", Coordinate: delhi, Origin: true}, v.Markers[0])
	assert.Equal(t, "AIIMS", v.Markers[1].Title)

	require.Len(t, v.Lines, 2)
	assert.Equal(t, Line{From: delhi, To: aiims.Coordinate}, v.Lines[0])

	require.Len(t, v.Items, 2)
	assert.Equal(t, ListItem{
		Name:        "AIIMS",
		AddressLine: "1 Ansari Nagar",
		CityLine:    "New Delhi, 110029",
		Distance:    "5.16 km",
		Phone:       "011-26588500",
		PhoneLink:   "tel:011-26588500",
		Website:     "https://aiims.edu",
	}, v.Items[0])
	assert.Equal(t, ListItem{Name: "Unnamed Hospital", Distance: "1153.24 km"}, v.Items[1])
}

func TestBuildView_ApproximateAndEmpty(t *testing.T) {
	v := BuildView(delhi, "", true, nil)

	assert.Equal(t, ApproximateNotice, v.Notice)
	require.Len(t, v.Markers, 1)
	assert.Equal(t, "Your Location", v.Markers[0].Title)
	assert.NotNil(t, v.Items)
	assert.Empty(t, v.Items)
	assert.Empty(t, v.Lines)
}

func TestBuildView_Deterministic(t *testing.T) {
	facilities := []entities.Facility{{FacilityRecord: entities.FacilityRecord{Name: "A"}, DistanceKm: 2}}
	assert.Equal(t, BuildView(delhi, "x", false, facilities), BuildView(delhi, "x", false, facilities))
}
