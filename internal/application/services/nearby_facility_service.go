package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
	"github.com/arogyavritti/backend/pkg/geo"
)

// NearbyFacilities is a ranked hospital search result
type NearbyFacilities struct {
	Origin     geo.Coordinate      `json:"origin"`
	Location   string              `json:"location,omitempty"`
	Facilities []entities.Facility `json:"facilities"`
	Count      int                 `json:"count"`
}

// NearbyFacilityService fronts the places provider for hospital lookups
type NearbyFacilityService struct {
	provider providers.GeolocationProvider
	metrics  *observability.Metrics
}

// NewNearbyFacilityService creates a new nearby facility service. metrics may be nil.
func NewNearbyFacilityService(provider providers.GeolocationProvider, metrics *observability.Metrics) *NearbyFacilityService {
	return &NearbyFacilityService{provider: provider, metrics: metrics}
}

// HospitalFeatures returns the provider's raw hospital features around center.
func (s *NearbyFacilityService) HospitalFeatures(ctx context.Context, center geo.Coordinate) (*geo.FeatureCollection, error) {
	if !center.Valid() {
		return nil, apperrors.NewValidationError("latitude must be within [-90, 90] and longitude within [-180, 180]")
	}

	ctx, span := observability.StartSpan(ctx, "NearbyFacilityService.HospitalFeatures")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.Float64("geo.latitude", center.Latitude),
		attribute.Float64("geo.longitude", center.Longitude),
	)

	start := time.Now()
	collection, err := s.provider.NearbyHospitals(ctx, center)
	observability.RecordUpstreamMetric(ctx, s.metrics, "places", "nearby_hospitals", time.Since(start), err)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if collection == nil {
		collection = &geo.FeatureCollection{Type: "FeatureCollection"}
	}
	if collection.Features == nil {
		collection.Features = []geo.Feature{}
	}
	return collection, nil
}

// Nearby returns hospitals around origin ranked by distance.
func (s *NearbyFacilityService) Nearby(ctx context.Context, origin geo.Coordinate) (*NearbyFacilities, error) {
	collection, err := s.HospitalFeatures(ctx, origin)
	if err != nil {
		return nil, err
	}

	ranked := RankByDistance(origin, entities.FacilityRecordsFromFeatures(collection.Features))
	return &NearbyFacilities{
		Origin:     origin,
		Facilities: ranked,
		Count:      len(ranked),
	}, nil
}

// NearbyPreset returns ranked hospitals around a preset city.
func (s *NearbyFacilityService) NearbyPreset(ctx context.Context, city string) (*NearbyFacilities, error) {
	location, ok := entities.FindPresetLocation(city)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown location %q", strings.TrimSpace(city)))
	}

	result, err := s.Nearby(ctx, location.Coordinate)
	if err != nil {
		return nil, err
	}
	result.Location = location.Name
	return result, nil
}

// ReverseGeocode resolves coordinates to an address.
func (s *NearbyFacilityService) ReverseGeocode(ctx context.Context, point geo.Coordinate) (*providers.Address, error) {
	if !point.Valid() {
		return nil, apperrors.NewValidationError("latitude must be within [-90, 90] and longitude within [-180, 180]")
	}

	start := time.Now()
	address, err := s.provider.ReverseGeocode(ctx, point.Latitude, point.Longitude)
	observability.RecordUpstreamMetric(ctx, s.metrics, "places", "reverse_geocode", time.Since(start), err)
	return address, err
}

// LocateIP estimates the caller's position from ip.
func (s *NearbyFacilityService) LocateIP(ctx context.Context, ip string) (*providers.IPLocation, error) {
	start := time.Now()
	location, err := s.provider.LocateIP(ctx, ip)
	observability.RecordUpstreamMetric(ctx, s.metrics, "places", "ip_location", time.Since(start), err)
	return location, err
}

// Locations returns the preset search origins.
func (s *NearbyFacilityService) Locations() []entities.NamedLocation {
	return entities.PresetLocations()
}
