package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/arogyavritti/backend/internal/application/services"
	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/pkg/geo"
)

// GeolocationService defines the hospital lookup operations used by the handler
type GeolocationService interface {
	HospitalFeatures(ctx context.Context, center geo.Coordinate) (*geo.FeatureCollection, error)
	Nearby(ctx context.Context, origin geo.Coordinate) (*services.NearbyFacilities, error)
	NearbyPreset(ctx context.Context, city string) (*services.NearbyFacilities, error)
	ReverseGeocode(ctx context.Context, point geo.Coordinate) (*providers.Address, error)
	LocateIP(ctx context.Context, ip string) (*providers.IPLocation, error)
	Locations() []entities.NamedLocation
}

// GeolocationHandler handles hospital search and geolocation endpoints.
type GeolocationHandler struct {
	service GeolocationService
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(service GeolocationService) *GeolocationHandler {
	return &GeolocationHandler{service: service}
}

// Hospitals handles GET /api/geoapify/hospitals?lat=...&lon=...
func (h *GeolocationHandler) Hospitals(w http.ResponseWriter, r *http.Request) {
	center, msg := parseCoordinate(r)
	if msg != "" {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	collection, err := h.service.HospitalFeatures(r.Context(), center)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, collection)
}

// IPLocation handles GET /api/geoapify/ip-location
func (h *GeolocationHandler) IPLocation(w http.ResponseWriter, r *http.Request) {
	location, err := h.service.LocateIP(r.Context(), clientIP(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, location)
}

// ReverseGeocode handles GET /api/geoapify/reverse-geocode?lat=...&lon=...
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	point, msg := parseCoordinate(r)
	if msg != "" {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	address, err := h.service.ReverseGeocode(r.Context(), point)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"address": address,
	})
}

// NearbyHospitals handles GET /api/hospitals/nearby?lat=...&lon=... or ?city=...
func (h *GeolocationHandler) NearbyHospitals(w http.ResponseWriter, r *http.Request) {
	var (
		result *services.NearbyFacilities
		err    error
	)

	if city := strings.TrimSpace(r.URL.Query().Get("city")); city != "" {
		result, err = h.service.NearbyPreset(r.Context(), city)
	} else {
		origin, msg := parseCoordinate(r)
		if msg != "" {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}
		result, err = h.service.Nearby(r.Context(), origin)
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Locations handles GET /api/locations
func (h *GeolocationHandler) Locations(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"locations": h.service.Locations(),
	})
}

// clientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(real) != nil {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
