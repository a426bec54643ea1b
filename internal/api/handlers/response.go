package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
	"github.com/arogyavritti/backend/pkg/geo"
)

// UserIDHeader carries the authenticated patient id set by the gateway.
const UserIDHeader = "X-User-ID"

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps service errors to HTTP status codes.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeExternal:
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Upstream failure")
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Internal error")
		respondWithError(w, http.StatusInternalServerError, appErr.Message)
	}
}

func userID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(UserIDHeader))
	return id, id != ""
}

// parseCoordinate reads the lat and lon query parameters.
func parseCoordinate(r *http.Request) (geo.Coordinate, string) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lonStr := strings.TrimSpace(r.URL.Query().Get("lon"))
	if latStr == "" || lonStr == "" {
		return geo.Coordinate{}, "lat and lon parameters are required"
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return geo.Coordinate{}, "invalid lat parameter"
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return geo.Coordinate{}, "invalid lon parameter"
	}

	c := geo.Coordinate{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return geo.Coordinate{}, "lat must be within [-90, 90] and lon within [-180, 180]"
	}
	return c, ""
}
