package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	"github.com/arogyavritti/backend/pkg/config"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
	"github.com/arogyavritti/backend/pkg/geo"
)

const (
	defaultBaseURL          = "https://api.geoapify.com"
	hospitalCategory        = "healthcare.hospital"
	defaultSearchRadiusM    = 5000
	defaultResultLimit      = 20
	defaultHospitalCacheTTL = 60 * 10
	defaultReverseCacheTTL  = 60 * 60 * 24 * 30
	defaultHTTPTimeout      = 8 * time.Second
)

// GeoapifyProvider implements the GeolocationProvider using the Geoapify
// Places, Reverse Geocoding and IP Geolocation APIs.
type GeoapifyProvider struct {
	apiKey        string
	baseURL       string
	searchRadiusM int
	resultLimit   int
	httpClient    *http.Client
	cache         providers.CacheProvider
}

// NewGeoapifyProvider creates a new Geoapify provider. cache may be nil.
func NewGeoapifyProvider(cfg config.GeoapifyConfig, cache providers.CacheProvider) *GeoapifyProvider {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return NewGeoapifyProviderWithOptions(cfg, cache, &http.Client{Timeout: timeout})
}

// NewGeoapifyProviderWithOptions allows overriding the HTTP client (used for tests).
func NewGeoapifyProviderWithOptions(cfg config.GeoapifyConfig, cache providers.CacheProvider, httpClient *http.Client) *GeoapifyProvider {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	radius := cfg.SearchRadiusM
	if radius <= 0 {
		radius = defaultSearchRadiusM
	}
	limit := cfg.ResultLimit
	if limit <= 0 {
		limit = defaultResultLimit
	}
	return &GeoapifyProvider{
		apiKey:        cfg.APIKey,
		baseURL:       baseURL,
		searchRadiusM: radius,
		resultLimit:   limit,
		httpClient:    httpClient,
		cache:         cache,
	}
}

// NearbyHospitals searches hospitals inside the configured radius of center.
func (g *GeoapifyProvider) NearbyHospitals(ctx context.Context, center geo.Coordinate) (*geo.FeatureCollection, error) {
	cacheKey := "geo:v1:hospitals:" + hashKey(fmt.Sprintf("%.4f,%.4f,%d,%d", center.Latitude, center.Longitude, g.searchRadiusM, g.resultLimit))
	var cached geo.FeatureCollection
	if g.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	lon := strconv.FormatFloat(center.Longitude, 'f', -1, 64)
	lat := strconv.FormatFloat(center.Latitude, 'f', -1, 64)
	params := url.Values{}
	params.Set("categories", hospitalCategory)
	params.Set("filter", fmt.Sprintf("circle:%s,%s,%d", lon, lat, g.searchRadiusM))
	params.Set("bias", fmt.Sprintf("proximity:%s,%s", lon, lat))
	params.Set("limit", strconv.Itoa(g.resultLimit))

	var payload geoapifyPlacesResponse
	if err := g.get(ctx, "/v2/places", params, &payload); err != nil {
		return nil, err
	}

	collection := &geo.FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geo.Feature, 0, len(payload.Features)),
	}
	for _, f := range payload.Features {
		collection.Features = append(collection.Features, f.toFeature())
	}

	g.writeCache(ctx, cacheKey, collection, defaultHospitalCacheTTL)
	return collection, nil
}

// ReverseGeocode converts coordinates to an address.
func (g *GeoapifyProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.Address, error) {
	cacheKey := "geo:v1:reverse:" + hashKey(fmt.Sprintf("%.5f,%.5f", lat, lon))
	var cached providers.Address
	if g.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	var payload geoapifyReverseResponse
	if err := g.get(ctx, "/v1/geocode/reverse", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, apperrors.NewNotFoundError("no results for coordinates")
	}

	result := payload.Results[0]
	address := providers.Address{
		Suburb:    result.Suburb,
		City:      result.City,
		Town:      result.Town,
		Village:   result.Village,
		State:     result.State,
		Country:   result.Country,
		Formatted: result.Formatted,
	}

	g.writeCache(ctx, cacheKey, address, defaultReverseCacheTTL)
	return &address, nil
}

// LocateIP estimates the position of ip. Private or empty addresses are left
// for the provider to resolve from the request origin.
func (g *GeoapifyProvider) LocateIP(ctx context.Context, ip string) (*providers.IPLocation, error) {
	params := url.Values{}
	if parsed := net.ParseIP(strings.TrimSpace(ip)); parsed != nil && !parsed.IsPrivate() && !parsed.IsLoopback() {
		params.Set("ip", parsed.String())
	}

	var payload geoapifyIPInfoResponse
	if err := g.get(ctx, "/v1/ipinfo", params, &payload); err != nil {
		return nil, err
	}
	if payload.Location == nil {
		return nil, apperrors.NewExternalError("ip lookup returned no location", nil)
	}

	return &providers.IPLocation{
		IP: payload.IP,
		Coordinate: geo.Coordinate{
			Latitude:  payload.Location.Latitude,
			Longitude: payload.Location.Longitude,
		},
		City:    payload.City.Name,
		Country: payload.Country.Name,
	}, nil
}

func (g *GeoapifyProvider) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if g.apiKey == "" {
		return apperrors.NewInternalError("geoapify api key is required", nil)
	}

	params.Set("apiKey", g.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build geoapify request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("geoapify request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewExternalError(fmt.Sprintf("geoapify %s returned status %d", path, resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError("failed to decode geoapify response", err)
	}
	return nil
}

func (g *GeoapifyProvider) readCache(ctx context.Context, key string, out interface{}) bool {
	if g.cache == nil {
		return false
	}
	cached, err := g.cache.Get(ctx, key)
	if err != nil || len(cached) == 0 {
		return false
	}
	if err := json.Unmarshal(cached, out); err != nil {
		observability.LoggerFromContext(ctx).Debug().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}
	return true
}

func (g *GeoapifyProvider) writeCache(ctx context.Context, key string, value interface{}, ttlSeconds int) {
	if g.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, key, payload, ttlSeconds); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache geoapify response")
	}
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type geoapifyPlacesResponse struct {
	Features []geoapifyPlace `json:"features"`
}

type geoapifyPlace struct {
	Properties geoapifyPlaceProperties `json:"properties"`
	Geometry   geo.Geometry            `json:"geometry"`
}

type geoapifyPlaceProperties struct {
	Name        string          `json:"name"`
	Street      string          `json:"street"`
	HouseNumber string          `json:"housenumber"`
	City        string          `json:"city"`
	Postcode    string          `json:"postcode"`
	Website     string          `json:"website"`
	Phone       string          `json:"phone"`
	Contact     geoapifyContact `json:"contact"`
	Distance    float64         `json:"distance"`
	Lat         float64         `json:"lat"`
	Lon         float64         `json:"lon"`
}

type geoapifyContact struct {
	Phone string `json:"phone"`
}

func (p geoapifyPlace) toFeature() geo.Feature {
	phone := p.Properties.Phone
	if phone == "" {
		phone = p.Properties.Contact.Phone
	}
	geometry := p.Geometry
	if len(geometry.Coordinates) < 2 {
		geometry = geo.PointGeometry(geo.Coordinate{Latitude: p.Properties.Lat, Longitude: p.Properties.Lon})
	}
	return geo.Feature{
		Type: "Feature",
		Properties: geo.FeatureProperties{
			Name:        p.Properties.Name,
			Street:      p.Properties.Street,
			HouseNumber: p.Properties.HouseNumber,
			City:        p.Properties.City,
			Postcode:    p.Properties.Postcode,
			Website:     p.Properties.Website,
			Phone:       phone,
			Distance:    p.Properties.Distance,
		},
		Geometry: geometry,
	}
}

type geoapifyReverseResponse struct {
	Results []geoapifyReverseResult `json:"results"`
}

type geoapifyReverseResult struct {
	Suburb    string `json:"suburb"`
	City      string `json:"city"`
	Town      string `json:"town"`
	Village   string `json:"village"`
	State     string `json:"state"`
	Country   string `json:"country"`
	Formatted string `json:"formatted"`
}

type geoapifyIPInfoResponse struct {
	IP       string            `json:"ip"`
	City     geoapifyNamed     `json:"city"`
	Country  geoapifyNamed     `json:"country"`
	Location *geoapifyLocation `json:"location"`
}

type geoapifyNamed struct {
	Name string `json:"name"`
}

type geoapifyLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
