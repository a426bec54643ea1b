package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/pkg/config"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
	"github.com/arogyavritti/backend/pkg/geo"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func newTestProvider(t *testing.T, handler http.HandlerFunc, cache providers.CacheProvider) *GeoapifyProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := config.GeoapifyConfig{APIKey: "test-key", BaseURL: server.URL}
	return NewGeoapifyProviderWithOptions(cfg, cache, server.Client())
}

func TestGeoapifyProvider_NearbyHospitals(t *testing.T) {
	var calls int32
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v2/places", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "healthcare.hospital", q.Get("categories"))
		assert.Equal(t, "circle:77.209,28.6139,5000", q.Get("filter"))
		assert.Equal(t, "proximity:77.209,28.6139", q.Get("bias"))
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "test-key", q.Get("apiKey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{"name":"AIIMS","street":"Ansari Nagar","housenumber":"1","city":"New Delhi","postcode":"110029","contact":{"phone":"+91 11 2658 8500"},"distance":812},
			 "geometry":{"type":"Point","coordinates":[77.21,28.567]}},
			{"type":"Feature","properties":{"lat":28.62,"lon":77.2}}
		]}`))
	}, newMemoryCache())

	center := geo.Coordinate{Latitude: 28.6139, Longitude: 77.209}
	collection, err := provider.NearbyHospitals(context.Background(), center)
	require.NoError(t, err)
	require.Len(t, collection.Features, 2)

	first := collection.Features[0]
	assert.Equal(t, "AIIMS", first.Properties.Name)
	assert.Equal(t, "+91 11 2658 8500", first.Properties.Phone)
	assert.Equal(t, geo.Coordinate{Latitude: 28.567, Longitude: 77.21}, first.Geometry.Coordinate())

	second := collection.Features[1]
	assert.Equal(t, "", second.Properties.Name)
	assert.Equal(t, geo.Coordinate{Latitude: 28.62, Longitude: 77.2}, second.Geometry.Coordinate())

	_, err = provider.NearbyHospitals(context.Background(), center)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second lookup should be served from cache")
}

func TestGeoapifyProvider_ReverseGeocodeCachesForThirtyDays(t *testing.T) {
	cache := newMemoryCache()
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(`{"results":[{"suburb":"Hauz Khas","city":"New Delhi","state":"Delhi","country":"India"}]}`))
	}, cache)

	address, err := provider.ReverseGeocode(context.Background(), 28.55, 77.2)
	require.NoError(t, err)
	assert.Equal(t, "Hauz Khas", address.Label())

	require.Len(t, cache.ttls, 1)
	for _, ttl := range cache.ttls {
		assert.Equal(t, 60*60*24*30, ttl)
	}
}

func TestGeoapifyProvider_ReverseGeocodeNoResults(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}, nil)

	_, err := provider.ReverseGeocode(context.Background(), 0, 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestGeoapifyProvider_LocateIP(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ipinfo", r.URL.Path)
		assert.Equal(t, "8.8.8.8", r.URL.Query().Get("ip"))
		_, _ = w.Write([]byte(`{"ip":"8.8.8.8","city":{"name":"Mumbai"},"country":{"name":"India"},"location":{"latitude":19.076,"longitude":72.8777}}`))
	}, nil)

	loc, err := provider.LocateIP(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, geo.Coordinate{Latitude: 19.076, Longitude: 72.8777}, loc.Coordinate)
	assert.Equal(t, "Mumbai", loc.City)
}

func TestGeoapifyProvider_LocateIPOmitsPrivateAddress(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("ip"))
		_, _ = w.Write([]byte(`{"location":{"latitude":1,"longitude":2}}`))
	}, nil)

	_, err := provider.LocateIP(context.Background(), "192.168.1.10")
	require.NoError(t, err)
}

func TestGeoapifyProvider_UpstreamErrorIsExternal(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, nil)

	_, err := provider.NearbyHospitals(context.Background(), geo.Coordinate{Latitude: 1, Longitude: 1})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestGeoapifyProvider_RequiresAPIKey(t *testing.T) {
	provider := NewGeoapifyProviderWithOptions(config.GeoapifyConfig{}, nil, nil)

	_, err := provider.NearbyHospitals(context.Background(), geo.Coordinate{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestMockGeolocationProvider_IsDeterministic(t *testing.T) {
	mock := NewMockGeolocationProvider()
	center := geo.Coordinate{Latitude: 12.9716, Longitude: 77.5946}

	a, err := mock.NearbyHospitals(context.Background(), center)
	require.NoError(t, err)
	b, err := mock.NearbyHospitals(context.Background(), center)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a.Features)
}
