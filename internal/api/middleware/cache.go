package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware provides HTTP response caching
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
	metrics      *observability.Metrics
}

// DefaultCacheRoutes caches the read-only lookup endpoints. Hospital searches
// stay short so newly listed facilities appear quickly.
func DefaultCacheRoutes() map[string]CacheConfig {
	return map[string]CacheConfig{
		"/api/geoapify/hospitals":       {TTLSeconds: 300, Enabled: true},
		"/api/geoapify/reverse-geocode": {TTLSeconds: 86400, Enabled: true},
		"/api/hospitals/nearby":         {TTLSeconds: 300, Enabled: true},
		"/api/locations":                {TTLSeconds: 3600, Enabled: true},
		"/api/departments":              {TTLSeconds: 3600, Enabled: true},
	}
}

// NewCacheMiddleware creates a new cache middleware. metrics may be nil.
func NewCacheMiddleware(cache providers.CacheProvider, metrics *observability.Metrics) *CacheMiddleware {
	return NewCacheMiddlewareWithConfig(cache, metrics, DefaultCacheRoutes())
}

// NewCacheMiddlewareWithConfig creates a cache middleware with custom routes
func NewCacheMiddlewareWithConfig(cache providers.CacheProvider, metrics *observability.Metrics, configs map[string]CacheConfig) *CacheMiddleware {
	return &CacheMiddleware{
		cache:        cache,
		routeConfigs: configs,
		metrics:      metrics,
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		logger := observability.LoggerFromContext(ctx)
		cacheKey := m.generateCacheKey(r)

		if cached, err := m.cache.Get(ctx, cacheKey); err == nil {
			logger.Debug().Str("key", cacheKey).Msg("Cache HIT")
			observability.RecordCacheHit(ctx, m.metrics, r.URL.Path)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		logger.Debug().Str("key", cacheKey).Msg("Cache MISS")
		observability.RecordCacheMiss(ctx, m.metrics, r.URL.Path)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		// Only cache successful responses
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(ctx, cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				logger.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache response")
			}
		}
	})
}

// getRouteConfig gets the cache configuration for a route
func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	if config, exists := m.routeConfigs[path]; exists {
		return config
	}

	// Prefix match for patterns ending in "/"
	for pattern, config := range m.routeConfigs {
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) {
			return config
		}
	}

	return CacheConfig{Enabled: false}
}

// generateCacheKey generates a cache key from the request
func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	key := fmt.Sprintf("%s:%s", r.Method, r.URL.Path)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.Query().Encode()
	}

	hash := sha256.Sum256([]byte(key))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
