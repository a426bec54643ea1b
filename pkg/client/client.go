// Package client talks to the Arogya Vritti backend geo endpoints.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/pkg/geo"
)

const (
	healthPath         = "/api/health"
	hospitalsPath      = "/api/geoapify/hospitals"
	ipLocationPath     = "/api/geoapify/ip-location"
	reverseGeocodePath = "/api/geoapify/reverse-geocode"
	locationsPath      = "/api/locations"

	defaultTimeout = 10 * time.Second
	probeTimeout   = 3 * time.Second
	maxErrorBody   = 4 << 10
)

// Config configures a Client.
type Config struct {
	// BackendURLs are candidate base URLs probed in order by Init.
	BackendURLs []string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client issues single-shot requests to the backend. It has no retries and
// no caching; Init must run once before any request.
type Client struct {
	candidates []string
	httpClient *http.Client

	initOnce sync.Once
	mu       sync.RWMutex
	baseURL  string
}

// New creates a client. At least one backend URL is required.
func New(cfg Config) (*Client, error) {
	candidates := make([]string, 0, len(cfg.BackendURLs))
	for _, u := range cfg.BackendURLs {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("at least one backend URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{candidates: candidates, httpClient: httpClient}, nil
}

// Init probes the candidate URLs in order and pins the first one whose health
// check answers 2xx. When none does, the first candidate is used. Only the
// first call probes; later calls return immediately.
func (c *Client) Init(ctx context.Context) string {
	c.initOnce.Do(func() {
		chosen := c.candidates[0]
		for _, candidate := range c.candidates {
			if c.healthy(ctx, candidate) {
				chosen = candidate
				break
			}
		}
		c.mu.Lock()
		c.baseURL = chosen
		c.mu.Unlock()
	})
	return c.BaseURL()
}

// BaseURL returns the pinned backend URL, or "" before Init.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

func (c *Client) healthy(ctx context.Context, base string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+healthPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Hospitals fetches hospitals around center and normalizes them. Missing
// text fields become "" and a missing name becomes "Unnamed Hospital".
func (c *Client) Hospitals(ctx context.Context, center geo.Coordinate) ([]entities.FacilityRecord, error) {
	var payload struct {
		Features *[]geo.Feature `json:"features"`
	}
	if err := c.getJSON(ctx, hospitalsPath, coordinateQuery(center), &payload); err != nil {
		return nil, err
	}
	if payload.Features == nil {
		return nil, ErrInvalidResponse
	}
	return entities.FacilityRecordsFromFeatures(*payload.Features), nil
}

// IPLocation asks the backend to estimate the caller's position.
func (c *Client) IPLocation(ctx context.Context) (geo.Coordinate, error) {
	var payload struct {
		Location *geo.Coordinate `json:"location"`
	}
	if err := c.getJSON(ctx, ipLocationPath, nil, &payload); err != nil {
		if ctx.Err() != nil {
			return geo.Coordinate{}, ctx.Err()
		}
		return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrIPLookupFailed, err)
	}
	if payload.Location == nil {
		return geo.Coordinate{}, ErrIPLocationMissing
	}
	return *payload.Location, nil
}

// ReverseGeocode resolves point to an address.
func (c *Client) ReverseGeocode(ctx context.Context, point geo.Coordinate) (*providers.Address, error) {
	var payload struct {
		Address *providers.Address `json:"address"`
	}
	if err := c.getJSON(ctx, reverseGeocodePath, coordinateQuery(point), &payload); err != nil {
		return nil, err
	}
	if payload.Address == nil {
		return nil, ErrInvalidResponse
	}
	return payload.Address, nil
}

// Locations fetches the preset search origins.
func (c *Client) Locations(ctx context.Context) ([]entities.NamedLocation, error) {
	var payload struct {
		Locations *[]entities.NamedLocation `json:"locations"`
	}
	if err := c.getJSON(ctx, locationsPath, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Locations == nil {
		return nil, ErrInvalidResponse
	}
	return *payload.Locations, nil
}

func coordinateQuery(c geo.Coordinate) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	return q
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	base := c.BaseURL()
	if base == "" {
		return ErrNotInitialized
	}

	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
