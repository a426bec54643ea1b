// Package emergency resolves the patient's position and keeps an up to date
// list of nearby hospitals ranked by distance.
package emergency

import (
	"context"
	"errors"
	"time"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	"github.com/arogyavritti/backend/pkg/geo"
)

// UnknownLocation is shown when the position cannot be named.
const UnknownLocation = "Unknown location"

// ErrSensorUnavailable is returned by sensors that cannot deliver positions.
var ErrSensorUnavailable = errors.New("geolocation sensor unavailable")

// Backend is the subset of the backend client used by the emergency flow.
type Backend interface {
	Hospitals(ctx context.Context, center geo.Coordinate) ([]entities.FacilityRecord, error)
	IPLocation(ctx context.Context) (geo.Coordinate, error)
	ReverseGeocode(ctx context.Context, point geo.Coordinate) (*providers.Address, error)
}

// WatchOptions tune a sensor subscription.
type WatchOptions struct {
	HighAccuracy bool
	// MaximumAge is the oldest cached fix the sensor may return. Zero forces
	// a fresh reading.
	MaximumAge time.Duration
	// Timeout bounds the wait for the first fix.
	Timeout time.Duration
}

// DefaultWatchOptions asks for fresh high accuracy fixes within five seconds.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{HighAccuracy: true, MaximumAge: 0, Timeout: 5 * time.Second}
}

// Fix is one sensor reading. A non-nil Err reports a failed reading such as a
// denied permission.
type Fix struct {
	Coordinate geo.Coordinate
	Err        error
}

// Sensor is a device position source. Watch delivers fixes until ctx is done
// and then closes the channel.
type Sensor interface {
	Watch(ctx context.Context, opts WatchOptions) (<-chan Fix, error)
}

// Position is a resolved origin. Approximate marks positions estimated from
// the network address instead of the device sensor.
type Position struct {
	Coordinate  geo.Coordinate
	Approximate bool
}

// Update is either a new Position or a terminal resolution error.
type Update struct {
	Position Position
	Err      error
}

// Resolver turns sensor fixes into positions and falls back to an IP lookup
// when the sensor is unavailable, denied or silent.
type Resolver struct {
	sensor  Sensor
	backend Backend
	opts    WatchOptions
}

// NewResolver creates a resolver. A nil sensor always uses the IP fallback.
func NewResolver(sensor Sensor, backend Backend, opts WatchOptions) *Resolver {
	return &Resolver{sensor: sensor, backend: backend, opts: opts}
}

// Run streams updates until ctx is done, the sensor stops, or the IP
// fallback has produced its single result. Each path is attempted once. A
// sensor that stops or fails before its first fix falls back to IP; errors
// after a fix are logged and the subscription continues.
func (r *Resolver) Run(ctx context.Context, updates chan<- Update) {
	logger := observability.LoggerFromContext(ctx)

	if r.sensor == nil {
		r.fallback(ctx, updates)
		return
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	fixes, err := r.sensor.Watch(watchCtx, r.opts)
	if err != nil {
		logger.Info().Err(err).Msg("Location sensor unavailable, using IP fallback")
		r.fallback(ctx, updates)
		return
	}

	var firstFix <-chan time.Time
	if r.opts.Timeout > 0 {
		timer := time.NewTimer(r.opts.Timeout)
		defer timer.Stop()
		firstFix = timer.C
	}

	delivered := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-firstFix:
			logger.Info().Dur("timeout", r.opts.Timeout).Msg("No location fix in time, using IP fallback")
			cancel()
			r.fallback(ctx, updates)
			return
		case fix, ok := <-fixes:
			if !ok {
				if !delivered && ctx.Err() == nil {
					logger.Info().Msg("Location sensor stopped without a fix, using IP fallback")
					r.fallback(ctx, updates)
				}
				return
			}
			if fix.Err != nil {
				if delivered {
					// keep the last live position and keep watching
					logger.Warn().Err(fix.Err).Msg("Location sensor error after a fix")
					continue
				}
				logger.Info().Err(fix.Err).Msg("Location sensor error, using IP fallback")
				cancel()
				r.fallback(ctx, updates)
				return
			}
			delivered = true
			firstFix = nil
			if !send(ctx, updates, Update{Position: Position{Coordinate: fix.Coordinate}}) {
				return
			}
		}
	}
}

func (r *Resolver) fallback(ctx context.Context, updates chan<- Update) {
	coord, err := r.backend.IPLocation(ctx)
	if err != nil {
		if ctx.Err() == nil {
			send(ctx, updates, Update{Err: err})
		}
		return
	}
	send(ctx, updates, Update{Position: Position{Coordinate: coord, Approximate: true}})
}

func send(ctx context.Context, updates chan<- Update, u Update) bool {
	select {
	case updates <- u:
		return true
	case <-ctx.Done():
		return false
	}
}

// Label names a position from its reverse geocoded address. Any failure
// yields UnknownLocation.
func Label(ctx context.Context, backend Backend, point geo.Coordinate) string {
	addr, err := backend.ReverseGeocode(ctx, point)
	if err != nil {
		observability.LoggerFromContext(ctx).Debug().Err(err).Msg("Reverse geocode failed")
		return UnknownLocation
	}
	if label := addr.Label(); label != "" {
		return label
	}
	return UnknownLocation
}
