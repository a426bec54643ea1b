package emergency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/pkg/client"
	"github.com/arogyavritti/backend/pkg/geo"
)

var delhi = geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090}

func receive(t *testing.T, updates <-chan Update) Update {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func TestDefaultWatchOptions(t *testing.T) {
	opts := DefaultWatchOptions()
	assert.True(t, opts.HighAccuracy)
	assert.Zero(t, opts.MaximumAge)
	assert.Equal(t, 5*time.Second, opts.Timeout)
}

func TestResolver_EmitsEverySensorFix(t *testing.T) {
	sensor := newFakeSensor()
	backend := &fakeBackend{}
	r := NewResolver(sensor, backend, DefaultWatchOptions())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := make(chan Update)
	go r.Run(ctx, updates)

	second := geo.Coordinate{Latitude: 28.62, Longitude: 77.21}
	sensor.fixes <- Fix{Coordinate: delhi}
	sensor.fixes <- Fix{Coordinate: second}

	first := receive(t, updates)
	require.NoError(t, first.Err)
	assert.Equal(t, Position{Coordinate: delhi}, first.Position)
	assert.Equal(t, Position{Coordinate: second}, receive(t, updates).Position)
	assert.Zero(t, backend.ipCallCount())
}

func TestResolver_FallsBackToIP(t *testing.T) {
	bangalore := geo.Coordinate{Latitude: 12.97, Longitude: 77.59}

	cases := []struct {
		name   string
		sensor func() Sensor
		opts   WatchOptions
	}{
		{name: "no sensor", sensor: func() Sensor { return nil }, opts: DefaultWatchOptions()},
		{name: "sensor unavailable", sensor: func() Sensor { return &fakeSensor{err: ErrSensorUnavailable} }, opts: DefaultWatchOptions()},
		{name: "permission denied", sensor: func() Sensor {
			s := newFakeSensor()
			s.fixes <- Fix{Err: errors.New("permission denied")}
			return s
		}, opts: DefaultWatchOptions()},
		{name: "sensor closed without a fix", sensor: func() Sensor { return closedSensor{} }, opts: DefaultWatchOptions()},
		{name: "first fix timeout", sensor: func() Sensor { return newFakeSensor() }, opts: WatchOptions{HighAccuracy: true, Timeout: 20 * time.Millisecond}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{ipLocate: func(context.Context) (geo.Coordinate, error) { return bangalore, nil }}
			r := NewResolver(tc.sensor(), backend, tc.opts)

			updates := make(chan Update, 1)
			r.Run(context.Background(), updates)

			u := receive(t, updates)
			require.NoError(t, u.Err)
			assert.Equal(t, Position{Coordinate: bangalore, Approximate: true}, u.Position)
			assert.Equal(t, 1, backend.ipCallCount())
		})
	}
}

func TestResolver_ErrorAfterFixKeepsWatching(t *testing.T) {
	sensor := newFakeSensor()
	backend := &fakeBackend{}
	r := NewResolver(sensor, backend, DefaultWatchOptions())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := make(chan Update)
	go r.Run(ctx, updates)

	moved := geo.Coordinate{Latitude: 28.65, Longitude: 77.25}
	sensor.fixes <- Fix{Coordinate: delhi}
	sensor.fixes <- Fix{Err: errors.New("position unavailable")}
	sensor.fixes <- Fix{Coordinate: moved}

	assert.Equal(t, Position{Coordinate: delhi}, receive(t, updates).Position)
	next := receive(t, updates)
	require.NoError(t, next.Err)
	assert.Equal(t, Position{Coordinate: moved}, next.Position)
	assert.Zero(t, backend.ipCallCount())
}

func TestResolver_IPFallbackFailureIsTerminal(t *testing.T) {
	backend := &fakeBackend{ipLocate: func(context.Context) (geo.Coordinate, error) {
		return geo.Coordinate{}, client.ErrIPLocationMissing
	}}
	r := NewResolver(&fakeSensor{err: ErrSensorUnavailable}, backend, DefaultWatchOptions())

	updates := make(chan Update, 1)
	r.Run(context.Background(), updates)

	u := receive(t, updates)
	assert.ErrorIs(t, u.Err, client.ErrIPLocationMissing)
	assert.Equal(t, 1, backend.ipCallCount())
}

func TestResolver_StopsOnCancel(t *testing.T) {
	r := NewResolver(newFakeSensor(), &fakeBackend{}, DefaultWatchOptions())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, make(chan Update))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("resolver did not stop")
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		name string
		addr *providers.Address
		err  error
		want string
	}{
		{name: "suburb wins", addr: &providers.Address{Suburb: "Connaught Place", City: "New Delhi"}, want: "Connaught Place"},
		{name: "city before state", addr: &providers.Address{City: "Pune", State: "Maharashtra"}, want: "Pune"},
		{name: "village", addr: &providers.Address{Village: "Rampur", State: "UP"}, want: "Rampur"},
		{name: "empty address", addr: &providers.Address{}, want: UnknownLocation},
		{name: "lookup error", err: errors.New("boom"), want: UnknownLocation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{reverse: func(context.Context, geo.Coordinate) (*providers.Address, error) {
				return tc.addr, tc.err
			}}
			assert.Equal(t, tc.want, Label(context.Background(), backend, delhi))
		})
	}
}
