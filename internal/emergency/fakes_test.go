package emergency

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/pkg/geo"
)

type fakeBackend struct {
	mu            sync.Mutex
	hospitalCalls []geo.Coordinate
	ipCalls       int

	hospitals func(ctx context.Context, center geo.Coordinate) ([]entities.FacilityRecord, error)
	ipLocate  func(ctx context.Context) (geo.Coordinate, error)
	reverse   func(ctx context.Context, point geo.Coordinate) (*providers.Address, error)
}

func (f *fakeBackend) Hospitals(ctx context.Context, center geo.Coordinate) ([]entities.FacilityRecord, error) {
	f.mu.Lock()
	f.hospitalCalls = append(f.hospitalCalls, center)
	f.mu.Unlock()
	if f.hospitals == nil {
		return []entities.FacilityRecord{}, nil
	}
	return f.hospitals(ctx, center)
}

func (f *fakeBackend) IPLocation(ctx context.Context) (geo.Coordinate, error) {
	f.mu.Lock()
	f.ipCalls++
	f.mu.Unlock()
	if f.ipLocate == nil {
		return geo.Coordinate{}, nil
	}
	return f.ipLocate(ctx)
}

func (f *fakeBackend) ReverseGeocode(ctx context.Context, point geo.Coordinate) (*providers.Address, error) {
	if f.reverse == nil {
		return &providers.Address{}, nil
	}
	return f.reverse(ctx, point)
}

func (f *fakeBackend) callsTo(center geo.Coordinate) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.hospitalCalls {
		if c == center {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ipCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ipCalls
}

// fakeSensor replays fixes from a channel the test controls.
type fakeSensor struct {
	err    error
	fixes  chan Fix
	active atomic.Int32
}

func newFakeSensor() *fakeSensor {
	return &fakeSensor{fixes: make(chan Fix, 8)}
}

func (s *fakeSensor) Watch(ctx context.Context, _ WatchOptions) (<-chan Fix, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(chan Fix)
	s.active.Add(1)
	go func() {
		defer s.active.Add(-1)
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case fix := <-s.fixes:
				select {
				case out <- fix:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// closedSensor reports no fixes at all: its channel is closed immediately.
type closedSensor struct{}

func (closedSensor) Watch(ctx context.Context, _ WatchOptions) (<-chan Fix, error) {
	out := make(chan Fix)
	close(out)
	return out, nil
}
