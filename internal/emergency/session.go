package emergency

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arogyavritti/backend/internal/application/services"
	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	"github.com/arogyavritti/backend/pkg/client"
	"github.com/arogyavritti/backend/pkg/geo"
)

// State is the displayed result of a session.
type State struct {
	Origin      geo.Coordinate
	HasOrigin   bool
	Label       string
	Approximate bool
	// Preset is the name of the selected preset origin, empty for live positions.
	Preset     string
	Facilities []entities.Facility
	Loading    bool
	// Err is user facing text for the last failure, empty when none.
	Err string
}

// Session runs the lookup flow for one patient. Every new origin starts a
// generation; responses that belong to an older generation are dropped.
type Session struct {
	backend  Backend
	resolver *Resolver
	observer func(State)

	mu         sync.Mutex
	generation uint64
	state      State
	closed     bool
	cancel     context.CancelFunc
	// watch identifies the live subscription allowed to move the origin
	watch uint64
	wg    sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithObserver registers fn to receive a copy of the state after every change.
func WithObserver(fn func(State)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// WithWatchOptions overrides the sensor subscription options.
func WithWatchOptions(opts WatchOptions) Option {
	return func(s *Session) {
		s.resolver.opts = opts
	}
}

// NewSession creates a session. sensor may be nil when the device has none.
func NewSession(backend Backend, sensor Sensor, opts ...Option) *Session {
	s := &Session{
		backend:  backend,
		resolver: NewResolver(sensor, backend, DefaultWatchOptions()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start resolves the patient's position in the background. Each resolved
// position triggers one hospital query and one reverse geocode. Start is a
// no-op while a subscription is running; after SelectPreset it resumes
// following the live position.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.watch++
	watch := s.watch
	s.state.Loading = true
	s.mu.Unlock()

	updates := make(chan Update)
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		defer close(updates)
		s.resolver.Run(ctx, updates)
	}()
	go func() {
		defer s.wg.Done()
		for u := range updates {
			s.handle(ctx, watch, u)
		}
	}()
}

func (s *Session) handle(ctx context.Context, watch uint64, u Update) {
	if u.Err != nil {
		s.advanceFrom(watch, func(st *State) {
			st.Loading = false
			st.Err = client.UserMessage(u.Err)
		})
		return
	}

	pos := u.Position
	gen, ok := s.advanceFrom(watch, func(st *State) {
		st.Origin = pos.Coordinate
		st.HasOrigin = true
		st.Approximate = pos.Approximate
		st.Preset = ""
		st.Label = ""
		st.Loading = true
		st.Err = ""
	})
	if !ok {
		return
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.queryFacilities(ctx, gen, pos.Coordinate)
	}()
	go func() {
		defer s.wg.Done()
		label := Label(ctx, s.backend, pos.Coordinate)
		s.apply(gen, func(st *State) {
			st.Label = label
		})
	}()
}

// SelectPreset stops following the live position and ranks hospitals around
// the named preset. It issues exactly one hospital query and blocks until the
// result has been applied or discarded.
func (s *Session) SelectPreset(ctx context.Context, name string) error {
	loc, found := entities.FindPresetLocation(name)
	if !found {
		return fmt.Errorf("unknown preset location %q", name)
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.watch++
	s.mu.Unlock()

	gen, ok := s.advance(func(st *State) {
		st.Origin = loc.Coordinate
		st.HasOrigin = true
		st.Approximate = false
		st.Preset = loc.Name
		st.Label = loc.Name
		st.Loading = true
		st.Err = ""
	})
	if !ok {
		return errors.New("session closed")
	}

	s.queryFacilities(ctx, gen, loc.Coordinate)
	return nil
}

func (s *Session) queryFacilities(ctx context.Context, gen uint64, origin geo.Coordinate) {
	records, err := s.backend.Hospitals(ctx, origin)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("origin", origin.String()).Msg("Hospital query failed")
		s.apply(gen, func(st *State) {
			st.Loading = false
			st.Facilities = nil
			st.Err = client.UserMessage(err)
		})
		return
	}

	ranked := services.RankByDistance(origin, records)
	s.apply(gen, func(st *State) {
		st.Loading = false
		st.Facilities = ranked
		st.Err = ""
	})
}

// advance starts a new generation and applies fn to the state.
func (s *Session) advance(fn func(*State)) (uint64, bool) {
	return s.advanceFrom(0, fn)
}

// advanceFrom is advance for updates of a live subscription; it refuses
// updates from a subscription that has since been stopped. watch 0 always
// passes.
func (s *Session) advanceFrom(watch uint64, fn func(*State)) (uint64, bool) {
	s.mu.Lock()
	if s.closed || (watch != 0 && watch != s.watch) {
		s.mu.Unlock()
		return 0, false
	}
	s.generation++
	fn(&s.state)
	gen, snapshot := s.generation, s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return gen, true
}

// apply changes the state only while gen is still current.
func (s *Session) apply(gen uint64, fn func(*State)) bool {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return false
	}
	fn(&s.state)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

func (s *Session) notify(st State) {
	if s.observer != nil {
		s.observer(st)
	}
}

func (s *Session) snapshotLocked() State {
	st := s.state
	if s.state.Facilities != nil {
		st.Facilities = append([]entities.Facility(nil), s.state.Facilities...)
	}
	return st
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels the location subscription and waits for in-flight work.
// No state changes are applied after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
