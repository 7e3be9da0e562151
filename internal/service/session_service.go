package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"epd-map-api/internal/models"
	"epd-map-api/internal/selection"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids
	ErrSessionNotFound = errors.New("service: session not found")
	// ErrLocationNotFound is returned when a selection names an unknown location
	ErrLocationNotFound = errors.New("service: location not found")
)

// DefaultSessionTTL is how long an untouched session is kept
const DefaultSessionTTL = 30 * time.Minute

// LocationSource loads and places catalog locations for sessions
type LocationSource interface {
	Locations(ctx context.Context) ([]models.Location, error)
	Place(locations []models.Location, criteria models.FilterCriteria) models.FilterResult
}

type session struct {
	sync     *selection.Synchronizer
	bus      *selection.Bus
	catalog  []models.Location
	lastSeen time.Time
}

// SessionService keeps one search/selection synchronizer per client session
type SessionService struct {
	source      LocationSource
	searcher    selection.Searcher
	searchLimit int
	ttl         time.Duration
	now         func() time.Time
	onResize    func(int)

	mu       sync.Mutex
	sessions map[string]*session
}

// SessionOption configures a SessionService
type SessionOption func(*SessionService)

// WithSessionTTL overrides DefaultSessionTTL
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *SessionService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) {
		s.now = now
	}
}

// WithSizeReporter is called with the session count whenever it changes
func WithSizeReporter(fn func(int)) SessionOption {
	return func(s *SessionService) {
		s.onResize = fn
	}
}

// NewSessionService creates a new session service
func NewSessionService(source LocationSource, searcher selection.Searcher, searchLimit int, opts ...SessionOption) *SessionService {
	s := &SessionService{
		source:      source,
		searcher:    searcher,
		searchLimit: searchLimit,
		ttl:         DefaultSessionTTL,
		now:         time.Now,
		onResize:    func(int) {},
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a session over a snapshot of the current catalogs
func (s *SessionService) Create(ctx context.Context) (string, selection.Snapshot, error) {
	catalog, err := s.source.Locations(ctx)
	if err != nil {
		return "", selection.Snapshot{}, fmt.Errorf("service: failed to load session catalog: %w", err)
	}

	sess := &session{
		sync:     selection.NewSynchronizer(s.searcher, catalog, selection.WithSearchLimit(s.searchLimit)),
		bus:      selection.NewBus(),
		catalog:  catalog,
		lastSeen: s.now(),
	}
	sess.sync.Attach(sess.bus)

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = sess
	size := len(s.sessions)
	s.mu.Unlock()
	s.onResize(size)

	log.Debug().Str("session", id).Int("catalog", len(catalog)).Msg("session created")
	return id, sess.sync.Snapshot(), nil
}

// Get returns the session state
func (s *SessionService) Get(id string) (selection.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return selection.Snapshot{}, err
	}
	return sess.sync.Snapshot(), nil
}

// Type records a query keystroke and resolves its search results
func (s *SessionService) Type(id, query string) (selection.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return selection.Snapshot{}, err
	}
	if snap := sess.sync.SetQuery(query); snap.State == selection.StateIdle {
		return snap, nil
	}
	return sess.sync.Search(), nil
}

// ClearQuery clears the session query and selection
func (s *SessionService) ClearQuery(id string) (selection.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return selection.Snapshot{}, err
	}
	return sess.sync.ClearQuery(), nil
}

// Select picks the catalog location with the given id
func (s *SessionService) Select(id, locationID string) (selection.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return selection.Snapshot{}, err
	}
	for _, loc := range sess.catalog {
		if loc.ID == locationID {
			return sess.sync.Select(loc), nil
		}
	}
	return selection.Snapshot{}, fmt.Errorf("%w: %q", ErrLocationNotFound, locationID)
}

// SetFilters replaces the session's structural filters
func (s *SessionService) SetFilters(id string, f selection.Filters) (selection.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return selection.Snapshot{}, err
	}
	return sess.sync.SetFilters(f), nil
}

// Publish broadcasts a reset message on the session bus
func (s *SessionService) Publish(id string, msg selection.Message) (selection.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return selection.Snapshot{}, err
	}
	sess.bus.Publish(msg)
	return sess.sync.Snapshot(), nil
}

// Markers filters and places the session catalog with the session's criteria
func (s *SessionService) Markers(id string) (models.FilterResult, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return models.FilterResult{}, err
	}
	return s.source.Place(sess.catalog, sess.sync.Criteria()), nil
}

// Delete removes a session
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	size := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.onResize(size)
	return nil
}

// Sweep evicts sessions idle for longer than the TTL and returns how many were removed
func (s *SessionService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	size := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.onResize(size)
		log.Debug().Int("removed", removed).Int("active", size).Msg("expired sessions swept")
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done
func (s *SessionService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *SessionService) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		s.onResize(len(s.sessions))
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess, nil
}
