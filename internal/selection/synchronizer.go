package selection

import (
	"strings"
	"sync"

	"epd-map-api/internal/models"
)

// State is the search/selection state machine position.
type State string

const (
	StateIdle         State = "idle"
	StateTyping       State = "typing"
	StateResultsShown State = "results_shown"
	StateNoResults    State = "no_results"
	StateSelected     State = "selected"
)

// DefaultSearchLimit bounds the search dropdown.
const DefaultSearchLimit = 10

// Filters are the structural filter values driven by the UI controls.
type Filters struct {
	Country         string           `json:"country"`
	Category        string           `json:"category"`
	YearRange       models.YearRange `json:"year_range"`
	DeclarationOnly bool             `json:"declaration_only"`
}

// DefaultFilters filter nothing.
func DefaultFilters() Filters {
	return Filters{YearRange: models.AllYearRange}
}

func (f Filters) criteria() models.FilterCriteria {
	return models.FilterCriteria{
		Country:         f.Country,
		YearRange:       f.YearRange,
		Category:        f.Category,
		DeclarationOnly: f.DeclarationOnly,
	}
}

// tracked reports whether the values that drive the restore-on-clear rule differ.
func (f Filters) tracked(other Filters) bool {
	return f.Country != other.Country ||
		f.Category != other.Category ||
		f.DeclarationOnly != other.DeclarationOnly
}

// Searcher runs the dropdown search.
type Searcher interface {
	Search(query string, locations []models.Location, limit int) []models.SearchHit
}

// Snapshot is a copy of the synchronizer state.
type Snapshot struct {
	State    State              `json:"state"`
	Query    string             `json:"query"`
	Selected *models.Location   `json:"selected,omitempty"`
	Filters  Filters            `json:"filters"`
	Results  []models.SearchHit `json:"results"`
}

// Synchronizer keeps the query, the selected entity and the structural
// filters consistent with each other. It is safe for concurrent use.
type Synchronizer struct {
	mu       sync.Mutex
	searcher Searcher
	limit    int
	catalog  []models.Location

	state    State
	query    string
	selected *models.Location
	filters  Filters
	results  []models.SearchHit

	// baseline is captured on the first keystroke of a query and released on clear.
	baseline *Filters
	changed  bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithSearchLimit bounds the number of search results kept.
func WithSearchLimit(n int) Option {
	return func(s *Synchronizer) {
		s.limit = n
	}
}

// WithFilters sets the initial structural filters.
func WithFilters(f Filters) Option {
	return func(s *Synchronizer) {
		s.filters = f
	}
}

// NewSynchronizer creates an idle synchronizer searching catalog.
func NewSynchronizer(searcher Searcher, catalog []models.Location, opts ...Option) *Synchronizer {
	if searcher == nil {
		panic("selection: nil searcher")
	}
	s := &Synchronizer{
		searcher: searcher,
		limit:    DefaultSearchLimit,
		catalog:  catalog,
		state:    StateIdle,
		filters:  DefaultFilters(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach subscribes the synchronizer to bus.
func (s *Synchronizer) Attach(bus *Bus) (detach func()) {
	return bus.Subscribe(s.Handle)
}

// SetQuery records a keystroke. A non-empty query drops the selection; the
// first keystroke also captures the filter baseline and lifts the
// declaration-only toggle if structural filters were active. An empty query
// behaves like ClearQuery.
func (s *Synchronizer) SetQuery(q string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(q) == "" {
		s.clearLocked(true)
		return s.snapshotLocked()
	}

	started := s.query == ""
	s.armLocked()
	if started && s.filters.criteria().StructuralActive() && s.filters.DeclarationOnly {
		s.filters.DeclarationOnly = false
		s.changed = true
	}

	s.query = q
	s.selected = nil
	s.results = nil
	s.state = StateTyping
	return s.snapshotLocked()
}

// Search resolves the current query into results.
func (s *Synchronizer) Search() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.query == "" {
		return s.snapshotLocked()
	}
	s.results = s.searcher.Search(s.query, s.catalog, s.limit)
	if s.state != StateSelected {
		if len(s.results) > 0 {
			s.state = StateResultsShown
		} else {
			s.state = StateNoResults
		}
	}
	return s.snapshotLocked()
}

// Select picks loc. The query mirrors its name; filters are left alone.
func (s *Synchronizer) Select(loc models.Location) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.armLocked()
	selected := loc
	s.selected = &selected
	s.query = loc.ProductName
	s.results = s.searcher.Search(s.query, s.catalog, s.limit)
	s.state = StateSelected
	return s.snapshotLocked()
}

// ClearQuery clears the query and the selection, restoring the baseline
// filters if a tracked filter changed while the query was active.
func (s *Synchronizer) ClearQuery() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked(true)
	return s.snapshotLocked()
}

// SetFilters replaces the structural filters.
func (s *Synchronizer) SetFilters(f Filters) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setFiltersLocked(f)
	return s.snapshotLocked()
}

// Handle applies a reset message.
func (s *Synchronizer) Handle(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.(type) {
	case FiltersReset:
		s.setFiltersLocked(DefaultFilters())
	case SearchCleared:
		s.clearLocked(true)
	case AllMarkersRequested:
		s.clearLocked(false)
		s.filters = DefaultFilters()
	}
}

// Criteria builds a fresh FilterCriteria from the current state.
func (s *Synchronizer) Criteria() models.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.filters.criteria()
	if s.query != "" && len(s.results) > 0 {
		c.ActiveSearchResults = make([]models.Location, len(s.results))
		for i, hit := range s.results {
			c.ActiveSearchResults[i] = hit.Location
		}
	}
	return c
}

// Snapshot returns a copy of the current state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Synchronizer) armLocked() {
	if s.baseline != nil {
		return
	}
	b := s.filters
	s.baseline = &b
	s.changed = false
}

func (s *Synchronizer) setFiltersLocked(f Filters) {
	if s.query != "" && s.filters.tracked(f) {
		s.changed = true
	}
	s.filters = f
}

func (s *Synchronizer) clearLocked(restore bool) {
	if restore && s.baseline != nil && s.changed {
		s.filters = *s.baseline
	}
	s.baseline = nil
	s.changed = false
	s.query = ""
	s.selected = nil
	s.results = nil
	s.state = StateIdle
}

func (s *Synchronizer) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:   s.state,
		Query:   s.query,
		Filters: s.filters,
		Results: make([]models.SearchHit, len(s.results)),
	}
	copy(snap.Results, s.results)
	if s.selected != nil {
		sel := *s.selected
		snap.Selected = &sel
	}
	return snap
}
