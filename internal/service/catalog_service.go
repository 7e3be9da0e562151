package service

import (
	"context"
	"fmt"
	"time"

	"epd-map-api/internal/decluster"
	"epd-map-api/internal/filter"
	"epd-map-api/internal/matcher"
	"epd-map-api/internal/models"
	"epd-map-api/internal/normalizer"

	"github.com/rs/zerolog/log"
)

// CatalogRepository interface for dependency injection
type CatalogRepository interface {
	ListGeneralRecords(ctx context.Context) ([]models.RawGeneralRecord, error)
	ListDeclarationRecords(ctx context.Context) ([]models.RawDeclarationRecord, error)
}

// Observer receives engine measurements
type Observer interface {
	ObserveFilter(mode string, results int, d time.Duration)
	AddDropped(reason string, n int)
}

type nopObserver struct{}

func (nopObserver) ObserveFilter(string, int, time.Duration) {}
func (nopObserver) AddDropped(string, int)                   {}

// EngineConfig parameterises the matching and placement engine
type EngineConfig struct {
	VendorPrefixes []string
	MaxLocations   int
	SearchLimit    int
	MaxRadius      float64
	Random         decluster.RandomSource
}

// Query is one filter request: structural criteria plus an optional free-text query
type Query struct {
	Criteria models.FilterCriteria
	Text     string
}

// CatalogService contains the core business logic for filtering, searching and placing catalog locations
type CatalogService struct {
	repo         CatalogRepository
	normalizer   *normalizer.Normalizer
	matcher      *matcher.Matcher
	pipeline     *filter.Pipeline
	declusterer  *decluster.Declusterer
	maxLocations int
	searchLimit  int
	observer     Observer
}

// Option configures a CatalogService
type Option func(*CatalogService)

// WithObserver reports filter passes and dropped records to o
func WithObserver(o Observer) Option {
	return func(s *CatalogService) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo CatalogRepository, cfg EngineConfig, opts ...Option) *CatalogService {
	rnd := cfg.Random
	if rnd == nil {
		rnd = decluster.NewSeededSource(uint64(time.Now().UnixNano()))
	}
	radius := cfg.MaxRadius
	if radius <= 0 {
		radius = decluster.DefaultMaxRadius
	}
	searchLimit := cfg.SearchLimit
	if searchLimit <= 0 {
		searchLimit = 10
	}

	m := matcher.New(cfg.VendorPrefixes)
	s := &CatalogService{
		repo:         repo,
		normalizer:   normalizer.New(),
		matcher:      m,
		pipeline:     filter.NewPipeline(m),
		declusterer:  decluster.New(rnd, decluster.WithMaxRadius(radius)),
		maxLocations: cfg.MaxLocations,
		searchLimit:  searchLimit,
		observer:     nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Matcher exposes the fuzzy matcher used for search
func (s *CatalogService) Matcher() *matcher.Matcher {
	return s.matcher
}

// SearchLimit is the default number of search hits returned
func (s *CatalogService) SearchLimit() int {
	return s.searchLimit
}

// Locations loads both catalogs and normalizes them into locations
func (s *CatalogService) Locations(ctx context.Context) ([]models.Location, error) {
	general, err := s.repo.ListGeneralRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load general catalog: %w", err)
	}
	declarations, err := s.repo.ListDeclarationRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load declaration catalog: %w", err)
	}

	locations, report := s.normalizer.Normalize(general, declarations)
	s.observer.AddDropped("invalid_record", report.Dropped)
	if report.Dropped > 0 {
		log.Debug().
			Int("general", report.General).
			Int("declarations", report.Declarations).
			Int("dropped", report.Dropped).
			Msg("normalized catalogs")
	}
	return locations, nil
}

// Filter runs the filter pipeline over the current catalogs. A non-empty
// free-text query is resolved into the active search results first.
func (s *CatalogService) Filter(ctx context.Context, q Query) (models.FilterResult, error) {
	locations, err := s.Locations(ctx)
	if err != nil {
		return models.FilterResult{}, err
	}
	return s.apply(locations, q), nil
}

// Markers filters the catalogs and spreads co-located results for the map
func (s *CatalogService) Markers(ctx context.Context, q Query) (models.FilterResult, error) {
	res, err := s.Filter(ctx, q)
	if err != nil {
		return models.FilterResult{}, err
	}
	res.Filtered = s.declusterer.All(res.Filtered)
	return res, nil
}

// Place filters already-loaded locations and de-clusters the result
func (s *CatalogService) Place(locations []models.Location, criteria models.FilterCriteria) models.FilterResult {
	res := s.apply(locations, Query{Criteria: criteria})
	res.Filtered = s.declusterer.All(res.Filtered)
	return res
}

// Search returns the search dropdown hits for query
func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	if matcher.Normalize(query) == "" {
		return nil, fmt.Errorf("service: query cannot be empty")
	}
	if limit <= 0 {
		limit = s.searchLimit
	}

	locations, err := s.Locations(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.Search(query, locations, limit), nil
}

// NewArrivals returns up to limit locations, newest first
func (s *CatalogService) NewArrivals(ctx context.Context, limit int) ([]models.Location, error) {
	locations, err := s.Locations(ctx)
	if err != nil {
		return nil, err
	}
	return normalizer.Limit(filter.SortNewest(locations), limit), nil
}

// Facets lists the filter values present in the catalogs
func (s *CatalogService) Facets(ctx context.Context) (models.Facets, error) {
	locations, err := s.Locations(ctx)
	if err != nil {
		return models.Facets{}, err
	}
	return filter.BuildFacets(locations), nil
}

func (s *CatalogService) apply(locations []models.Location, q Query) models.FilterResult {
	start := time.Now()

	criteria := q.Criteria
	if q.Text != "" {
		hits := s.matcher.Search(q.Text, locations, s.searchLimit)
		criteria.ActiveSearchResults = make([]models.Location, len(hits))
		for i, hit := range hits {
			criteria.ActiveSearchResults[i] = hit.Location
		}
	}

	res := s.pipeline.Apply(locations, criteria)
	res.Filtered = normalizer.Limit(res.Filtered, s.maxLocations)

	s.observer.ObserveFilter(filterMode(criteria), len(res.Filtered), time.Since(start))
	return res
}

func filterMode(c models.FilterCriteria) string {
	switch {
	case c.SearchActive():
		return "search"
	case c.DeclarationOnly:
		return "declaration"
	default:
		return "structural"
	}
}
