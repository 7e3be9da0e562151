package service

import (
	"context"
	"testing"
	"time"

	"epd-map-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogRepository is a mock implementation of the CatalogRepository interface
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListGeneralRecords(ctx context.Context) ([]models.RawGeneralRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.RawGeneralRecord), args.Error(1)
}

func (m *MockCatalogRepository) ListDeclarationRecords(ctx context.Context) ([]models.RawDeclarationRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.RawDeclarationRecord), args.Error(1)
}

type zeroSource struct{}

func (zeroSource) Float64() float64 { return 0 }

type recordingObserver struct {
	modes   []string
	dropped int
}

func (o *recordingObserver) ObserveFilter(mode string, _ int, _ time.Duration) {
	o.modes = append(o.modes, mode)
}

func (o *recordingObserver) AddDropped(_ string, n int) {
	o.dropped += n
}

func generalRecords() []models.RawGeneralRecord {
	return []models.RawGeneralRecord{
		{
			ID:           "g1",
			ProductName:  "brandx-foo-bar",
			CategoryName: models.Categories{"Insulation"},
			Lat:          models.Float(52.5),
			Lng:          models.Float(13.4),
			Country:      "DE",
			CreatedAt:    "2024-01-01T00:00:00Z",
		},
		{
			ID:          "g2",
			ProductName: "brandx-foo-baz",
			Lat:         models.Float(48.8),
			Lng:         models.Float(2.3),
			Country:     "FR",
			CreatedAt:   "2024-05-01T00:00:00Z",
		},
		{
			ID:          "g3",
			ProductName: "alpha-pipe",
			Geo:         "DE",
			RefYear:     2019,
		},
		{ID: "bad", Lat: models.Float(1), Lng: models.Float(1)},
	}
}

func declarationRecords() []models.RawDeclarationRecord {
	return []models.RawDeclarationRecord{
		{UUID: "d1", Name: "concrete-c30", Classific: models.Categories{"Concrete"}, RefYear: 2020, Geo: "DE"},
		{UUID: "d2", Name: "timber", RefYear: 2010, Geo: "FR"},
	}
}

func newMockRepo() *MockCatalogRepository {
	repo := new(MockCatalogRepository)
	repo.On("ListGeneralRecords", mock.Anything).Return(generalRecords(), nil)
	repo.On("ListDeclarationRecords", mock.Anything).Return(declarationRecords(), nil)
	return repo
}

func newTestCatalogService(repo CatalogRepository, cfg EngineConfig, opts ...Option) *CatalogService {
	if cfg.Random == nil {
		cfg.Random = zeroSource{}
	}
	return NewCatalogService(repo, cfg, opts...)
}

func locationIDs(locs []models.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.ID
	}
	return out
}

func TestCatalogService_Locations(t *testing.T) {
	repo := newMockRepo()
	obs := &recordingObserver{}
	svc := newTestCatalogService(repo, EngineConfig{}, WithObserver(obs))

	locations, err := svc.Locations(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2", "g3", "d1", "d2"}, locationIDs(locations))
	assert.Equal(t, "Germany", locations[0].Country)
	assert.Equal(t, "France", locations[4].Country)
	assert.True(t, locations[3].IsDeclaration)
	assert.Equal(t, 1, obs.dropped)
	repo.AssertExpectations(t)
}

func TestCatalogService_LocationsErrors(t *testing.T) {
	tests := []struct {
		name     string
		genErr   error
		declErr  error
		declCall bool
	}{
		{name: "general catalog error", genErr: assert.AnError},
		{name: "declaration catalog error", declErr: assert.AnError, declCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCatalogRepository)
			repo.On("ListGeneralRecords", mock.Anything).Return([]models.RawGeneralRecord{}, tt.genErr)
			if tt.declCall {
				repo.On("ListDeclarationRecords", mock.Anything).Return([]models.RawDeclarationRecord{}, tt.declErr)
			}
			svc := newTestCatalogService(repo, EngineConfig{})

			_, err := svc.Locations(context.Background())

			assert.ErrorIs(t, err, assert.AnError)
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Filter(t *testing.T) {
	tests := []struct {
		name     string
		cfg      EngineConfig
		query    Query
		expected []string
		stats    models.FilterStats
		mode     string
	}{
		{
			name:     "no filters",
			query:    Query{},
			expected: []string{"g1", "g2", "g3", "d1", "d2"},
			stats:    models.FilterStats{DeclarationTotal: 2, DeclarationKeptByYear: 2},
			mode:     "structural",
		},
		{
			name:     "country",
			query:    Query{Criteria: models.FilterCriteria{Country: "Germany"}},
			expected: []string{"g1", "g3", "d1"},
			stats:    models.FilterStats{DeclarationTotal: 1, DeclarationKeptByYear: 1},
			mode:     "structural",
		},
		{
			name: "declaration only",
			query: Query{Criteria: models.FilterCriteria{
				DeclarationOnly: true,
				YearRange:       models.YearRange{Min: 2015, Max: 2025},
			}},
			expected: []string{"d1"},
			stats:    models.FilterStats{DeclarationTotal: 2, DeclarationKeptByYear: 1},
			mode:     "declaration",
		},
		{
			name:     "free text query supersedes country",
			query:    Query{Criteria: models.FilterCriteria{Country: "Germany"}, Text: "brandx-foo"},
			expected: []string{"g1", "g2"},
			mode:     "search",
		},
		{
			name:     "placement cap",
			cfg:      EngineConfig{MaxLocations: 2},
			query:    Query{},
			expected: []string{"g1", "g2"},
			stats:    models.FilterStats{DeclarationTotal: 2, DeclarationKeptByYear: 2},
			mode:     "structural",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			obs := &recordingObserver{}
			svc := newTestCatalogService(repo, tt.cfg, WithObserver(obs))

			res, err := svc.Filter(context.Background(), tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, locationIDs(res.Filtered))
			assert.Equal(t, tt.stats, res.Stats)
			assert.Equal(t, []string{tt.mode}, obs.modes)
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Markers(t *testing.T) {
	svc := newTestCatalogService(newMockRepo(), EngineConfig{})

	res, err := svc.Markers(context.Background(), Query{})

	require.NoError(t, err)
	require.Len(t, res.Filtered, 5)
	// with a zero radius every German entity collapses onto the first one
	assert.Equal(t, 52.5, res.Filtered[2].Latitude)
	assert.Equal(t, 13.4, res.Filtered[2].Longitude)
	assert.Equal(t, 52.5, res.Filtered[3].Latitude)
	assert.Equal(t, 48.8, res.Filtered[4].Latitude)
}

func TestCatalogService_Place(t *testing.T) {
	svc := newTestCatalogService(newMockRepo(), EngineConfig{})
	locations, err := svc.Locations(context.Background())
	require.NoError(t, err)

	res := svc.Place(locations, models.FilterCriteria{Country: "France"})

	assert.Equal(t, []string{"g2", "d2"}, locationIDs(res.Filtered))
	assert.Equal(t, 48.8, res.Filtered[1].Latitude)
}

func TestCatalogService_Search(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		limit       int
		searchLimit int
		expected    []string
		expectError bool
	}{
		{name: "empty query", query: " ", expectError: true},
		{name: "vendor query", query: "brandx-foo", expected: []string{"g1", "g2"}},
		{name: "explicit limit", query: "brandx-foo", limit: 1, expected: []string{"g1"}},
		{name: "default limit", query: "brandx-foo", searchLimit: 1, expected: []string{"g1"}},
		{name: "declarations are not searched", query: "concrete-c30", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := newTestCatalogService(repo, EngineConfig{SearchLimit: tt.searchLimit})

			hits, err := svc.Search(context.Background(), tt.query, tt.limit)

			if tt.expectError {
				assert.Error(t, err)
				repo.AssertNotCalled(t, "ListGeneralRecords", mock.Anything)
				return
			}
			require.NoError(t, err)
			ids := make([]string, len(hits))
			for i, hit := range hits {
				ids[i] = hit.Location.ID
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestCatalogService_NewArrivals(t *testing.T) {
	svc := newTestCatalogService(newMockRepo(), EngineConfig{})

	locations, err := svc.NewArrivals(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "g3"}, locationIDs(locations))
}

func TestCatalogService_Facets(t *testing.T) {
	svc := newTestCatalogService(newMockRepo(), EngineConfig{})

	facets, err := svc.Facets(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Germany"}, facets.Countries)
	assert.Equal(t, []string{"Concrete", "Insulation"}, facets.Categories)
	assert.Equal(t, models.Year(2010), facets.MinYear)
	assert.Equal(t, models.Year(2020), facets.MaxYear)
}

func TestNewCatalogService_Defaults(t *testing.T) {
	svc := NewCatalogService(newMockRepo(), EngineConfig{})

	assert.Equal(t, 10, svc.SearchLimit())
	assert.NotNil(t, svc.Matcher())
}
