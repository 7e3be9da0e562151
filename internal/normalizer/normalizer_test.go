package normalizer

import (
	"math"
	"testing"
	"time"

	"epd-map-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Normalize(t *testing.T) {
	general := []models.RawGeneralRecord{
		{
			ID:           "1",
			Name:         "Panel",
			ProductName:  "brandx-panel-white",
			CategoryName: models.Categories{"Insulation"},
			Lat:          models.Float(52.52),
			Lng:          models.Float(13.405),
			Country:      "Germany",
			CompanyName:  "BrandX GmbH",
			CreatedAt:    "2024-03-01T10:00:00Z",
		},
		{
			ID:   "2",
			Name: "Beam",
			Lat:  models.Float(math.NaN()),
			Lng:  models.Float(2),
		},
		{
			ID:   "3",
			Name: "Pipe",
		},
		{
			ID:           "4",
			Name:         "Brick",
			CategoryName: models.Categories{"Masonry"},
			Geo:          "FR",
		},
	}
	declarations := []models.RawDeclarationRecord{
		{
			UUID:      "d-1",
			Name:      "Ready-mix concrete",
			Classific: models.Categories{"Concrete / Building"},
			RefYear:   2020,
			PDFURL:    "https://example.org/d-1.pdf",
			Geo:       "DE",
		},
		{
			UUID: "d-2",
			Name: "Timber",
			Geo:  "Atlantis",
		},
		{
			UUID: "d-3",
			Name: "Steel",
			Lat:  models.Float(48.1),
			Lng:  models.Float(11.6),
			Geo:  "Bavaria",
		},
	}

	n := New()
	locations, report := n.Normalize(general, declarations)

	require.Len(t, locations, 4)
	assert.Equal(t, Report{General: 2, Declarations: 2, Dropped: 3}, report)

	panel := locations[0]
	assert.Equal(t, "brandx-panel-white", panel.ProductName)
	assert.Equal(t, "Germany", panel.Country)
	assert.Equal(t, 52.52, panel.Latitude)
	assert.Equal(t, models.AllYears, panel.ReferenceYear)
	assert.False(t, panel.IsDeclaration)
	assert.Equal(t, models.CatalogGeneral, panel.SourceCatalog)
	require.NotNil(t, panel.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), *panel.CreatedAt)

	brick := locations[1]
	assert.Equal(t, "France", brick.Country)
	assert.Equal(t, defaultPlaces["FR"].Point.Lat, brick.Latitude)

	concrete := locations[2]
	assert.Equal(t, "d-1", concrete.ID)
	assert.True(t, concrete.IsDeclaration)
	assert.Equal(t, models.CatalogDeclaration, concrete.SourceCatalog)
	assert.Equal(t, "Germany", concrete.Country)
	assert.Equal(t, models.Year(2020), concrete.ReferenceYear)
	assert.Equal(t, models.Categories{"Concrete / Building"}, concrete.Categories)
	assert.Equal(t, "https://example.org/d-1.pdf", concrete.DocumentURL)

	steel := locations[3]
	assert.Equal(t, "Bavaria", steel.Country, "unresolved hint is kept as the country label")
	assert.Equal(t, 48.1, steel.Latitude)
	assert.Equal(t, models.AllYears, steel.ReferenceYear)
}

func TestNormalizer_DropInvariant(t *testing.T) {
	general := []models.RawGeneralRecord{
		{Name: "a", Lat: models.Float(math.Inf(1)), Lng: models.Float(1)},
		{Name: "b", Lat: models.Float(91), Lng: models.Float(1)},
		{Name: "c", Lat: models.Float(1), Lng: models.Float(-181)},
		{Name: "d", Lat: models.Float(1)},
		{Name: "e", Lat: models.Float(0), Lng: models.Float(0)},
	}

	locations, report := New().Normalize(general, nil)

	require.Len(t, locations, 1)
	assert.Equal(t, "e", locations[0].ProductName)
	assert.Equal(t, 4, report.Dropped)
	for _, loc := range locations {
		assert.True(t, ValidCoordinate(loc.Latitude, loc.Longitude))
	}
}

func TestNormalizer_UnknownCountry(t *testing.T) {
	locations, _ := New().Normalize([]models.RawGeneralRecord{
		{Name: "a", Lat: models.Float(10), Lng: models.Float(10)},
	}, nil)

	require.Len(t, locations, 1)
	assert.Equal(t, models.UnknownCountry, locations[0].Country)
	assert.NotNil(t, locations[0].Categories)
}

func TestNormalizer_EmptyInput(t *testing.T) {
	locations, report := New().Normalize(nil, nil)
	assert.Empty(t, locations)
	assert.Equal(t, Report{}, report)
}

func TestNormalizer_WithLimit(t *testing.T) {
	var general []models.RawGeneralRecord
	for i := 0; i < 5; i++ {
		general = append(general, models.RawGeneralRecord{
			ID:   models.FlexString(string(rune('a' + i))),
			Name: "p",
			Lat:  models.Float(1),
			Lng:  models.Float(1),
		})
	}

	locations, report := New(WithLimit(3)).Normalize(general, nil)

	require.Len(t, locations, 3)
	assert.Equal(t, "a", locations[0].ID)
	assert.Equal(t, "c", locations[2].ID)
	assert.Equal(t, 2, report.Truncated)
}

func TestLimit(t *testing.T) {
	locs := []models.Location{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	assert.Len(t, Limit(locs, 2), 2)
	assert.Len(t, Limit(locs, 0), 3)
	assert.Len(t, Limit(locs, 10), 3)
}

func TestCountryGazetteer_Lookup(t *testing.T) {
	g := DefaultGazetteer()

	tests := []struct {
		hint    string
		country string
		ok      bool
	}{
		{hint: "DE", country: "Germany", ok: true},
		{hint: "de", country: "Germany", ok: true},
		{hint: "germany", country: "Germany", ok: true},
		{hint: "DE-BY", country: "Germany", ok: true},
		{hint: " fr ", country: "France", ok: true},
		{hint: "", ok: false},
		{hint: "Atlantis", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			p, ok := g.Lookup(tt.hint)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.country, p.Country)
		})
	}
}

func TestNormalizer_DeclarationAlternateNames(t *testing.T) {
	locations, _ := New().Normalize(nil, []models.RawDeclarationRecord{
		{
			UUID:           "d-9",
			Name:           "Mineral wool",
			Classification: models.Categories{"Insulation"},
			DocumentURL:    "https://example.org/d-9.pdf",
			Geo:            "AT",
		},
	})

	require.Len(t, locations, 1)
	assert.Equal(t, models.Categories{"Insulation"}, locations[0].Categories)
	assert.Equal(t, "https://example.org/d-9.pdf", locations[0].DocumentURL)
}

func TestNormalizer_WithGazetteer(t *testing.T) {
	g := NewCountryGazetteer(map[string]Place{
		"XK": {Country: "Kosovo", Point: models.Point{Lat: 42.6, Lng: 20.9}},
	})
	n := New(WithGazetteer(g))

	locations, report := n.Normalize(nil, []models.RawDeclarationRecord{
		{UUID: "k", Name: "Gravel", Geo: "XK"},
		{UUID: "d", Name: "Concrete", Geo: "DE"},
	})

	require.Len(t, locations, 1)
	assert.Equal(t, "Kosovo", locations[0].Country)
	assert.Equal(t, 42.6, locations[0].Latitude)
	assert.Equal(t, 1, report.Dropped, "the default table is replaced, not extended")
	assert.Panics(t, func() { New(WithGazetteer(nil)) })
}
