package normalizer

import (
	"math"
	"slices"
	"strings"
	"time"

	"epd-map-api/internal/models"
)

// Report summarises one normalization pass.
type Report struct {
	General      int `json:"general"`
	Declarations int `json:"declarations"`
	Dropped      int `json:"dropped"`
	Truncated    int `json:"truncated"`
}

// Normalizer converts raw catalog records into canonical locations.
type Normalizer struct {
	gazetteer Gazetteer
	limit     int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithGazetteer replaces the country-centroid lookup.
func WithGazetteer(g Gazetteer) Option {
	return func(n *Normalizer) {
		n.gazetteer = g
	}
}

// WithLimit caps the number of locations produced. Zero or less means no cap.
func WithLimit(limit int) Option {
	return func(n *Normalizer) {
		n.limit = limit
	}
}

// New creates a normalizer using the default gazetteer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{gazetteer: DefaultGazetteer()}
	for _, opt := range opts {
		opt(n)
	}
	if n.gazetteer == nil {
		panic("normalizer: nil gazetteer")
	}
	return n
}

// Normalize maps general records followed by declaration records, in arrival
// order, into locations. Records without a name or a usable coordinate pair
// are skipped and only counted in the report.
func (n *Normalizer) Normalize(general []models.RawGeneralRecord, declarations []models.RawDeclarationRecord) ([]models.Location, Report) {
	var report Report
	out := make([]models.Location, 0, len(general)+len(declarations))

	for _, raw := range general {
		loc, ok := n.fromGeneral(raw)
		if !ok {
			report.Dropped++
			continue
		}
		out = append(out, loc)
		report.General++
	}
	for _, raw := range declarations {
		loc, ok := n.fromDeclaration(raw)
		if !ok {
			report.Dropped++
			continue
		}
		out = append(out, loc)
		report.Declarations++
	}

	if n.limit > 0 && len(out) > n.limit {
		report.Truncated = len(out) - n.limit
		out = out[:n.limit]
	}
	return out, report
}

func (n *Normalizer) fromGeneral(raw models.RawGeneralRecord) (models.Location, bool) {
	name := firstNonEmpty(raw.ProductName.String(), raw.Name.String())
	if name == "" {
		return models.Location{}, false
	}

	place, hasPlace := n.lookup(raw.Country.String(), raw.Geo.String())
	point, ok := coordinates(raw.Lat, raw.Lng, place, hasPlace)
	if !ok {
		return models.Location{}, false
	}

	country := models.UnknownCountry
	switch {
	case hasPlace:
		country = place.Country
	case raw.Country != "":
		country = raw.Country.String()
	}

	return models.Location{
		ID:               raw.ID.String(),
		ProductName:      name,
		Latitude:         point.Lat,
		Longitude:        point.Lng,
		Country:          country,
		ReferenceYear:    raw.RefYear,
		IsDeclaration:    bool(raw.IsDeclaration),
		SourceCatalog:    models.CatalogGeneral,
		Categories:       cloneCategories(raw.CategoryName),
		IndustrySolution: raw.IndustrySolution.String(),
		DocumentURL:      raw.PDFURL.String(),
		CompanyName:      raw.CompanyName.String(),
		Description:      raw.Description.String(),
		ImageURL:         raw.ImageURL.String(),
		CreatedAt:        parseTimestamp(raw.CreatedAt.String()),
	}, true
}

func (n *Normalizer) fromDeclaration(raw models.RawDeclarationRecord) (models.Location, bool) {
	name := raw.Name.String()
	if name == "" {
		return models.Location{}, false
	}

	place, hasPlace := n.lookup(raw.Geo.String())
	point, ok := coordinates(raw.Lat, raw.Lng, place, hasPlace)
	if !ok {
		return models.Location{}, false
	}

	country := models.UnknownCountry
	switch {
	case hasPlace:
		country = place.Country
	case raw.Geo != "":
		country = raw.Geo.String()
	}

	return models.Location{
		ID:            raw.UUID.String(),
		ProductName:   name,
		Latitude:      point.Lat,
		Longitude:     point.Lng,
		Country:       country,
		ReferenceYear: raw.RefYear,
		IsDeclaration: true,
		SourceCatalog: models.CatalogDeclaration,
		Categories:    cloneCategories(raw.Categories()),
		DocumentURL:   raw.Document(),
		CompanyName:   raw.Owner.String(),
	}, true
}

func (n *Normalizer) lookup(hints ...string) (Place, bool) {
	for _, hint := range hints {
		if p, ok := n.gazetteer.Lookup(hint); ok {
			return p, true
		}
	}
	return Place{}, false
}

// coordinates prefers an explicit pair and falls back to the resolved place.
func coordinates(lat, lng models.FlexFloat, place Place, hasPlace bool) (models.Point, bool) {
	if lat.Valid && lng.Valid {
		if ValidCoordinate(lat.Value, lng.Value) {
			return models.Point{Lat: lat.Value, Lng: lng.Value}, true
		}
		return models.Point{}, false
	}
	if hasPlace && ValidCoordinate(place.Point.Lat, place.Point.Lng) {
		return place.Point, true
	}
	return models.Point{}, false
}

// ValidCoordinate reports whether lat/lng are finite and within WGS84 bounds.
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func cloneCategories(c models.Categories) models.Categories {
	if len(c) == 0 {
		return models.Categories{}
	}
	out := make(models.Categories, len(c))
	copy(out, c)
	return out
}

// Limit returns at most limit locations, keeping arrival order. Zero or less means no cap.
func Limit(locations []models.Location, limit int) []models.Location {
	if limit <= 0 || len(locations) <= limit {
		return slices.Clone(locations)
	}
	return slices.Clone(locations[:limit])
}
