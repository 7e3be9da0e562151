package normalizer

import (
	"strings"

	"epd-map-api/internal/models"
)

// Place is a country name and the coordinate its records are pinned to.
type Place struct {
	Country string
	Point   models.Point
}

// Gazetteer resolves a geo hint (country code or name) to a Place.
type Gazetteer interface {
	Lookup(hint string) (Place, bool)
}

// CountryGazetteer is a static country-centroid table keyed by ISO 3166-1 alpha-2 code.
type CountryGazetteer struct {
	byCode map[string]Place
	byName map[string]Place
}

// NewCountryGazetteer builds a gazetteer from code -> place entries.
func NewCountryGazetteer(places map[string]Place) *CountryGazetteer {
	g := &CountryGazetteer{
		byCode: make(map[string]Place, len(places)),
		byName: make(map[string]Place, len(places)),
	}
	for code, p := range places {
		g.byCode[strings.ToUpper(code)] = p
		g.byName[strings.ToLower(p.Country)] = p
	}
	return g
}

// DefaultGazetteer covers the countries the declaration catalog publishes for.
func DefaultGazetteer() *CountryGazetteer {
	return NewCountryGazetteer(defaultPlaces)
}

// Lookup accepts "DE", "de", "Germany" and regional codes such as "DE-BY".
func (g *CountryGazetteer) Lookup(hint string) (Place, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return Place{}, false
	}
	if p, ok := g.byCode[strings.ToUpper(hint)]; ok {
		return p, true
	}
	if p, ok := g.byName[strings.ToLower(hint)]; ok {
		return p, true
	}
	if code, _, found := strings.Cut(hint, "-"); found && len(code) == 2 {
		if p, ok := g.byCode[strings.ToUpper(code)]; ok {
			return p, true
		}
	}
	return Place{}, false
}

var defaultPlaces = map[string]Place{
	"AT": {Country: "Austria", Point: models.Point{Lat: 47.5162, Lng: 14.5501}},
	"BE": {Country: "Belgium", Point: models.Point{Lat: 50.5039, Lng: 4.4699}},
	"BG": {Country: "Bulgaria", Point: models.Point{Lat: 42.7339, Lng: 25.4858}},
	"CH": {Country: "Switzerland", Point: models.Point{Lat: 46.8182, Lng: 8.2275}},
	"CN": {Country: "China", Point: models.Point{Lat: 35.8617, Lng: 104.1954}},
	"CZ": {Country: "Czechia", Point: models.Point{Lat: 49.8175, Lng: 15.4730}},
	"DE": {Country: "Germany", Point: models.Point{Lat: 51.1657, Lng: 10.4515}},
	"DK": {Country: "Denmark", Point: models.Point{Lat: 56.2639, Lng: 9.5018}},
	"EE": {Country: "Estonia", Point: models.Point{Lat: 58.5953, Lng: 25.0136}},
	"ES": {Country: "Spain", Point: models.Point{Lat: 40.4637, Lng: -3.7492}},
	"FI": {Country: "Finland", Point: models.Point{Lat: 61.9241, Lng: 25.7482}},
	"FR": {Country: "France", Point: models.Point{Lat: 46.2276, Lng: 2.2137}},
	"GB": {Country: "United Kingdom", Point: models.Point{Lat: 55.3781, Lng: -3.4360}},
	"GR": {Country: "Greece", Point: models.Point{Lat: 39.0742, Lng: 21.8243}},
	"HR": {Country: "Croatia", Point: models.Point{Lat: 45.1000, Lng: 15.2000}},
	"HU": {Country: "Hungary", Point: models.Point{Lat: 47.1625, Lng: 19.5033}},
	"IE": {Country: "Ireland", Point: models.Point{Lat: 53.4129, Lng: -8.2439}},
	"IT": {Country: "Italy", Point: models.Point{Lat: 41.8719, Lng: 12.5674}},
	"LT": {Country: "Lithuania", Point: models.Point{Lat: 55.1694, Lng: 23.8813}},
	"LU": {Country: "Luxembourg", Point: models.Point{Lat: 49.8153, Lng: 6.1296}},
	"LV": {Country: "Latvia", Point: models.Point{Lat: 56.8796, Lng: 24.6032}},
	"NL": {Country: "Netherlands", Point: models.Point{Lat: 52.1326, Lng: 5.2913}},
	"NO": {Country: "Norway", Point: models.Point{Lat: 60.4720, Lng: 8.4689}},
	"PL": {Country: "Poland", Point: models.Point{Lat: 51.9194, Lng: 19.1451}},
	"PT": {Country: "Portugal", Point: models.Point{Lat: 39.3999, Lng: -8.2245}},
	"RO": {Country: "Romania", Point: models.Point{Lat: 45.9432, Lng: 24.9668}},
	"SE": {Country: "Sweden", Point: models.Point{Lat: 60.1282, Lng: 18.6435}},
	"SI": {Country: "Slovenia", Point: models.Point{Lat: 46.1512, Lng: 14.9955}},
	"SK": {Country: "Slovakia", Point: models.Point{Lat: 48.6690, Lng: 19.6990}},
	"TR": {Country: "Turkey", Point: models.Point{Lat: 38.9637, Lng: 35.2433}},
	"US": {Country: "United States", Point: models.Point{Lat: 37.0902, Lng: -95.7129}},
}
