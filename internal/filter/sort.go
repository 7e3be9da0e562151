package filter

import (
	"cmp"
	"slices"
	"strings"

	"epd-map-api/internal/models"
)

// SortNewest returns a copy of locations ordered newest first ("new arrivals").
// Two timestamped entities compare by creation time; otherwise by reference
// year, with the "all" sentinel ranked last. Ties keep input order.
//
// Mixing the two keys is not transitive: when some entities carry a timestamp
// and others do not, the result can depend on the input order.
func SortNewest(locations []models.Location) []models.Location {
	out := slices.Clone(locations)
	slices.SortStableFunc(out, compareNewest)
	return out
}

func compareNewest(a, b models.Location) int {
	if a.CreatedAt != nil && b.CreatedAt != nil {
		return b.CreatedAt.Compare(*a.CreatedAt)
	}
	return cmp.Compare(int(b.ReferenceYear), int(a.ReferenceYear))
}

// BuildFacets collects the distinct countries and categories, sorted, and the
// span of real reference years.
func BuildFacets(locations []models.Location) models.Facets {
	f := models.Facets{Countries: []string{}, Categories: []string{}}
	countries := map[string]struct{}{}
	categories := map[string]struct{}{}

	for _, loc := range locations {
		if _, ok := countries[loc.Country]; !ok && loc.Country != "" {
			countries[loc.Country] = struct{}{}
			f.Countries = append(f.Countries, loc.Country)
		}
		for _, cat := range loc.Categories {
			cat = strings.TrimSpace(cat)
			if cat == "" {
				continue
			}
			if _, ok := categories[cat]; ok {
				continue
			}
			categories[cat] = struct{}{}
			f.Categories = append(f.Categories, cat)
		}
		if y := loc.ReferenceYear; !y.IsAll() {
			if f.MinYear.IsAll() || y < f.MinYear {
				f.MinYear = y
			}
			if y > f.MaxYear {
				f.MaxYear = y
			}
		}
	}

	slices.Sort(f.Countries)
	slices.Sort(f.Categories)
	return f
}
