package filter

import (
	"strings"

	"epd-map-api/internal/matcher"
	"epd-map-api/internal/models"
)

// NameMatcher is the fuzzy matching the search gate relies on.
type NameMatcher interface {
	Match(query, candidate string) models.MatchResult
}

// Pipeline applies the filter predicates in a single pass.
type Pipeline struct {
	matcher NameMatcher
}

// NewPipeline creates a filter pipeline.
func NewPipeline(m NameMatcher) *Pipeline {
	if m == nil {
		panic("filter: nil matcher")
	}
	return &Pipeline{matcher: m}
}

// Apply returns the locations satisfying every predicate, in input order, and
// the declaration counters. The input slice is never modified.
//
// Predicates run as: declaration-only gate, search-result gate, country,
// year range, category. An active search supersedes the structural predicates.
func (p *Pipeline) Apply(locations []models.Location, c models.FilterCriteria) models.FilterResult {
	res := models.FilterResult{Filtered: make([]models.Location, 0, len(locations))}

	searching := c.SearchActive()
	search := searchSet(c.ActiveSearchResults)
	category := matcher.Normalize(c.Category)

	for _, loc := range locations {
		if c.DeclarationOnly && !loc.IsDeclaration {
			continue
		}

		if searching {
			if !p.matchesAny(loc, search) {
				continue
			}
			if loc.IsDeclaration {
				res.Stats.DeclarationTotal++
				res.Stats.DeclarationKeptByYear++
			}
			res.Filtered = append(res.Filtered, loc)
			continue
		}

		if c.HasCountry() && loc.Country != c.Country {
			continue
		}

		if yearApplies(loc, c) {
			res.Stats.DeclarationTotal += boolInt(loc.IsDeclaration)
			if !c.YearRange.Contains(loc.ReferenceYear) {
				continue
			}
			res.Stats.DeclarationKeptByYear += boolInt(loc.IsDeclaration)
		}

		if c.HasCategory() && !CategoryContains(loc.Categories, category) {
			continue
		}

		res.Filtered = append(res.Filtered, loc)
	}
	return res
}

// searchSet keeps the general-catalog entries of the active results; search
// never reaches declaration-catalog items.
func searchSet(results []models.Location) []models.Location {
	out := make([]models.Location, 0, len(results))
	for _, r := range results {
		if r.FromGeneralCatalog() {
			out = append(out, r)
		}
	}
	return out
}

func (p *Pipeline) matchesAny(loc models.Location, search []models.Location) bool {
	for _, r := range search {
		if p.matcher.Match(r.ProductName, loc.ProductName).IsMatch {
			return true
		}
	}
	return false
}

// yearApplies reports whether the year predicate is evaluated for loc. In
// declaration-only mode only declaration entities are subject to it.
func yearApplies(loc models.Location, c models.FilterCriteria) bool {
	if c.DeclarationOnly {
		return loc.IsDeclaration
	}
	return true
}

// CategoryContains reports whether any category string contains term,
// case-insensitively. term must already be normalized with matcher.Normalize.
func CategoryContains(categories models.Categories, term string) bool {
	if term == "" {
		return true
	}
	for _, cat := range categories {
		if strings.Contains(matcher.Normalize(cat), term) {
			return true
		}
	}
	return false
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
