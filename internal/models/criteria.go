package models

// AllValues is the UI's "no filter" option for country and category.
const AllValues = "all"

// FilterCriteria is rebuilt from the current selection state for every filter pass.
type FilterCriteria struct {
	Country             string     `json:"country,omitempty"`
	YearRange           YearRange  `json:"year_range"`
	Category            string     `json:"category,omitempty"`
	DeclarationOnly     bool       `json:"declaration_only"`
	ActiveSearchResults []Location `json:"active_search_results,omitempty"`
}

// HasCountry reports whether a country filter is set.
func (c FilterCriteria) HasCountry() bool {
	return c.Country != "" && c.Country != AllValues
}

// HasCategory reports whether a category filter is set.
func (c FilterCriteria) HasCategory() bool {
	return c.Category != "" && c.Category != AllValues
}

// SearchActive reports whether the search-result gate applies.
func (c FilterCriteria) SearchActive() bool {
	return len(c.ActiveSearchResults) > 0
}

// StructuralActive reports whether any structural (non-search) filter is set.
func (c FilterCriteria) StructuralActive() bool {
	return c.HasCountry() || c.HasCategory() || c.DeclarationOnly || !c.YearRange.IsAll()
}

// FilterStats are the declaration counters reported next to a filter result.
type FilterStats struct {
	DeclarationTotal      int `json:"declaration_total"`
	DeclarationKeptByYear int `json:"declaration_kept_by_year"`
}

// FilterResult is the output of one filter pass.
type FilterResult struct {
	Filtered []Location  `json:"locations"`
	Stats    FilterStats `json:"stats"`
}

// MatchRule names the matcher rule that decided a MatchResult.
type MatchRule string

const (
	RuleNone    MatchRule = "none"
	RuleExact   MatchRule = "exact"
	RuleVendor  MatchRule = "vendor"
	RuleInitial MatchRule = "initial"
)

// MatchResult is the fuzzy matcher's verdict. Score is the fraction of
// matched query tokens and is diagnostic only.
type MatchResult struct {
	IsMatch bool      `json:"is_match"`
	Score   float64   `json:"score,omitempty"`
	Rule    MatchRule `json:"rule"`
}

// SearchHit pairs a location with the verdict that selected it.
type SearchHit struct {
	Location Location    `json:"location"`
	Match    MatchResult `json:"match"`
}

// Facets lists the values the filter dropdowns can offer.
type Facets struct {
	Countries  []string `json:"countries"`
	Categories []string `json:"categories"`
	MinYear    Year     `json:"min_year"`
	MaxYear    Year     `json:"max_year"`
}
