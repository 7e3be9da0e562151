package matcher

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"epd-map-api/internal/models"
)

// DefaultThreshold is the share of query tokens a same-vendor candidate must cover.
const DefaultThreshold = 0.5

const vendorSeparator = "-"

// Matcher decides whether a candidate product name matches a query.
type Matcher struct {
	prefixes  map[string]struct{}
	threshold float64
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold overrides the vendor token ratio needed for a match.
func WithThreshold(t float64) Option {
	return func(m *Matcher) {
		m.threshold = t
	}
}

// New creates a matcher that recognises the given vendor prefixes. With no
// prefixes, any leading token followed by a hyphen is treated as a vendor prefix.
func New(vendorPrefixes []string, opts ...Option) *Matcher {
	m := &Matcher{
		prefixes:  make(map[string]struct{}, len(vendorPrefixes)),
		threshold: DefaultThreshold,
	}
	for _, p := range vendorPrefixes {
		p = strings.TrimSuffix(Normalize(p), vendorSeparator)
		if p != "" {
			m.prefixes[p] = struct{}{}
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Normalize folds s for comparison: NFKC, lower case, collapsed whitespace.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// Match applies, in order, the exact, vendor-prefix and first-character rules.
func (m *Matcher) Match(query, candidate string) models.MatchResult {
	q := Normalize(query)
	c := Normalize(candidate)
	if q == "" || c == "" {
		return noMatch()
	}
	if q == c {
		return models.MatchResult{IsMatch: true, Score: 1, Rule: models.RuleExact}
	}

	qVendor, qRest, qPrefixed := m.splitVendor(q)
	cVendor, cRest, cPrefixed := m.splitVendor(c)
	if qPrefixed {
		if !cPrefixed || qVendor != cVendor {
			return noMatch()
		}
		return m.matchTokens(qRest, cRest)
	}

	qFirst, _ := utf8.DecodeRuneInString(q)
	cFirst, _ := utf8.DecodeRuneInString(c)
	if qFirst == cFirst {
		return models.MatchResult{IsMatch: true, Rule: models.RuleInitial}
	}
	return noMatch()
}

// Search returns the first limit general-catalog locations whose name matches
// query, in arrival order. Declaration-catalog items are never returned.
func (m *Matcher) Search(query string, locations []models.Location, limit int) []models.SearchHit {
	hits := []models.SearchHit{}
	if Normalize(query) == "" {
		return hits
	}
	for _, loc := range locations {
		if !loc.FromGeneralCatalog() {
			continue
		}
		res := m.Match(query, loc.ProductName)
		if !res.IsMatch {
			continue
		}
		hits = append(hits, models.SearchHit{Location: loc, Match: res})
		if limit > 0 && len(hits) >= limit {
			break
		}
	}
	return hits
}

func (m *Matcher) splitVendor(s string) (vendor, rest string, ok bool) {
	vendor, rest, found := strings.Cut(s, vendorSeparator)
	vendor = strings.TrimSpace(vendor)
	if !found || vendor == "" {
		return "", "", false
	}
	if len(m.prefixes) > 0 {
		if _, known := m.prefixes[vendor]; !known {
			return "", "", false
		}
	}
	return vendor, rest, true
}

// matchTokens scores the hyphen-separated remainders of two same-vendor names.
// A query token counts when a candidate token equals it or starts with it.
func (m *Matcher) matchTokens(queryRest, candidateRest string) models.MatchResult {
	qTokens := tokenSet(queryRest)
	if len(qTokens) == 0 {
		// only the vendor has been typed so far
		return models.MatchResult{IsMatch: true, Score: 1, Rule: models.RuleVendor}
	}
	cTokens := tokenSet(candidateRest)

	matched := 0
	for _, qt := range qTokens {
		for _, ct := range cTokens {
			if strings.HasPrefix(ct, qt) {
				matched++
				break
			}
		}
	}

	ratio := float64(matched) / float64(len(qTokens))
	if ratio == 1 {
		return models.MatchResult{IsMatch: true, Score: 1, Rule: models.RuleExact}
	}
	return models.MatchResult{
		IsMatch: ratio >= m.threshold,
		Score:   ratio,
		Rule:    models.RuleVendor,
	}
}

func tokenSet(s string) []string {
	parts := strings.Split(s, vendorSeparator)
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func noMatch() models.MatchResult {
	return models.MatchResult{Rule: models.RuleNone}
}
