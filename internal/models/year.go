package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AllYears is the "all" sentinel: the entity is not subject to year filtering.
const AllYears Year = 0

const allYearsLiteral = "all"

// Year is a reference year. The zero value is the AllYears sentinel.
type Year int

// IsAll reports whether y is the AllYears sentinel.
func (y Year) IsAll() bool {
	return y == AllYears
}

func (y Year) String() string {
	if y.IsAll() {
		return allYearsLiteral
	}
	return strconv.Itoa(int(y))
}

// ParseYear converts free-form input into a Year. Anything that is not a
// positive whole number becomes AllYears.
func ParseYear(s string) Year {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, allYearsLiteral) {
		return AllYears
	}
	if n, err := strconv.Atoi(s); err == nil {
		return yearFromInt(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return AllYears
	}
	return yearFromInt(int(f))
}

func yearFromInt(n int) Year {
	if n <= 0 {
		return AllYears
	}
	return Year(n)
}

// MarshalJSON encodes the sentinel as "all" and real years as numbers.
func (y Year) MarshalJSON() ([]byte, error) {
	if y.IsAll() {
		return []byte(`"all"`), nil
	}
	return []byte(strconv.Itoa(int(y))), nil
}

// UnmarshalJSON never fails: unusable input decodes to AllYears.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*y = AllYears
			return nil
		}
		*y = ParseYear(s)
		return nil
	}
	*y = ParseYear(string(data))
	return nil
}

// YearRange is an inclusive [Min, Max] bound. A sentinel bound is open-ended,
// so a ["all","all"] range filters nothing.
type YearRange struct {
	Min Year `json:"min"`
	Max Year `json:"max"`
}

// AllYearRange is the unfiltered range.
var AllYearRange = YearRange{Min: AllYears, Max: AllYears}

// IsAll reports whether the range places no bound at all.
func (r YearRange) IsAll() bool {
	return r.Min.IsAll() && r.Max.IsAll()
}

// Contains reports whether y falls inside the range. The sentinel year is always contained.
func (r YearRange) Contains(y Year) bool {
	if y.IsAll() {
		return true
	}
	if !r.Min.IsAll() && y < r.Min {
		return false
	}
	if !r.Max.IsAll() && y > r.Max {
		return false
	}
	return true
}
