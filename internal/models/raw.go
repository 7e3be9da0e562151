package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawGeneralRecord is an item as delivered by the general product catalog.
type RawGeneralRecord struct {
	ID               FlexString `json:"id"`
	Name             FlexString `json:"name"`
	ProductName      FlexString `json:"product_name"`
	CategoryName     Categories `json:"category_name"`
	IndustrySolution FlexString `json:"industry_solution"`
	ImageURL         FlexString `json:"image_url"`
	Description      FlexString `json:"description"`
	Lat              FlexFloat  `json:"lat"`
	Lng              FlexFloat  `json:"lng"`
	Country          FlexString `json:"country"`
	Geo              FlexString `json:"geo"`
	CompanyName      FlexString `json:"company_name"`
	CreatedAt        FlexString `json:"created_at"`
	PDFURL           FlexString `json:"pdf_url"`
	RefYear          Year       `json:"ref_year"`
	IsDeclaration    FlexBool   `json:"is_declaration"`
}

// RawDeclarationRecord is an item as delivered by the environmental-declaration catalog.
// The classification and document link arrive under either of two names.
type RawDeclarationRecord struct {
	UUID           FlexString `json:"uuid"`
	Name           FlexString `json:"name"`
	Classific      Categories `json:"classific"`
	Classification Categories `json:"classification"`
	RefYear        Year       `json:"ref_year"`
	PDFURL         FlexString `json:"pdf_url"`
	DocumentURL    FlexString `json:"document_url"`
	Geo            FlexString `json:"geo"`
	Lat            FlexFloat  `json:"lat"`
	Lng            FlexFloat  `json:"lng"`
	Owner          FlexString `json:"owner"`
}

// Categories returns classific, falling back to classification.
func (r RawDeclarationRecord) Categories() Categories {
	if len(r.Classific) > 0 {
		return r.Classific
	}
	return r.Classification
}

// Document returns pdf_url, falling back to document_url.
func (r RawDeclarationRecord) Document() string {
	if r.PDFURL != "" {
		return r.PDFURL.String()
	}
	return r.DocumentURL.String()
}

// Categories holds category membership. Upstream delivers either a single
// (possibly delimited) string or an array; both decode into the slice form.
type Categories []string

// UnmarshalJSON accepts a string, an array of strings or null.
func (c *Categories) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*c = nil
			return nil
		}
		*c = CategoriesOf(s)
	case data[0] == '[':
		var items []FlexString
		if err := json.Unmarshal(data, &items); err != nil {
			*c = nil
			return nil
		}
		out := make(Categories, 0, len(items))
		for _, item := range items {
			if s := strings.TrimSpace(string(item)); s != "" {
				out = append(out, s)
			}
		}
		*c = out
	default:
		*c = nil
	}
	return nil
}

// CategoriesOf wraps a scalar category label.
func CategoriesOf(s string) Categories {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return Categories{s}
}

// FlexString decodes strings and numbers alike; anything else decodes to "".
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*s = ""
			return nil
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	}
	if data[0] == '-' || (data[0] >= '0' && data[0] <= '9') {
		*s = FlexString(data)
		return nil
	}
	*s = ""
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// FlexFloat decodes a coordinate delivered as a number or a numeric string.
// Missing, null or unparsable values leave Valid false.
type FlexFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid FlexFloat holding v.
func Float(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: true}
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = FlexFloat{Value: v, Valid: true}
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f.Value, 'f', -1, 64)), nil
}

// FlexBool decodes booleans delivered as true/false, "true"/"false" or 1/0.
// Anything else decodes to false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	*b = FlexBool(err == nil && v)
	return nil
}
