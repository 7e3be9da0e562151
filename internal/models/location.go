package models

import (
	"time"
)

// UnknownCountry is used when a record carries no resolvable country.
const UnknownCountry = "unknown"

// Catalog identifies the upstream catalog a record was delivered by.
type Catalog string

const (
	CatalogGeneral     Catalog = "general"
	CatalogDeclaration Catalog = "declaration"
)

// Location is the canonical, displayable product entity produced by the normalizer.
// Every Location carries finite coordinates; records without them never become a Location.
type Location struct {
	ID               string     `json:"id"`
	ProductName      string     `json:"product_name"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Country          string     `json:"country"`
	ReferenceYear    Year       `json:"reference_year"`
	IsDeclaration    bool       `json:"is_declaration"`
	SourceCatalog    Catalog    `json:"source_catalog"`
	Categories       Categories `json:"categories"`
	IndustrySolution string     `json:"industry_solution,omitempty"`
	DocumentURL      string     `json:"document_url,omitempty"`
	CompanyName      string     `json:"company_name,omitempty"`
	Description      string     `json:"description,omitempty"`
	ImageURL         string     `json:"image_url,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
}

// FromGeneralCatalog reports whether the location was delivered by the general catalog.
func (l Location) FromGeneralCatalog() bool {
	return l.SourceCatalog == CatalogGeneral
}

// WithCoordinates returns a copy of l placed at lat/lng.
func (l Location) WithCoordinates(lat, lng float64) Location {
	l.Latitude = lat
	l.Longitude = lng
	return l
}

// Point is a bare coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
