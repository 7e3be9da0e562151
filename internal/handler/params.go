package handler

import (
	"epd-map-api/internal/models"
	"epd-map-api/internal/selection"

	"github.com/gin-gonic/gin"
)

// filterParams are the query parameters shared by the filter endpoints
type filterParams struct {
	Country         string `form:"country"`
	Category        string `form:"category"`
	YearMin         string `form:"year_min"`
	YearMax         string `form:"year_max"`
	DeclarationOnly bool   `form:"declaration_only"`
	Query           string `form:"q"`
}

// bindFilterParams parses the filter query parameters. Year bounds that are
// not whole numbers are read as "all" rather than rejected.
func bindFilterParams(c *gin.Context) (filterParams, error) {
	var p filterParams
	if err := c.ShouldBindQuery(&p); err != nil {
		return filterParams{}, err
	}
	return p, nil
}

func (p filterParams) filters() selection.Filters {
	return selection.Filters{
		Country:  p.Country,
		Category: p.Category,
		YearRange: models.YearRange{
			Min: models.ParseYear(p.YearMin),
			Max: models.ParseYear(p.YearMax),
		},
		DeclarationOnly: p.DeclarationOnly,
	}
}

func (p filterParams) criteria() models.FilterCriteria {
	f := p.filters()
	return models.FilterCriteria{
		Country:         f.Country,
		YearRange:       f.YearRange,
		Category:        f.Category,
		DeclarationOnly: f.DeclarationOnly,
	}
}
