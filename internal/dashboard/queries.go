package dashboard

import (
	"strings"

	"github.com/KaramelBytes/titanic-insights/internal/analysis"
	"github.com/KaramelBytes/titanic-insights/internal/dataset"
)

// Page is a window of raw rows.
type Page struct {
	Total  int                 `json:"total"`
	Offset int                 `json:"offset"`
	Limit  int                 `json:"limit"`
	Rows   []dataset.Passenger `json:"rows"`
}

// Passengers returns rows [offset, offset+limit); limit <= 0 means the rest.
func (a *App) Passengers(offset, limit int) (Page, error) {
	d, err := a.Dataset()
	if err != nil {
		return Page{}, err
	}
	return Page{Total: d.Len(), Offset: offset, Limit: limit, Rows: d.Rows(offset, limit)}, nil
}

// Describe returns descriptive statistics for every numeric column.
func (a *App) Describe() ([]analysis.Summary, error) {
	d, err := a.Dataset()
	if err != nil {
		return nil, err
	}
	return analysis.Describe(d)
}

// SurvivalRate is the mean of Survived grouped by column.
func (a *App) SurvivalRate(column string) (analysis.View, error) {
	d, err := a.Dataset()
	if err != nil {
		return analysis.View{}, err
	}
	return analysis.SurvivalRate(d, column)
}

// Counts tallies rows per value of column.
func (a *App) Counts(column string) (analysis.View, error) {
	d, err := a.Dataset()
	if err != nil {
		return analysis.View{}, err
	}
	return analysis.CountBy(d, column)
}

// Histogram bins column; bins <= 0 picks the configured resolution for Age
// and Fare.
func (a *App) Histogram(column string, bins int) (analysis.Histogram, error) {
	d, err := a.Dataset()
	if err != nil {
		return analysis.Histogram{}, err
	}
	if bins <= 0 {
		bins = a.opts.Charts.AgeBins
		if strings.EqualFold(strings.TrimSpace(column), dataset.ColFare) {
			bins = a.opts.Charts.FareBins
		}
	}
	return analysis.NewHistogram(d, column, bins)
}

// Scatter pairs two numeric columns, split into series by colorBy.
func (a *App) Scatter(x, y, colorBy string) ([]analysis.Series, error) {
	d, err := a.Dataset()
	if err != nil {
		return nil, err
	}
	return analysis.Scatter(d, x, y, colorBy)
}
