package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/titanic-insights/internal/analysis"
	"github.com/KaramelBytes/titanic-insights/internal/chart"
	"github.com/KaramelBytes/titanic-insights/internal/dashboard"
	"github.com/KaramelBytes/titanic-insights/internal/dataset"
	"github.com/KaramelBytes/titanic-insights/internal/predict"
)

type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSONError(c *gin.Context, status int, message, details string) {
	c.AbortWithStatusJSON(status, jsonError{Error: message, Details: details})
}

// fail maps a domain error onto an HTTP status and JSON body.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	var (
		loadErr   *dataset.DataLoadError
		unknown   *dataset.UnknownColumnError
		colErr    *analysis.ColumnError
		chartErr  *chart.UnknownChartError
		schemaErr *predict.SchemaMismatchError
		rangeErr  *predict.RangeError
	)
	switch {
	case errors.As(err, &loadErr):
		writeJSONError(c, http.StatusServiceUnavailable, "dataset unavailable", loadErr.Error())
	case errors.As(err, &unknown), errors.As(err, &colErr):
		writeJSONError(c, http.StatusBadRequest, "invalid column", err.Error())
	case errors.As(err, &chartErr):
		writeJSONError(c, http.StatusNotFound, "unknown chart", err.Error())
	case errors.As(err, &schemaErr), errors.As(err, &rangeErr):
		writeJSONError(c, http.StatusUnprocessableEntity, "invalid prediction input", err.Error())
	case errors.Is(err, dashboard.ErrPredictionDisabled):
		writeJSONError(c, http.StatusNotFound, "prediction disabled", "")
	default:
		writeJSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
