package server

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/titanic-insights/internal/chart"
	"github.com/KaramelBytes/titanic-insights/internal/dashboard"
	"github.com/KaramelBytes/titanic-insights/internal/dataset"
	"github.com/KaramelBytes/titanic-insights/internal/predict"
)

// Handler serves the dashboard API.
type Handler struct {
	app *dashboard.App
}

// NewHandler binds the API handlers to app.
func NewHandler(app *dashboard.App) *Handler { return &Handler{app: app} }

// Health reports dataset and model status. It fails with 503 when the
// manifest cannot be loaded.
func (h *Handler) Health(c *gin.Context) {
	d, err := h.app.Dataset()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"rows":               d.Len(),
		"dataset_version":    d.Version,
		"prediction_enabled": h.app.PredictionEnabled(),
		"model":              h.app.ModelState(),
	})
}

// Passengers returns one page of raw rows (?offset, ?limit).
func (h *Handler) Passengers(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		writeJSONError(c, http.StatusBadRequest, "invalid offset", err.Error())
		return
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		writeJSONError(c, http.StatusBadRequest, "invalid limit", err.Error())
		return
	}
	page, err := h.app.Passengers(offset, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// summaryJSON is analysis.Summary with NaN rendered as null.
type summaryJSON struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"25%"`
	Q50    *float64 `json:"50%"`
	Q75    *float64 `json:"75%"`
	Max    *float64 `json:"max"`
}

// Describe returns summary statistics for every numeric column.
func (h *Handler) Describe(c *gin.Context) {
	sums, err := h.app.Describe()
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]summaryJSON, 0, len(sums))
	for _, s := range sums {
		out = append(out, summaryJSON{
			Column: s.Column, Count: s.Count,
			Mean: finite(s.Mean), Std: finite(s.Std), Min: finite(s.Min),
			Q25: finite(s.Q25), Q50: finite(s.Q50), Q75: finite(s.Q75), Max: finite(s.Max),
		})
	}
	c.JSON(http.StatusOK, out)
}

// Survival returns the overall survived/did-not-survive counts.
func (h *Handler) Survival(c *gin.Context) {
	rep, err := h.app.Survival()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep.Overall)
}

// SurvivalBy returns the mean survival rate grouped by :column.
func (h *Handler) SurvivalBy(c *gin.Context) {
	v, err := h.app.SurvivalRate(c.Param("column"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Counts returns value counts for :column.
func (h *Handler) Counts(c *gin.Context) {
	v, err := h.app.Counts(c.Param("column"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Distribution returns an equal-width histogram of :column (?bins).
func (h *Handler) Distribution(c *gin.Context) {
	bins, err := queryInt(c, "bins", 0)
	if err != nil || bins < 0 {
		writeJSONError(c, http.StatusBadRequest, "invalid bins", c.Query("bins"))
		return
	}
	hist, err := h.app.Histogram(c.Param("column"), bins)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hist)
}

// Scatter returns x/y points split into series by the color column.
func (h *Handler) Scatter(c *gin.Context) {
	x := c.DefaultQuery("x", dataset.ColAge)
	y := c.DefaultQuery("y", dataset.ColFare)
	color := c.DefaultQuery("color", dataset.ColPclass)
	series, err := h.app.Scatter(x, y, color)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"x": x, "y": y, "color": color, "series": series})
}

// Chart renders the named chart as a PNG.
func (h *Handler) Chart(c *gin.Context) {
	p, err := h.app.Chart(c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, p, chart.DefaultWidth, chart.DefaultHeight); err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Predict scores the JSON passenger profile in the request body.
func (h *Handler) Predict(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeJSONError(c, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}
	q, err := queryFromJSON(body)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.app.Predict(q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// queryFromJSON accepts numbers or strings per feature; null means missing.
func queryFromJSON(body map[string]interface{}) (predict.Query, error) {
	q := predict.Query{}
	invalid := map[string]string{}
	for k, v := range body {
		switch t := v.(type) {
		case nil:
			q[k] = ""
		case string:
			q[k] = t
		case float64:
			q[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			invalid[k] = fmt.Sprint(t)
		}
	}
	if len(invalid) > 0 {
		return nil, &predict.SchemaMismatchError{Invalid: invalid}
	}
	return q, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
