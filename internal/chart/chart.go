// Package chart renders the dashboard's figures as PNG images.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/titanic-insights/internal/analysis"
	"github.com/KaramelBytes/titanic-insights/internal/dataset"
)

// Chart names accepted by Build.
const (
	Survival         = "survival"
	SurvivalByClass  = "survival-pclass"
	SurvivalBySex    = "survival-sex"
	SurvivalByPort   = "survival-embarked"
	AgeDistribution  = "age"
	FareDistribution = "fare"
	AgeVsFare        = "age-fare"
)

// Default image size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
}

// Options tunes chart construction.
type Options struct {
	AgeBins  int
	FareBins int
}

// DefaultOptions mirrors the dashboard's histogram resolution.
func DefaultOptions() Options { return Options{AgeBins: 30, FareBins: 50} }

// UnknownChartError reports a chart name Build does not know.
type UnknownChartError struct{ Name string }

func (e *UnknownChartError) Error() string {
	return fmt.Sprintf("unknown chart %q (known: %s)", e.Name, strings.Join(Names(), ", "))
}

// Names lists every chart Build can produce.
func Names() []string {
	return []string{Survival, SurvivalByClass, SurvivalBySex, SurvivalByPort, AgeDistribution, FareDistribution, AgeVsFare}
}

// Build assembles the named chart from d.
func Build(d *dataset.Dataset, name string, opts Options) (*plot.Plot, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Survival:
		v, err := analysis.SurvivalCounts(d)
		if err != nil {
			return nil, err
		}
		return Bar(v, "Overall survival", "Passengers")
	case SurvivalByClass:
		return survivalRateChart(d, dataset.ColPclass, "Survival rate by class")
	case SurvivalBySex:
		return survivalRateChart(d, dataset.ColSex, "Survival rate by sex")
	case SurvivalByPort:
		return survivalRateChart(d, dataset.ColEmbarked, "Survival rate by port of embarkation")
	case AgeDistribution:
		h, err := analysis.NewHistogram(d, dataset.ColAge, opts.AgeBins)
		if err != nil {
			return nil, err
		}
		return Histogram(h, "Age distribution")
	case FareDistribution:
		h, err := analysis.NewHistogram(d, dataset.ColFare, opts.FareBins)
		if err != nil {
			return nil, err
		}
		return Histogram(h, "Fare distribution")
	case AgeVsFare:
		series, err := analysis.Scatter(d, dataset.ColAge, dataset.ColFare, dataset.ColPclass)
		if err != nil {
			return nil, err
		}
		return Scatter(series, "Age vs. fare by class", dataset.ColAge, dataset.ColFare, dataset.ColPclass)
	default:
		return nil, &UnknownChartError{Name: name}
	}
}

func survivalRateChart(d *dataset.Dataset, by, title string) (*plot.Plot, error) {
	v, err := analysis.SurvivalRate(d, by)
	if err != nil {
		return nil, err
	}
	return Bar(v, title, "Survival rate")
}

// Bar draws one bar per group of v, labelled on a nominal X axis.
func Bar(v analysis.View, title, ylabel string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = v.GroupBy
	p.Y.Label.Text = ylabel
	p.Y.Min = 0

	vals := make(plotter.Values, len(v.Groups))
	names := make([]string, len(v.Groups))
	for i, g := range v.Groups {
		names[i] = g.Label
		if v.Stat == analysis.StatMean {
			vals[i] = g.Value
		} else {
			vals[i] = float64(g.Count)
		}
	}
	if len(vals) == 0 {
		return p, nil
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("bar chart %q: %w", title, err)
	}
	bars.Color = palette[0]
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// Histogram draws the precomputed bins of h.
func Histogram(h analysis.Histogram, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = h.Column
	p.Y.Label.Text = "Count"
	if len(h.Bins) == 0 {
		return p, nil
	}
	bins := make([]plotter.HistogramBin, len(h.Bins))
	for i, b := range h.Bins {
		bins[i] = plotter.HistogramBin{Min: b.Lo, Max: b.Hi, Weight: float64(b.Count)}
	}
	width := h.Bins[0].Hi - h.Bins[0].Lo
	if width == 0 {
		// A constant column collapses to a single zero-width bin.
		width = 1
		bins[0].Max = bins[0].Min + width
	}
	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     width,
		FillColor: palette[0],
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(hist)
	return p, nil
}

// Scatter draws one coloured series per group with a legend entry each.
func Scatter(series []analysis.Series, title, xlabel, ylabel, colorBy string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Legend.Top = true

	for i, s := range series {
		pts := make(plotter.XYs, len(s.Points))
		for k, pt := range s.Points {
			pts[k] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("scatter %q: %w", s.Key, err)
		}
		sc.Color = palette[i%len(palette)]
		sc.Shape = draw.CircleGlyph{}
		sc.Radius = vg.Points(2)
		p.Add(sc)
		label := s.Key
		if colorBy != "" {
			label = colorBy + " " + s.Key
		}
		p.Legend.Add(label, sc)
	}
	return p, nil
}

// WritePNG renders p as a PNG of the given size.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
