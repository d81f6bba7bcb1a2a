package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
)

// Summary holds descriptive statistics for one numeric column. Missing
// values are excluded; Std is the sample (N-1) standard deviation and is NaN
// for fewer than two values.
type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Q50    float64 `json:"q50"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Describe summarizes every numeric column in header order.
func Describe(d *dataset.Dataset) ([]Summary, error) {
	cols := dataset.NumericColumns()
	out := make([]Summary, 0, len(cols))
	for _, name := range cols {
		c, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(name, c.Present()))
	}
	return out, nil
}

// Summarize computes descriptive statistics over vals.
func Summarize(name string, vals []float64) Summary {
	s := Summary{Column: name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	if len(sorted) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean, s.Std = sorted[0], math.NaN()
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// DescribeMarkdown renders summaries as a statistics-by-column table, the
// same shape as a dataframe describe().
func DescribeMarkdown(sums []Summary) string {
	var b strings.Builder
	b.WriteString("| stat |")
	for _, s := range sums {
		b.WriteString(" ")
		b.WriteString(s.Column)
		b.WriteString(" |")
	}
	b.WriteString("\n|---|")
	for range sums {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	rows := []struct {
		name string
		get  func(Summary) float64
	}{
		{"count", func(s Summary) float64 { return float64(s.Count) }},
		{"mean", func(s Summary) float64 { return s.Mean }},
		{"std", func(s Summary) float64 { return s.Std }},
		{"min", func(s Summary) float64 { return s.Min }},
		{"25%", func(s Summary) float64 { return s.Q25 }},
		{"50%", func(s Summary) float64 { return s.Q50 }},
		{"75%", func(s Summary) float64 { return s.Q75 }},
		{"max", func(s Summary) float64 { return s.Max }},
	}
	for _, r := range rows {
		b.WriteString("| ")
		b.WriteString(r.name)
		b.WriteString(" |")
		for _, s := range sums {
			b.WriteString(" ")
			b.WriteString(formatStat(r.get(s)))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}
