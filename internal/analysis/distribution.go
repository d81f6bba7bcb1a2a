package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
)

// Bin is one histogram bucket covering [Lo, Hi); the last bin is closed.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram counts the non-missing values of a numeric column.
type Histogram struct {
	Column string    `json:"column"`
	Bins   []Bin     `json:"bins"`
	Values []float64 `json:"-"`
}

// Total is the number of values counted.
func (h Histogram) Total() int {
	n := 0
	for _, b := range h.Bins {
		n += b.Count
	}
	return n
}

// NewHistogram splits [min, max] of column into bins equal-width buckets.
func NewHistogram(d *dataset.Dataset, column string, bins int) (Histogram, error) {
	if bins <= 0 {
		return Histogram{}, &ColumnError{Column: column, Reason: "bins must be > 0"}
	}
	c, err := d.Column(column)
	if err != nil {
		return Histogram{}, err
	}
	if c.Kind != dataset.Numeric {
		return Histogram{}, &ColumnError{Column: c.Name, Reason: fmt.Sprintf("cannot bin a %s column", c.Kind)}
	}
	vals := c.Present()
	h := Histogram{Column: c.Name, Values: vals}
	if len(vals) == 0 {
		return h, nil
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo == hi {
		h.Bins = []Bin{{Lo: lo, Hi: hi, Count: len(vals)}}
		return h, nil
	}
	width := (hi - lo) / float64(bins)
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i].Lo = lo + float64(i)*width
		h.Bins[i].Hi = lo + float64(i+1)*width
	}
	h.Bins[bins-1].Hi = hi
	for _, v := range vals {
		i := int(math.Floor((v - lo) / width))
		if i >= bins {
			i = bins - 1
		}
		h.Bins[i].Count++
	}
	return h, nil
}

// Point is one scatter observation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is the set of points sharing one colour key.
type Series struct {
	Key    string  `json:"key"`
	Points []Point `json:"points"`
}

// Scatter pairs x and y for rows where both are present, split by the
// colour column. Rows with a missing colour value are dropped.
func Scatter(d *dataset.Dataset, x, y, colorBy string) ([]Series, error) {
	xc, err := d.Column(x)
	if err != nil {
		return nil, err
	}
	yc, err := d.Column(y)
	if err != nil {
		return nil, err
	}
	if xc.Kind != dataset.Numeric || yc.Kind != dataset.Numeric {
		return nil, &ColumnError{Column: xc.Name + "/" + yc.Name, Reason: "scatter axes must be numeric"}
	}
	var cc *dataset.Column
	if colorBy != "" {
		c, err := d.Column(colorBy)
		if err != nil {
			return nil, err
		}
		cc = &c
	}
	byKey := map[string][]Point{}
	for i := 0; i < xc.Len(); i++ {
		if xc.Missing(i) || yc.Missing(i) {
			continue
		}
		key := "all"
		if cc != nil {
			k, ok := cc.Key(i)
			if !ok {
				continue
			}
			key = k
		}
		byKey[key] = append(byKey[key], Point{X: xc.Floats[i], Y: yc.Floats[i]})
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	if cc != nil {
		cc.SortKeys(keys)
	}
	out := make([]Series, 0, len(keys))
	for _, k := range keys {
		out = append(out, Series{Key: k, Points: byKey[k]})
	}
	return out, nil
}
