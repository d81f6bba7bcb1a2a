package analysis

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
)

// Stat names the statistic held by a View.
type Stat string

const (
	StatMean  Stat = "mean"
	StatCount Stat = "count"
)

// Group is one entry of a View.
type Group struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// View maps each distinct non-missing value of a grouping column to a
// statistic. Groups are ordered by key.
type View struct {
	GroupBy string  `json:"group_by"`
	Target  string  `json:"target,omitempty"`
	Stat    Stat    `json:"stat"`
	Groups  []Group `json:"groups"`
}

// Map returns the view as key -> value.
func (v View) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Groups))
	for _, g := range v.Groups {
		m[g.Key] = g.Value
	}
	return m
}

// Total is the sum of group counts.
func (v View) Total() int {
	n := 0
	for _, g := range v.Groups {
		n += g.Count
	}
	return n
}

// GroupMean computes, per distinct value of group, the mean of target over
// rows where both values are present. Rows missing the grouping value are
// excluded entirely and groups with no usable rows are omitted.
func GroupMean(d *dataset.Dataset, group, target string) (View, error) {
	gc, err := d.Column(group)
	if err != nil {
		return View{}, err
	}
	tc, err := d.Column(target)
	if err != nil {
		return View{}, err
	}
	if tc.Kind != dataset.Numeric {
		return View{}, &ColumnError{Column: tc.Name, Reason: fmt.Sprintf("cannot average a %s column", tc.Kind)}
	}
	type acc struct {
		sum float64
		n   int
	}
	accs := map[string]*acc{}
	for i := 0; i < gc.Len(); i++ {
		key, ok := gc.Key(i)
		if !ok {
			continue
		}
		x := tc.Floats[i]
		if math.IsNaN(x) {
			continue
		}
		a := accs[key]
		if a == nil {
			a = &acc{}
			accs[key] = a
		}
		a.sum += x
		a.n++
	}
	keys := make([]string, 0, len(accs))
	for k := range accs {
		keys = append(keys, k)
	}
	gc.SortKeys(keys)
	v := View{GroupBy: gc.Name, Target: tc.Name, Stat: StatMean, Groups: make([]Group, 0, len(keys))}
	for _, k := range keys {
		a := accs[k]
		v.Groups = append(v.Groups, Group{Key: k, Label: k, Value: a.sum / float64(a.n), Count: a.n})
	}
	return v, nil
}

// CountBy counts rows per distinct non-missing value of column.
func CountBy(d *dataset.Dataset, column string) (View, error) {
	c, err := d.Column(column)
	if err != nil {
		return View{}, err
	}
	counts := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if key, ok := c.Key(i); ok {
			counts[key]++
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	c.SortKeys(keys)
	v := View{GroupBy: c.Name, Stat: StatCount, Groups: make([]Group, 0, len(keys))}
	for _, k := range keys {
		v.Groups = append(v.Groups, Group{Key: k, Label: k, Value: float64(counts[k]), Count: counts[k]})
	}
	return v, nil
}

// Survival outcome labels used by the overall survival view.
const (
	LabelSurvived    = "Survived"
	LabelNotSurvived = "Did not survive"
)

// SurvivalCounts is the overall outcome breakdown with human labels.
func SurvivalCounts(d *dataset.Dataset) (View, error) {
	v, err := CountBy(d, dataset.ColSurvived)
	if err != nil {
		return View{}, err
	}
	for i := range v.Groups {
		switch v.Groups[i].Key {
		case "1":
			v.Groups[i].Label = LabelSurvived
		case "0":
			v.Groups[i].Label = LabelNotSurvived
		}
	}
	return v, nil
}

// SurvivalRate is GroupMean(d, group, "Survived").
func SurvivalRate(d *dataset.Dataset, group string) (View, error) {
	return GroupMean(d, group, dataset.ColSurvived)
}
