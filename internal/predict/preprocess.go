package predict

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NumericStep holds the frozen imputation and scaling for one numeric feature.
type NumericStep struct {
	Name   string  `json:"name"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
}

// CategoricalStep holds the frozen imputation and one-hot vocabulary for one
// categorical feature.
type CategoricalStep struct {
	Name       string   `json:"name"`
	Mode       string   `json:"mode"`
	Categories []string `json:"categories"`
}

// Preprocessor turns a raw row into the dense vector the classifier sees.
// Statistics are learned once in fitPreprocessor and never change afterwards.
type Preprocessor struct {
	Numeric     []NumericStep     `json:"numeric"`
	Categorical []CategoricalStep `json:"categorical"`
}

func fitPreprocessor(rows []row) Preprocessor {
	var p Preprocessor
	for j, name := range NumericFeatures {
		vals := make([]float64, 0, len(rows))
		for _, r := range rows {
			if !math.IsNaN(r.num[j]) {
				vals = append(vals, r.num[j])
			}
		}
		med := median(vals)
		if math.IsNaN(med) {
			med = 0
		}
		imputed := make([]float64, len(rows))
		for i, r := range rows {
			imputed[i] = fill(r.num[j], med)
		}
		mean, std := stat.PopMeanStdDev(imputed, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		p.Numeric = append(p.Numeric, NumericStep{Name: name, Median: med, Mean: mean, Scale: std})
	}
	for j, name := range CategoricalFeatures {
		counts := map[string]int{}
		for _, r := range rows {
			if r.cat[j] != "" {
				counts[r.cat[j]]++
			}
		}
		cats := make([]string, 0, len(counts))
		for c := range counts {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		mode := ""
		for _, c := range cats {
			// Ties resolve to the lexically smallest category.
			if mode == "" || counts[c] > counts[mode] {
				mode = c
			}
		}
		p.Categorical = append(p.Categorical, CategoricalStep{Name: name, Mode: mode, Categories: cats})
	}
	return p
}

// Width is the length of transformed vectors.
func (p Preprocessor) Width() int {
	w := len(p.Numeric)
	for _, c := range p.Categorical {
		w += len(c.Categories)
	}
	return w
}

// FeatureNames lists the transformed columns, e.g. "Age" or "Sex=female".
func (p Preprocessor) FeatureNames() []string {
	names := make([]string, 0, p.Width())
	for _, n := range p.Numeric {
		names = append(names, n.Name)
	}
	for _, c := range p.Categorical {
		for _, v := range c.Categories {
			names = append(names, c.Name+"="+v)
		}
	}
	return names
}

// transform imputes, scales and encodes a row. A category never seen during
// fitting encodes as all zeros for that feature.
func (p Preprocessor) transform(r row) []float64 {
	out := make([]float64, 0, p.Width())
	for j, n := range p.Numeric {
		out = append(out, (fill(r.num[j], n.Median)-n.Mean)/n.Scale)
	}
	for j, c := range p.Categorical {
		v := r.cat[j]
		if v == "" {
			v = c.Mode
		}
		for _, cat := range c.Categories {
			if cat == v {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

func fill(v, with float64) float64 {
	if math.IsNaN(v) {
		return with
	}
	return v
}

// median averages the two middle values for even-length input and returns
// NaN when vals is empty.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return (s[m-1] + s[m]) / 2
}
