package predict

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
)

// Feature columns consumed by the pipeline.
var (
	NumericFeatures     = []string{dataset.ColAge, dataset.ColSibSp, dataset.ColParch, dataset.ColFare}
	CategoricalFeatures = []string{dataset.ColPclass, dataset.ColSex, dataset.ColEmbarked}
	Features            = []string{
		dataset.ColPclass, dataset.ColSex, dataset.ColAge, dataset.ColSibSp,
		dataset.ColParch, dataset.ColFare, dataset.ColEmbarked,
	}
)

// Query is one passenger profile to score, keyed by feature name. A key
// that is absent is a schema violation; an empty value is a missing value
// and is imputed with the statistics frozen at fit time.
type Query map[string]string

// NewQuery builds a fully specified query.
func NewQuery(pclass int, sex string, age float64, sibsp, parch int, fare float64, embarked string) Query {
	return Query{
		dataset.ColPclass:   strconv.Itoa(pclass),
		dataset.ColSex:      sex,
		dataset.ColAge:      strconv.FormatFloat(age, 'f', -1, 64),
		dataset.ColSibSp:    strconv.Itoa(sibsp),
		dataset.ColParch:    strconv.Itoa(parch),
		dataset.ColFare:     strconv.FormatFloat(fare, 'f', -1, 64),
		dataset.ColEmbarked: embarked,
	}
}

// QueryFromPassenger turns a dataset row into a query (missing values stay
// missing).
func QueryFromPassenger(p dataset.Passenger) Query {
	q := NewQuery(p.Pclass, p.Sex, 0, p.SibSp, p.Parch, 0, p.Embarked)
	q[dataset.ColAge] = optString(p.Age)
	q[dataset.ColFare] = optString(p.Fare)
	return q
}

func optString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// row is a parsed feature vector before imputation.
type row struct {
	num [4]float64 // NumericFeatures order; NaN = missing
	cat [3]string  // CategoricalFeatures order; "" = missing
}

// integral lists the features whose values must be whole numbers.
var integral = map[string]bool{
	dataset.ColPclass: true,
	dataset.ColSibSp:  true,
	dataset.ColParch:  true,
}

// parseNumber accepts finite numbers; integral features also reject
// fractions such as "1.5".
func parseNumber(feature, v string) (float64, bool) {
	x, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	if integral[feature] && x != math.Trunc(x) {
		return 0, false
	}
	return x, true
}

// parse resolves feature names case-insensitively and validates values.
func (q Query) parse() (row, error) {
	norm := make(map[string]string, len(q))
	for k, v := range q {
		if canon, ok := dataset.CanonicalColumn(k); ok {
			norm[canon] = strings.TrimSpace(v)
		}
	}
	var r row
	mismatch := &SchemaMismatchError{}
	invalid := func(f, v string) {
		if mismatch.Invalid == nil {
			mismatch.Invalid = map[string]string{}
		}
		mismatch.Invalid[f] = v
	}
	for i, f := range NumericFeatures {
		v, ok := norm[f]
		if !ok {
			mismatch.Missing = append(mismatch.Missing, f)
			continue
		}
		if v == "" {
			r.num[i] = math.NaN()
			continue
		}
		x, ok := parseNumber(f, v)
		if !ok {
			invalid(f, v)
			continue
		}
		r.num[i] = x
	}
	for i, f := range CategoricalFeatures {
		v, ok := norm[f]
		if !ok {
			mismatch.Missing = append(mismatch.Missing, f)
			continue
		}
		c, ok := normalizeCategory(f, v)
		if !ok {
			invalid(f, v)
			continue
		}
		r.cat[i] = c
	}
	if len(mismatch.Missing) > 0 || len(mismatch.Invalid) > 0 {
		sort.Strings(mismatch.Missing)
		return row{}, mismatch
	}
	return r, nil
}

// normalizeCategory maps a raw value onto the spelling used at fit time.
// Pclass is a category of the model but must still be a whole number.
func normalizeCategory(feature, v string) (string, bool) {
	switch feature {
	case dataset.ColSex:
		return strings.ToLower(v), true
	case dataset.ColEmbarked:
		return strings.ToUpper(v), true
	case dataset.ColPclass:
		if v == "" {
			return "", true
		}
		x, ok := parseNumber(feature, v)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return v, true
}

func passengerRow(p dataset.Passenger) row {
	var r row
	r.num[0] = optFloat(p.Age)
	r.num[1] = float64(p.SibSp)
	r.num[2] = float64(p.Parch)
	r.num[3] = optFloat(p.Fare)
	r.cat[0] = strconv.Itoa(p.Pclass)
	r.cat[1] = p.Sex
	r.cat[2] = p.Embarked
	return r
}

func optFloat(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// FormBounds are the input ranges offered by the prediction form.
var FormBounds = map[string][2]float64{
	dataset.ColPclass: {1, 3},
	dataset.ColAge:    {0, 100},
	dataset.ColFare:   {0, 513},
	dataset.ColSibSp:  {0, 10},
	dataset.ColParch:  {0, 10},
}

// ValidateForm checks bounded numeric inputs. Values that are empty or not
// valid numbers are left to Model.Predict, which reports them as schema
// mismatches.
func ValidateForm(q Query) error {
	norm := make(map[string]string, len(q))
	for k, v := range q {
		if canon, ok := dataset.CanonicalColumn(k); ok {
			norm[canon] = strings.TrimSpace(v)
		}
	}
	// Report in feature order so the first offending field is stable.
	for _, f := range Features {
		b, bounded := FormBounds[f]
		if !bounded {
			continue
		}
		x, ok := parseNumber(f, norm[f])
		if !ok {
			continue
		}
		if x < b[0] || x > b[1] {
			return &RangeError{Field: f, Value: x, Min: b[0], Max: b[1]}
		}
	}
	return nil
}
