package predict

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"sync"
	"testing"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
	"github.com/KaramelBytes/titanic-insights/internal/dataset/datasettest"
)

func manifest(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ReadFile(datasettest.WriteManifest(t))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	return ds
}

func fitManifest(t *testing.T) *Model {
	t.Helper()
	m, err := Fit(manifest(t), DefaultTrainOptions())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return m
}

// endToEnd are the reference profiles every fitted manifest must classify.
var endToEnd = []struct {
	name string
	q    Query
	want Label
}{
	{"first class woman", NewQuery(1, "female", 29, 0, 0, 211.34, "S"), Survived},
	{"third class man", NewQuery(3, "male", 25, 0, 0, 7.25, "S"), DidNotSurvive},
}

func checkEndToEnd(t *testing.T, m *Model) {
	t.Helper()
	for _, tc := range endToEnd {
		t.Run(tc.name, func(t *testing.T) {
			res, err := m.Predict(tc.q)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if res.Label != tc.want {
				t.Fatalf("label = %s (p=%.3f), want %s", res.Label, res.SurvivalProbability, tc.want)
			}
			if res.Probability <= 0.5 || res.Probability > 1 {
				t.Fatalf("confidence out of range: %v", res.Probability)
			}
			again, err := m.Predict(tc.q)
			if err != nil || again != res {
				t.Fatalf("second prediction = %+v (%v), first = %+v", again, err, res)
			}
		})
	}
}

// accuracy is the share of rows in d whose label m reproduces.
func accuracy(m *Model, d *dataset.Dataset) float64 {
	hits := 0
	for i := 0; i < d.Len(); i++ {
		p := d.Row(i)
		res, err := m.Predict(QueryFromPassenger(p))
		if err != nil {
			continue
		}
		if (res.Label == Survived) == (p.Survived == 1) {
			hits++
		}
	}
	return float64(hits) / float64(d.Len())
}

func TestPredictClassAndSex(t *testing.T) {
	m := fitManifest(t)
	checkEndToEnd(t, m)
	if acc := accuracy(m, manifest(t)); acc < 0.7 {
		t.Fatalf("training accuracy = %.3f, want >= 0.7", acc)
	}
}

func TestPredictRealManifest(t *testing.T) {
	path := os.Getenv("TITANIC_CSV")
	if path == "" {
		path = filepath.Join("..", "..", "data", "titanic.csv")
	}
	if _, err := os.Stat(path); err != nil {
		t.Skipf("real manifest not available at %s", path)
	}
	ds, err := dataset.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	m, err := Fit(ds, DefaultTrainOptions())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	checkEndToEnd(t, m)
}

func TestPredictUnseenCategory(t *testing.T) {
	m := fitManifest(t)
	res, err := m.Predict(NewQuery(2, "female", 40, 1, 1, 20, "X"))
	if err != nil {
		t.Fatalf("unseen category should not fail: %v", err)
	}
	if res.Label != Survived && res.Label != DidNotSurvive {
		t.Fatalf("label = %q", res.Label)
	}
	r, _ := NewQuery(2, "female", 40, 1, 1, 20, "X").parse()
	vec := m.Pre.transform(r)
	embarked := m.Pre.Categorical[2]
	tail := vec[len(vec)-len(embarked.Categories):]
	for i, v := range tail {
		if v != 0 {
			t.Fatalf("Embarked=%s encoded as %v", embarked.Categories[i], tail)
		}
	}
}

func TestPredictSchemaMismatch(t *testing.T) {
	m := fitManifest(t)

	q := NewQuery(1, "female", 30, 0, 0, 100, "S")
	delete(q, "Sex")
	_, err := m.Predict(q)
	var sm *SchemaMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("err = %v, want SchemaMismatchError", err)
	}
	if !reflect.DeepEqual(sm.Missing, []string{"Sex"}) {
		t.Fatalf("missing = %v", sm.Missing)
	}

	q = NewQuery(1, "female", 30, 0, 0, 100, "S")
	q["Age"] = "old"
	if _, err := m.Predict(q); !errors.As(err, &sm) || sm.Invalid["Age"] != "old" {
		t.Fatalf("err = %v, want invalid Age", err)
	}

	cases := []struct {
		field, value string
	}{
		{"Pclass", "abc"},
		{"Pclass", "1.5"},
		{"Age", "NaN"},
		{"Fare", "Inf"},
		{"SibSp", "0.5"},
		{"Parch", "1.25"},
	}
	for _, tc := range cases {
		q := NewQuery(1, "female", 30, 0, 0, 100, "S")
		q[tc.field] = tc.value
		_, err := m.Predict(q)
		if !errors.As(err, &sm) || sm.Invalid[tc.field] != tc.value {
			t.Fatalf("%s=%q: err = %v, want invalid %s", tc.field, tc.value, err, tc.field)
		}
	}

	q = NewQuery(1, "female", 30, 0, 0, 100, "S")
	q["SibSp"] = "1.0"
	if _, err := m.Predict(q); err != nil {
		t.Fatalf("whole-number float SibSp rejected: %v", err)
	}
}

func TestPredictImputesEmptyValues(t *testing.T) {
	m := fitManifest(t)
	blank := NewQuery(3, "male", 0, 0, 0, 8, "")
	blank["Age"] = ""
	got, err := m.Predict(blank)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	filled := NewQuery(3, "male", m.Pre.Numeric[0].Median, 0, 0, 8, m.Pre.Categorical[2].Mode)
	want, err := m.Predict(filled)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != want {
		t.Fatalf("blank = %+v, imputed = %+v", got, want)
	}
}

func TestPredictCaseInsensitiveKeys(t *testing.T) {
	m := fitManifest(t)
	q := Query{"pclass": "1.0", "sex": "FEMALE", "age": "30", "sibsp": "0", "parch": "0", "fare": "100", "embarked": "s"}
	got, err := m.Predict(q)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	want, _ := m.Predict(NewQuery(1, "female", 30, 0, 0, 100, "S"))
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestFitConstantTarget(t *testing.T) {
	rows := make([]dataset.Passenger, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, dataset.Passenger{
			PassengerID: i + 1,
			Pclass:      1 + i%3,
			Sex:         []string{"male", "female"}[i%2],
			Age:         dataset.Float(float64(20 + i)),
			Fare:        dataset.Float(float64(10 + i)),
			Embarked:    "S",
		})
	}
	m, err := Fit(dataset.New("mem", "v1", rows), DefaultTrainOptions())
	if err != nil {
		t.Fatalf("constant target should still fit: %v", err)
	}
	for _, q := range []Query{
		NewQuery(1, "female", 30, 0, 0, 100, "S"),
		NewQuery(3, "male", 60, 2, 2, 5, "C"),
	} {
		res, err := m.Predict(q)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		if res.Label != DidNotSurvive {
			t.Fatalf("label = %s, want DidNotSurvive", res.Label)
		}
	}
}

func TestFitErrors(t *testing.T) {
	if _, err := Fit(dataset.New("mem", "v0", nil), DefaultTrainOptions()); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
	ds := dataset.New("mem", "v1", []dataset.Passenger{{PassengerID: 1, Pclass: 1, Sex: "male"}})
	if _, err := Fit(ds, TrainOptions{}); err == nil {
		t.Fatalf("expected error for zero options")
	}
}

func TestFitDeterministic(t *testing.T) {
	ds := manifest(t)
	a, err := Fit(ds, DefaultTrainOptions())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	b, _ := Fit(ds, DefaultTrainOptions())
	if !reflect.DeepEqual(a.Clf, b.Clf) || !reflect.DeepEqual(a.Pre, b.Pre) {
		t.Fatalf("two fits differ")
	}
	if a.ID == b.ID {
		t.Fatalf("model IDs should be unique")
	}
}

func TestPreprocessorStatistics(t *testing.T) {
	nan := math.NaN()
	rows := []row{
		{num: [4]float64{10, 0, 0, 5}, cat: [3]string{"1", "male", "C"}},
		{num: [4]float64{nan, 1, 0, 5}, cat: [3]string{"1", "female", "S"}},
		{num: [4]float64{30, 0, 2, 5}, cat: [3]string{"3", "male", "S"}},
		{num: [4]float64{20, 1, 0, 5}, cat: [3]string{"2", "female", "C"}},
		{num: [4]float64{40, 0, 0, 5}, cat: [3]string{"3", "male", ""}},
	}
	p := fitPreprocessor(rows)
	if p.Numeric[0].Median != 25 {
		t.Fatalf("age median = %v, want 25", p.Numeric[0].Median)
	}
	if p.Numeric[3].Scale != 1 {
		t.Fatalf("constant fare scale = %v, want 1", p.Numeric[3].Scale)
	}
	if p.Categorical[2].Mode != "C" {
		t.Fatalf("embarked tie mode = %q, want C", p.Categorical[2].Mode)
	}
	if !reflect.DeepEqual(p.Categorical[0].Categories, []string{"1", "2", "3"}) {
		t.Fatalf("pclass categories = %v", p.Categorical[0].Categories)
	}
	if p.Width() != 4+3+2+2 || len(p.FeatureNames()) != p.Width() {
		t.Fatalf("width = %d, names = %v", p.Width(), p.FeatureNames())
	}
	vec := p.transform(rows[1])
	if vec[0] != (25-p.Numeric[0].Mean)/p.Numeric[0].Scale {
		t.Fatalf("imputed age not scaled from the median: %v", vec[0])
	}
}

func TestValidateForm(t *testing.T) {
	if err := ValidateForm(NewQuery(1, "female", 30, 0, 0, 100, "S")); err != nil {
		t.Fatalf("valid form: %v", err)
	}
	bad := NewQuery(1, "female", 120, 0, 0, 100, "S")
	var re *RangeError
	if err := ValidateForm(bad); !errors.As(err, &re) || re.Field != "Age" {
		t.Fatalf("err = %v, want Age RangeError", err)
	}
	bad = NewQuery(4, "female", 30, 0, 0, 100, "S")
	if err := ValidateForm(bad); !errors.As(err, &re) || re.Field != "Pclass" {
		t.Fatalf("err = %v, want Pclass RangeError", err)
	}
	blank := NewQuery(1, "female", 30, 0, 0, 100, "S")
	blank["Fare"] = ""
	if err := ValidateForm(blank); err != nil {
		t.Fatalf("blank values are imputed, not range errors: %v", err)
	}
}

func TestCacheFitsOncePerVersion(t *testing.T) {
	ds := manifest(t)
	c := NewCache(DefaultTrainOptions())
	if s := c.State(ds.Version); s != StateUntrained {
		t.Fatalf("state = %s", s)
	}
	var wg sync.WaitGroup
	models := make([]*Model, 8)
	for i := range models {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := c.Get(ds)
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			models[i] = m
		}(i)
	}
	wg.Wait()
	for i, m := range models {
		if m != models[0] {
			t.Fatalf("caller %d got a different model", i)
		}
	}
	if c.Fits() != 1 {
		t.Fatalf("fits = %d, want 1", c.Fits())
	}
	if s := c.State(ds.Version); s != StateTrained {
		t.Fatalf("state = %s", s)
	}

	other := dataset.New(ds.Source, ds.Version+"-next", ds.Rows(0, 0))
	if _, err := c.Get(other); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Fits() != 2 {
		t.Fatalf("fits = %d, want 2 after version change", c.Fits())
	}
}

func TestQueryFromPassengerKeepsMissing(t *testing.T) {
	q := QueryFromPassenger(dataset.Passenger{Pclass: 2, Sex: "male", SibSp: 1})
	if q["Age"] != "" || q["Fare"] != "" || q["Pclass"] != strconv.Itoa(2) {
		t.Fatalf("query = %v", q)
	}
}
