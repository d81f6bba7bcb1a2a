package analysis

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
	"github.com/KaramelBytes/titanic-insights/internal/dataset/datasettest"
)

var csvRows = []string{
	"PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked",
	"1,0,3,a,male,22,1,0,t1,7.25,,S",
	"2,1,1,b,female,38,1,0,t2,71.28,C85,C",
	"3,1,3,c,female,26,0,0,t3,7.92,,S",
	"4,1,1,d,female,35,1,0,t4,53.1,C123,S",
	"5,0,3,e,male,35,0,0,t5,8.05,,S",
	"6,0,3,f,male,,0,0,t6,8.46,,Q",
	"7,0,1,g,male,54,0,0,t7,51.86,E46,S",
	"8,0,3,h,male,2,3,1,t8,21.08,,S",
	"9,1,3,i,female,27,0,2,t9,11.13,,S",
	"10,1,2,j,female,14,1,0,t10,30.07,,C",
	"11,1,1,k,female,62,0,0,t11,80,B28,",
}

func loadFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	p := filepath.Join(t.TempDir(), "titanic.csv")
	if err := os.WriteFile(p, []byte(strings.Join(csvRows, "\n")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	ds, err := dataset.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return ds
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestGroupMeanByClass(t *testing.T) {
	ds := loadFixture(t)
	v, err := GroupMean(ds, "Pclass", "Survived")
	if err != nil {
		t.Fatalf("GroupMean: %v", err)
	}
	keys := []string{}
	for _, g := range v.Groups {
		keys = append(keys, g.Key)
	}
	if !reflect.DeepEqual(keys, []string{"1", "2", "3"}) {
		t.Fatalf("keys = %v", keys)
	}
	m := v.Map()
	if !approx(m["1"], 0.75) || !approx(m["2"], 1) || !approx(m["3"], 2.0/6.0) {
		t.Fatalf("means = %v", m)
	}
}

func TestGroupMeanDropsMissingGroupValues(t *testing.T) {
	ds := loadFixture(t)
	v, err := SurvivalRate(ds, "Embarked")
	if err != nil {
		t.Fatalf("SurvivalRate: %v", err)
	}
	if _, ok := v.Map()[""]; ok {
		t.Fatalf("missing Embarked must not form a group")
	}
	if v.Total() != 10 {
		t.Fatalf("total = %d, want 10 (one row lacks Embarked)", v.Total())
	}
	if len(v.Groups) != 3 {
		t.Fatalf("groups = %d, want C, Q, S", len(v.Groups))
	}
}

func TestGroupMeanIgnoresMissingTarget(t *testing.T) {
	ds := loadFixture(t)
	v, err := GroupMean(ds, "Sex", "Age")
	if err != nil {
		t.Fatalf("GroupMean: %v", err)
	}
	for _, g := range v.Groups {
		if g.Key == "male" && g.Count != 4 {
			t.Fatalf("male age count = %d, want 4", g.Count)
		}
	}
	want := (22.0 + 35 + 54 + 2) / 4
	if got := v.Map()["male"]; !approx(got, want) {
		t.Fatalf("male mean age = %v, want %v", got, want)
	}
}

func TestGroupMeanIsDeterministic(t *testing.T) {
	ds, err := dataset.ReadFile(datasettest.WriteManifest(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	a, err := GroupMean(ds, "Embarked", "Fare")
	if err != nil {
		t.Fatalf("GroupMean: %v", err)
	}
	for i := 0; i < 5; i++ {
		b, _ := GroupMean(ds, "Embarked", "Fare")
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("run %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestCountByKeysMatchDistinctValues(t *testing.T) {
	ds, err := dataset.ReadFile(datasettest.WriteManifest(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	v, err := CountBy(ds, "Embarked")
	if err != nil {
		t.Fatalf("CountBy: %v", err)
	}
	col, _ := ds.Column("Embarked")
	distinct := map[string]bool{}
	present := 0
	for i := 0; i < col.Len(); i++ {
		if k, ok := col.Key(i); ok {
			distinct[k] = true
			present++
		}
	}
	if len(v.Groups) != len(distinct) {
		t.Fatalf("keys = %d, want %d", len(v.Groups), len(distinct))
	}
	for _, g := range v.Groups {
		if !distinct[g.Key] {
			t.Fatalf("unexpected key %q", g.Key)
		}
	}
	if v.Total() != present || present != ds.Len()-2 {
		t.Fatalf("total = %d, present = %d, rows = %d", v.Total(), present, ds.Len())
	}
}

func TestSurvivalCountsLabels(t *testing.T) {
	ds := loadFixture(t)
	v, err := SurvivalCounts(ds)
	if err != nil {
		t.Fatalf("SurvivalCounts: %v", err)
	}
	if len(v.Groups) != 2 {
		t.Fatalf("groups = %+v", v.Groups)
	}
	if v.Groups[0].Label != LabelNotSurvived || v.Groups[0].Count != 5 {
		t.Fatalf("first = %+v", v.Groups[0])
	}
	if v.Groups[1].Label != LabelSurvived || v.Groups[1].Count != 6 {
		t.Fatalf("second = %+v", v.Groups[1])
	}
}

func TestUnknownColumn(t *testing.T) {
	ds := loadFixture(t)
	if _, err := GroupMean(ds, "Deck", "Survived"); err == nil {
		t.Fatalf("expected error for unknown column")
	}
	if _, err := GroupMean(ds, "Pclass", "Sex"); err == nil {
		t.Fatalf("expected error for categorical target")
	}
}

func TestSummarizeKnownValues(t *testing.T) {
	s := Summarize("x", []float64{5, 3, 1, 4, 2})
	if s.Count != 5 || !approx(s.Mean, 3) || s.Min != 1 || s.Max != 5 {
		t.Fatalf("summary = %+v", s)
	}
	if math.Abs(s.Std-1.5811388300841898) > 1e-9 {
		t.Fatalf("std = %v, want ~1.581", s.Std)
	}
	if s.Q25 != 2 || s.Q50 != 3 || s.Q75 != 4 {
		t.Fatalf("quartiles = %v %v %v", s.Q25, s.Q50, s.Q75)
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	one := Summarize("x", []float64{7})
	if one.Mean != 7 || !math.IsNaN(one.Std) {
		t.Fatalf("single value summary = %+v", one)
	}
	empty := Summarize("x", nil)
	if empty.Count != 0 || !math.IsNaN(empty.Mean) {
		t.Fatalf("empty summary = %+v", empty)
	}
	if q := quantile([]float64{1, 2, 3, 4}, 0.25); !approx(q, 1.75) {
		t.Fatalf("quantile = %v, want 1.75", q)
	}
}

func TestDescribeSkipsMissing(t *testing.T) {
	ds := loadFixture(t)
	sums, err := Describe(ds)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	want := []string{"PassengerId", "Survived", "Pclass", "Age", "SibSp", "Parch", "Fare"}
	var got []string
	for _, s := range sums {
		got = append(got, s.Column)
		if s.Column == "Age" && s.Count != 10 {
			t.Fatalf("age count = %d, want 10", s.Count)
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("columns = %v", got)
	}
	md := DescribeMarkdown(sums)
	for _, frag := range []string{"| stat | PassengerId |", "| count |", "| 25% |", "| max |"} {
		if !strings.Contains(md, frag) {
			t.Fatalf("markdown missing %q:\n%s", frag, md)
		}
	}
}

func TestHistogramCountsEveryValue(t *testing.T) {
	ds, err := dataset.ReadFile(datasettest.WriteManifest(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	h, err := NewHistogram(ds, "Age", 30)
	if err != nil {
		t.Fatalf("NewHistogram: %v", err)
	}
	if len(h.Bins) != 30 {
		t.Fatalf("bins = %d", len(h.Bins))
	}
	if h.Total() != len(h.Values) {
		t.Fatalf("total = %d, values = %d", h.Total(), len(h.Values))
	}
	lo, hi := h.Values[0], h.Values[0]
	for _, v := range h.Values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if h.Bins[0].Lo != lo || h.Bins[len(h.Bins)-1].Hi != hi {
		t.Fatalf("bins span [%v, %v], values span [%v, %v]", h.Bins[0].Lo, h.Bins[len(h.Bins)-1].Hi, lo, hi)
	}
	if _, err := NewHistogram(ds, "Sex", 10); err == nil {
		t.Fatalf("expected error for categorical histogram")
	}
	if !strings.Contains(HistogramMarkdown(h), "[AGE DISTRIBUTION]") {
		t.Fatalf("markdown missing header")
	}
}

func TestScatterByClass(t *testing.T) {
	ds := loadFixture(t)
	series, err := Scatter(ds, "Age", "Fare", "Pclass")
	if err != nil {
		t.Fatalf("Scatter: %v", err)
	}
	if len(series) != 3 || series[0].Key != "1" || series[2].Key != "3" {
		t.Fatalf("series = %+v", series)
	}
	n := 0
	for _, s := range series {
		n += len(s.Points)
	}
	if n != 10 {
		t.Fatalf("points = %d, want 10 (one age missing)", n)
	}
}

func TestViewMarkdown(t *testing.T) {
	ds := loadFixture(t)
	v, _ := SurvivalCounts(ds)
	md := ViewMarkdown("overall survival", v)
	if !strings.Contains(md, "[OVERALL SURVIVAL]") || !strings.Contains(md, "| Did not survive | 5 | 5 |") {
		t.Fatalf("markdown = %s", md)
	}
	rows := RowsMarkdown(ds.Rows(0, 2))
	if !strings.Contains(rows, "| PassengerId | Survived |") || !strings.Contains(rows, "| 2 | 1 | 1 | b | female | 38 |") {
		t.Fatalf("rows markdown = %s", rows)
	}
}
