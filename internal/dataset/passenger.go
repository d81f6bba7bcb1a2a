package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Column names as they appear in the CSV header.
const (
	ColPassengerID = "PassengerId"
	ColSurvived    = "Survived"
	ColPclass      = "Pclass"
	ColName        = "Name"
	ColSex         = "Sex"
	ColAge         = "Age"
	ColSibSp       = "SibSp"
	ColParch       = "Parch"
	ColTicket      = "Ticket"
	ColFare        = "Fare"
	ColCabin       = "Cabin"
	ColEmbarked    = "Embarked"
)

// RequiredColumns must be present in the header of every input file.
var RequiredColumns = []string{
	ColPassengerID, ColSurvived, ColPclass, ColSex, ColAge,
	ColSibSp, ColParch, ColFare, ColEmbarked,
}

// Kind tells whether a column holds numbers or labels.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

var columnKinds = map[string]Kind{
	ColPassengerID: Numeric,
	ColSurvived:    Numeric,
	ColPclass:      Numeric,
	ColName:        Categorical,
	ColSex:         Categorical,
	ColAge:         Numeric,
	ColSibSp:       Numeric,
	ColParch:       Numeric,
	ColTicket:      Categorical,
	ColFare:        Numeric,
	ColCabin:       Categorical,
	ColEmbarked:    Categorical,
}

// columnOrder is the header order of the canonical file.
var columnOrder = []string{
	ColPassengerID, ColSurvived, ColPclass, ColName, ColSex, ColAge,
	ColSibSp, ColParch, ColTicket, ColFare, ColCabin, ColEmbarked,
}

// Passenger is one row of the dataset. Age and Fare are nil when missing;
// Embarked is empty when missing.
type Passenger struct {
	PassengerID int      `json:"PassengerId"`
	Survived    int      `json:"Survived"`
	Pclass      int      `json:"Pclass"`
	Name        string   `json:"Name,omitempty"`
	Sex         string   `json:"Sex"`
	Age         *float64 `json:"Age"`
	SibSp       int      `json:"SibSp"`
	Parch       int      `json:"Parch"`
	Ticket      string   `json:"Ticket,omitempty"`
	Fare        *float64 `json:"Fare"`
	Cabin       string   `json:"Cabin,omitempty"`
	Embarked    string   `json:"Embarked"`
}

// Dataset is an immutable, ordered set of passengers loaded from one file.
type Dataset struct {
	// Source is the absolute path the rows were read from.
	Source string
	// Version identifies the file contents (path + modification time).
	Version string

	rows []Passenger
}

// New wraps rows into a Dataset. The slice is copied so later changes by the
// caller are not observed.
func New(source, version string, rows []Passenger) *Dataset {
	cp := make([]Passenger, len(rows))
	copy(cp, rows)
	return &Dataset{Source: source, Version: version, rows: cp}
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Row returns a copy of the i-th passenger.
func (d *Dataset) Row(i int) Passenger { return d.rows[i] }

// Rows returns a copy of rows in [offset, offset+limit). limit <= 0 means all.
func (d *Dataset) Rows(offset, limit int) []Passenger {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(d.rows) {
		return []Passenger{}
	}
	end := len(d.rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]Passenger, end-offset)
	copy(out, d.rows[offset:end])
	return out
}

// Columns lists known column names in header order.
func Columns() []string {
	out := make([]string, len(columnOrder))
	copy(out, columnOrder)
	return out
}

// NumericColumns lists numeric column names in header order.
func NumericColumns() []string {
	var out []string
	for _, c := range columnOrder {
		if columnKinds[c] == Numeric {
			out = append(out, c)
		}
	}
	return out
}

// Column is a single column materialized from a Dataset. Missing numeric
// values are NaN; missing categorical values are empty strings.
type Column struct {
	Name   string
	Kind   Kind
	Floats []float64
	Labels []string
}

// Len returns the number of cells.
func (c Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// Missing reports whether cell i has no value.
func (c Column) Missing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Floats[i])
	}
	return c.Labels[i] == ""
}

// Key renders cell i as a grouping key. ok is false for missing cells.
func (c Column) Key(i int) (key string, ok bool) {
	if c.Missing(i) {
		return "", false
	}
	if c.Kind == Numeric {
		return strconv.FormatFloat(c.Floats[i], 'f', -1, 64), true
	}
	return c.Labels[i], true
}

// Present returns the non-missing numeric values in row order.
func (c Column) Present() []float64 {
	out := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// SortKeys orders grouping keys numerically for numeric columns and
// lexically otherwise.
func (c Column) SortKeys(keys []string) {
	if c.Kind != Numeric {
		sort.Strings(keys)
		return
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.ParseFloat(keys[i], 64)
		b, _ := strconv.ParseFloat(keys[j], 64)
		return a < b
	})
}

// Column materializes the named column. Lookup is case-insensitive.
func (d *Dataset) Column(name string) (Column, error) {
	canon, ok := CanonicalColumn(name)
	if !ok {
		return Column{}, &UnknownColumnError{Name: name}
	}
	col := Column{Name: canon, Kind: columnKinds[canon]}
	n := len(d.rows)
	if col.Kind == Numeric {
		col.Floats = make([]float64, n)
	} else {
		col.Labels = make([]string, n)
	}
	for i := range d.rows {
		p := &d.rows[i]
		switch canon {
		case ColPassengerID:
			col.Floats[i] = float64(p.PassengerID)
		case ColSurvived:
			col.Floats[i] = float64(p.Survived)
		case ColPclass:
			col.Floats[i] = float64(p.Pclass)
		case ColAge:
			col.Floats[i] = optFloat(p.Age)
		case ColSibSp:
			col.Floats[i] = float64(p.SibSp)
		case ColParch:
			col.Floats[i] = float64(p.Parch)
		case ColFare:
			col.Floats[i] = optFloat(p.Fare)
		case ColName:
			col.Labels[i] = p.Name
		case ColSex:
			col.Labels[i] = p.Sex
		case ColTicket:
			col.Labels[i] = p.Ticket
		case ColCabin:
			col.Labels[i] = p.Cabin
		case ColEmbarked:
			col.Labels[i] = p.Embarked
		}
	}
	return col, nil
}

// CanonicalColumn maps a user-supplied column name onto its header spelling.
func CanonicalColumn(name string) (string, bool) {
	n := strings.TrimSpace(name)
	for _, c := range columnOrder {
		if strings.EqualFold(c, n) {
			return c, true
		}
	}
	return "", false
}

// UnknownColumnError reports a column name outside the fixed schema.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q (known: %s)", e.Name, strings.Join(columnOrder, ", "))
}

func optFloat(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// Float returns a pointer to v, for building Passenger literals.
func Float(v float64) *float64 { return &v }
