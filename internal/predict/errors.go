package predict

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyDataset is returned when fitting on a dataset with no rows.
var ErrEmptyDataset = errors.New("cannot fit on an empty dataset")

// SchemaMismatchError indicates a query that lacks required features or
// carries values that cannot be parsed. Recoverable: the caller should ask
// the user to fix the input.
type SchemaMismatchError struct {
	Missing []string
	Invalid map[string]string // feature -> raw value
}

func (e *SchemaMismatchError) Error() string {
	if e == nil {
		return "query does not match the feature schema"
	}
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing features: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		keys := make([]string, 0, len(e.Invalid))
		for k := range e.Invalid {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		bad := make([]string, 0, len(keys))
		for _, k := range keys {
			bad = append(bad, fmt.Sprintf("%s=%q", k, e.Invalid[k]))
		}
		parts = append(parts, "invalid values: "+strings.Join(bad, ", "))
	}
	if len(parts) == 0 {
		return "query does not match the feature schema"
	}
	return "query does not match the feature schema: " + strings.Join(parts, "; ")
}

// RangeError reports a form value outside its allowed bounds.
type RangeError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}
