package analysis

import "fmt"

// ColumnError reports a known column used in a way its kind does not allow,
// such as averaging a categorical column.
type ColumnError struct {
	Column string
	Reason string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %s: %s", e.Column, e.Reason)
}
