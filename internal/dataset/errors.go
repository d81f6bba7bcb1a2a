package dataset

import "fmt"

// DataLoadError indicates the dataset file is missing, unreadable or does not
// follow the passenger schema. It is fatal for anything that needs the data.
type DataLoadError struct {
	Path   string
	Row    int // 1-based data row, 0 when not row specific
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e == nil {
		return "data load failed"
	}
	msg := fmt.Sprintf("load %s: %s", e.Path, e.Reason)
	if e.Row > 0 {
		msg = fmt.Sprintf("load %s: row %d: %s", e.Path, e.Row, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataLoadError) Unwrap() error { return e.Err }
