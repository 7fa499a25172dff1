package dataset

import "fmt"

// DataFormatError reports a source that cannot be read as header-bearing
// tabular data.
type DataFormatError struct {
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data format: %s: %v", e.Reason, e.Err)
	}
	return "data format: " + e.Reason
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// TypeMismatchError reports a numeric cell that could not be coerced.
// Line is 1-based and counts the header.
type TypeMismatchError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch at line %d, column %q: cannot coerce %q", e.Line, e.Column, e.Value)
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }
