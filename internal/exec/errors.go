package exec

import "fmt"

// ColumnRangeError is returned for the first record narrower than a
// directive's column.
type ColumnRangeError struct {
	Column int
	Width  int
	// Row is 1-based and counts data records only.
	Row uint64
}

func (e *ColumnRangeError) Error() string {
	return fmt.Sprintf("invalid column index %d - row %d has only %d columns", e.Column, e.Row, e.Width)
}
