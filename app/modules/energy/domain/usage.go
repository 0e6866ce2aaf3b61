package energydomain

import "fmt"

// Reading is one town's value for the imported month.
type Reading struct {
	Town  string
	Value float64
}

// RowError reports a sheet row that could not be read. Row is 1-based.
type RowError struct {
	Row  int
	Town string
	Err  error
}

func (e RowError) Error() string {
	if e.Town == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.Town, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Sheet is the period's column of one usage sheet.
type Sheet struct {
	Readings []Reading
	Errors   []RowError
}
