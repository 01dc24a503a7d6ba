package store

import (
	"errors"
	"fmt"
)

// ErrMissingRow is returned when a write requires a local row that does not
// exist, e.g. syncing comments for a movie that was never stored.
var ErrMissingRow = errors.New("missing local row")

// MissingRowError identifies the absent row.
type MissingRowError struct {
	Table string
	Key   any
}

func (e *MissingRowError) Error() string {
	return fmt.Sprintf("%s: %s %v", ErrMissingRow, e.Table, e.Key)
}

// Unwrap returns ErrMissingRow so errors.Is works.
func (e *MissingRowError) Unwrap() error {
	return ErrMissingRow
}

// IsMissingRow reports whether err is (or wraps) a missing row precondition.
func IsMissingRow(err error) bool {
	return errors.Is(err, ErrMissingRow)
}

func missingRow(table string, key any) error {
	return &MissingRowError{Table: table, Key: key}
}
