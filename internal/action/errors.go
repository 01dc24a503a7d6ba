package action

import (
	"errors"
	"fmt"
)

// Error is returned by every action execution that fails.
type Error struct {
	// Key identifies the action invocation.
	Key string

	// Page is the 1-based page that failed, or 0 for single-shot actions
	// and failures outside pagination.
	Page int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("action %s: page %d: %v", e.Key, e.Page, e.Err)
	}
	return fmt.Sprintf("action %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// wrap attaches the action key unless err already carries one.
func wrap(key string, page int, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Key: key, Page: page, Err: err}
}

// FailedPage returns the page a paged action failed on, or 0.
// Uses errors.As to handle wrapped errors.
func FailedPage(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Page
	}
	return 0
}

// ErrStopped is returned by batch loops that bail out after Manager.Stop.
var ErrStopped = errors.New("action manager stopped")
