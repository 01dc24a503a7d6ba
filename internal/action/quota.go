package action

import (
	"errors"
	"fmt"
)

// PageQuota counts pages fetched by one paged execution and enforces a
// hard cap.
//
// Each execution has its own PageQuota; nothing is shared across keys.
type PageQuota struct {
	maxPages int
	current  int
}

// NewPageQuota creates a quota allowing maxPages pages. A non-positive
// limit disables the cap.
func NewPageQuota(maxPages int) *PageQuota {
	return &PageQuota{maxPages: maxPages}
}

// Check increments the page counter and validates against the limit.
// Called before each page request.
func (q *PageQuota) Check(key string) error {
	q.current++
	if q.maxPages > 0 && q.current > q.maxPages {
		return &PageLimitError{
			Key:   key,
			Pages: q.current,
			Limit: q.maxPages,
		}
	}
	return nil
}

// Current returns the number of pages checked so far.
func (q *PageQuota) Current() int {
	return q.current
}

// PageLimitError is returned when pagination would exceed the page cap.
// Pages already handled stay committed.
type PageLimitError struct {
	Key   string
	Pages int
	Limit int
}

// Error implements the error interface.
func (e *PageLimitError) Error() string {
	return fmt.Sprintf("action %s exceeded page limit: %d pages > %d limit",
		e.Key, e.Pages, e.Limit)
}

// IsPageLimitError returns true if the error is a PageLimitError.
// Uses errors.As to handle wrapped errors.
func IsPageLimitError(err error) bool {
	var pe *PageLimitError
	return errors.As(err, &pe)
}
