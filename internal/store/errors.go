package store

import (
	"errors"
	"fmt"
)

// Predefined errors for the store layer.
var (
	// ErrNegativeWindow is returned when a page window has a negative offset or limit.
	ErrNegativeWindow = errors.New("negative page window")

	// ErrUnknownSortField is returned when an order names a column the store cannot map.
	ErrUnknownSortField = errors.New("unknown sort field")
)

// CheckWindow rejects negative offsets and limits before they reach a backend.
func CheckWindow(skip, take int) error {
	if skip < 0 || take < 0 {
		return fmt.Errorf("%w: skip=%d take=%d", ErrNegativeWindow, skip, take)
	}
	return nil
}

// maxPrealloc bounds the result capacity reserved up front; take comes from
// the request and may be arbitrarily large.
const maxPrealloc = 100

// PageCapacity returns the initial capacity for a page of at most take rows.
func PageCapacity(take int) int {
	return min(max(take, 0), maxPrealloc)
}
