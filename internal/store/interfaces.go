package store

import (
	"context"

	"github.com/NomadCrew/contact-intake/internal/listing"
	"github.com/NomadCrew/contact-intake/types"
)

// SubmissionStore persists contact-form submissions. Each call is atomic on its
// own; no consistency is promised between separate calls.
type SubmissionStore interface {
	// Create stores a validated submission and returns it with the id and
	// submission date assigned by the store.
	Create(ctx context.Context, in types.SubmissionInput) (*types.Submission, error)
	// FindMany returns one page of submissions matching q.Filter in q.Order.
	FindMany(ctx context.Context, q listing.Query) ([]*types.Submission, error)
	// Count returns the number of submissions matching filter, ignoring paging.
	Count(ctx context.Context, filter listing.Filter) (int, error)
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}
