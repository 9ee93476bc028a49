// Package memory provides an in-process SubmissionStore used for local runs and
// handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NomadCrew/contact-intake/internal/listing"
	"github.com/NomadCrew/contact-intake/internal/store"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/google/uuid"
)

var _ store.SubmissionStore = (*SubmissionStore)(nil)

// SubmissionStore keeps submissions in insertion order behind a RWMutex.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions []*types.Submission
	now         func() time.Time
}

// NewSubmissionStore creates an empty store.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{now: time.Now}
}

func (s *SubmissionStore) Create(ctx context.Context, in types.SubmissionInput) (*types.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &types.Submission{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		SubmissionDate: s.now().UTC(),
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()

	return copySubmission(sub), nil
}

func (s *SubmissionStore) FindMany(ctx context.Context, q listing.Query) ([]*types.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.CheckWindow(q.Skip, q.Take); err != nil {
		return nil, err
	}

	matched := s.matching(q.Filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return q.Order.Less(matched[i], matched[j])
	})

	if q.Skip >= len(matched) {
		return []*types.Submission{}, nil
	}
	end := len(matched)
	if q.Take < end-q.Skip {
		end = q.Skip + q.Take
	}

	page := make([]*types.Submission, 0, end-q.Skip)
	for _, sub := range matched[q.Skip:end] {
		page = append(page, copySubmission(sub))
	}
	return page, nil
}

func (s *SubmissionStore) Count(ctx context.Context, filter listing.Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(s.matching(filter)), nil
}

func (s *SubmissionStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *SubmissionStore) matching(filter listing.Filter) []*types.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Submission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		if filter.Matches(sub) {
			out = append(out, sub)
		}
	}
	return out
}

func copySubmission(s *types.Submission) *types.Submission {
	c := *s
	return &c
}
