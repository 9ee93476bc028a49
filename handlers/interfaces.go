package handlers

import (
	"github.com/NomadCrew/contact-intake/types"
)

// SubmissionNotifier queues the side effects of a stored submission. It must
// not block and its outcome never changes the intake response.
type SubmissionNotifier interface {
	NotifySubmissionCreated(sub *types.Submission) bool
}
