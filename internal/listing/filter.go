package listing

import (
	"strings"

	"github.com/NomadCrew/contact-intake/types"
)

// SearchFields are the attributes a search term is matched against.
var SearchFields = []string{FieldName, FieldEmail, FieldPhoneNumber}

// Filter selects submissions whose name, email or phone number contains
// SearchTerm. Matching is case-sensitive; an empty term matches everything.
type Filter struct {
	SearchTerm string
}

// MatchesAll reports whether the filter places no restriction.
func (f Filter) MatchesAll() bool {
	return f.SearchTerm == ""
}

// Matches evaluates the filter against a single submission.
func (f Filter) Matches(s *types.Submission) bool {
	if f.MatchesAll() {
		return true
	}
	return strings.Contains(s.Name, f.SearchTerm) ||
		strings.Contains(s.Email, f.SearchTerm) ||
		strings.Contains(s.PhoneNumber, f.SearchTerm)
}
