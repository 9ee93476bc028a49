package listing

import (
	"strings"

	"github.com/NomadCrew/contact-intake/types"
)

// Less orders a before b according to o. Ties fall back to ID so repeated
// queries over an unchanged store return the same order.
func (o Order) Less(a, b *types.Submission) bool {
	c := compareField(o.Field, a, b)
	if c == 0 {
		c = strings.Compare(a.ID, b.ID)
	}
	if o.Direction == SortDesc {
		return c > 0
	}
	return c < 0
}

func compareField(field string, a, b *types.Submission) int {
	switch field {
	case FieldID:
		return strings.Compare(a.ID, b.ID)
	case FieldName:
		return strings.Compare(a.Name, b.Name)
	case FieldEmail:
		return strings.Compare(a.Email, b.Email)
	case FieldPhoneNumber:
		return strings.Compare(a.PhoneNumber, b.PhoneNumber)
	default:
		return a.SubmissionDate.Compare(b.SubmissionDate)
	}
}
