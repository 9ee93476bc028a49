// Package validation holds the presence and format checks applied to contact-form
// candidates before they reach the store.
package validation

import (
	"regexp"

	apperrors "github.com/NomadCrew/contact-intake/errors"
	"github.com/NomadCrew/contact-intake/types"
)

// Field names as they appear in request bodies and in MissingFields details.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhoneNumber = "phoneNumber"
)

// whitespace is the browser's \s set. RE2's \s is ASCII only and misses \v,
// NBSP and the Unicode spaces.
const whitespace = `\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	emailPattern = regexp.MustCompile(`^[^` + whitespace + `@]+@[^` + whitespace + `@]+\.[^` + whitespace + `@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{3}[)]?[-` + whitespace + `.]?[0-9]{3}[-` + whitespace + `.]?[0-9]{4,6}$`)
)

// ValidateSubmission checks presence, then email shape, then phone shape, and
// reports only the first failing stage. Presence failures list every missing
// field. The candidate is never modified.
func ValidateSubmission(in types.SubmissionInput) *apperrors.AppError {
	if in.Name == "" || in.Email == "" || in.PhoneNumber == "" {
		return apperrors.MissingFields(map[string]*string{
			FieldName:        requiredMessage(in.Name, "Name is required"),
			FieldEmail:       requiredMessage(in.Email, "Email is required"),
			FieldPhoneNumber: requiredMessage(in.PhoneNumber, "Phone number is required"),
		})
	}

	if !emailPattern.MatchString(in.Email) {
		return apperrors.InvalidEmailFormat()
	}

	if !phonePattern.MatchString(in.PhoneNumber) {
		return apperrors.InvalidPhoneFormat()
	}

	return nil
}

func requiredMessage(value, msg string) *string {
	if value != "" {
		return nil
	}
	return &msg
}
