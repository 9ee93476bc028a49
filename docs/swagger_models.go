package docs

import (
	"time"
)

// This file contains models used by Swagger documentation
// It doesn't affect the actual application logic, just documentation

// SubmissionExample is used for Swagger documentation
// @Description Stored contact-form submission
type SubmissionExample struct {
	// The submission ID
	ID string `json:"id" example:"6f1c2a8e-7d4b-4f7e-9a51-2d0f5c3b9e10"`

	Name        string `json:"name" example:"Ada Lovelace"`
	Email       string `json:"email" example:"ada@example.com"`
	PhoneNumber string `json:"phoneNumber" example:"555-123-4567"`

	// Assigned by the store when the submission is accepted
	SubmissionDate time.Time `json:"submissionDate" example:"2024-05-01T12:00:00Z"`
}

// MissingFieldsExample is used for Swagger documentation
// @Description Validation failure listing every required field
type MissingFieldsExample struct {
	Error   string             `json:"error" example:"Missing required fields"`
	Details map[string]*string `json:"details"`
}
