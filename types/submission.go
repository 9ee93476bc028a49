package types

import "time"

// Submission is a validated contact-form record persisted by the store.
type Submission struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
	SubmissionDate time.Time `json:"submissionDate"`
}

// SubmissionInput is the candidate payload accepted by the intake endpoint.
// Fields are passed to the store exactly as received.
type SubmissionInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// SubmitResponse is returned after a submission was stored.
type SubmitResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId"`
}

// IntakeErrorResponse is the error body of the intake endpoint. Details is either
// a per-field map, the raw failure message, or null.
type IntakeErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details"`
}

// Pagination describes the page of a listing response.
type Pagination struct {
	TotalCount  int `json:"totalCount"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// ListingFilters echoes the search and sort that were applied to a listing.
type ListingFilters struct {
	SearchTerm    string `json:"searchTerm"`
	SortField     string `json:"sortField"`
	SortDirection string `json:"sortDirection"`
}

// ListSubmissionsResponse is the operator listing envelope. Error is only set on a
// degraded response.
type ListSubmissionsResponse struct {
	Submissions []*Submission  `json:"submissions"`
	Pagination  Pagination     `json:"pagination"`
	Filters     ListingFilters `json:"filters"`
	Error       string         `json:"error,omitempty"`
}
