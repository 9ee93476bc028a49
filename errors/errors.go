package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError               ErrorType = "VALIDATION_ERROR"
	MethodNotAllowedError         ErrorType = "METHOD_NOT_ALLOWED"
	MissingFieldsError            ErrorType = "MISSING_FIELDS"
	InvalidEmailFormatError       ErrorType = "INVALID_EMAIL_FORMAT"
	InvalidPhoneFormatError       ErrorType = "INVALID_PHONE_FORMAT"
	UnsupportedSortFieldError     ErrorType = "UNSUPPORTED_SORT_FIELD"
	UnsupportedSortDirectionError ErrorType = "UNSUPPORTED_SORT_DIRECTION"
	AuthError                     ErrorType = "AUTHENTICATION_ERROR"
	StoreQueryFailedError         ErrorType = "STORE_QUERY_FAILED"
	ServerError                   ErrorType = "INTERNAL_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	// Fields carries per-field messages; a nil value marks a field without a problem.
	Fields     map[string]*string `json:"fields,omitempty"`
	HTTPStatus int                `json:"-"`
	Raw        error              `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status to answer with, falling back to the type default.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// As reports whether err is, or wraps, an AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func MethodNotAllowed() *AppError {
	return New(MethodNotAllowedError, "Method not allowed", "")
}

// MissingFields reports every absent field at once. The map holds an entry for
// each checked field.
func MissingFields(fields map[string]*string) *AppError {
	return &AppError{
		Type:       MissingFieldsError,
		Message:    "Missing required fields",
		Fields:     fields,
		HTTPStatus: http.StatusBadRequest,
	}
}

func InvalidEmailFormat() *AppError {
	return New(InvalidEmailFormatError, "Invalid email format", "")
}

func InvalidPhoneFormat() *AppError {
	return New(InvalidPhoneFormatError, "Invalid phone number format", "")
}

func UnsupportedSortField(field string) *AppError {
	return New(UnsupportedSortFieldError, "Unsupported sort field", fmt.Sprintf("sortField %q is not sortable", field))
}

func UnsupportedSortDirection(direction string) *AppError {
	return New(UnsupportedSortDirectionError, "Unsupported sort direction", fmt.Sprintf("sortDirection %q must be asc or desc", direction))
}

// InternalFailure wraps an unexpected failure. Detail carries the raw message of
// err and is returned to the caller as-is.
func InternalFailure(err error, message string) *AppError {
	return Wrap(err, ServerError, message)
}

func StoreQueryFailed(err error) *AppError {
	return Wrap(err, StoreQueryFailedError, "Failed to load submissions")
}

func Unauthorized(code, message string) error {
	return &AppError{
		Type:       AuthError,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, MissingFieldsError, InvalidEmailFormatError, InvalidPhoneFormatError,
		UnsupportedSortFieldError, UnsupportedSortDirectionError:
		return http.StatusBadRequest
	case MethodNotAllowedError:
		return http.StatusMethodNotAllowed
	case AuthError:
		return http.StatusUnauthorized
	case StoreQueryFailedError:
		// Read-path store failures are answered with a degraded 200 envelope.
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
