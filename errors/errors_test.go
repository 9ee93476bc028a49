package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ValidationError, "invalid input", "field required")
	assert.Equal(t, ValidationError, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "field required", err.Detail)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestWrap(t *testing.T) {
	originalErr := fmt.Errorf("connection reset")
	wrappedErr := Wrap(originalErr, ServerError, "processing failed")

	assert.Equal(t, ServerError, wrappedErr.Type)
	assert.Equal(t, "processing failed", wrappedErr.Message)
	assert.Equal(t, originalErr.Error(), wrappedErr.Detail)
	assert.Equal(t, http.StatusInternalServerError, wrappedErr.HTTPStatus)
	assert.ErrorIs(t, wrappedErr, originalErr)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ServerError, "nothing"))
}

func TestTaxonomyStatuses(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		errType  ErrorType
		expected int
	}{
		{"method not allowed", MethodNotAllowed(), MethodNotAllowedError, http.StatusMethodNotAllowed},
		{"missing fields", MissingFields(map[string]*string{"name": nil}), MissingFieldsError, http.StatusBadRequest},
		{"invalid email", InvalidEmailFormat(), InvalidEmailFormatError, http.StatusBadRequest},
		{"invalid phone", InvalidPhoneFormat(), InvalidPhoneFormatError, http.StatusBadRequest},
		{"unsupported sort field", UnsupportedSortField("password"), UnsupportedSortFieldError, http.StatusBadRequest},
		{"unsupported sort direction", UnsupportedSortDirection("up"), UnsupportedSortDirectionError, http.StatusBadRequest},
		{"internal", InternalFailure(fmt.Errorf("boom"), "failed"), ServerError, http.StatusInternalServerError},
		{"store query failed", StoreQueryFailed(fmt.Errorf("timeout")), StoreQueryFailedError, http.StatusOK},
		{"authentication", Unauthorized("missing_token", "no token").(*AppError), AuthError, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type)
			assert.Equal(t, tt.expected, tt.err.GetHTTPStatus())
		})
	}
}

func TestInternalFailure_KeepsRawMessage(t *testing.T) {
	err := InternalFailure(fmt.Errorf("duplicate key value violates unique constraint"), "An error occurred")
	assert.Equal(t, "duplicate key value violates unique constraint", err.Detail)
}

func TestMissingFields_SerializesNullForPresentFields(t *testing.T) {
	msg := "Name is required"
	err := MissingFields(map[string]*string{"name": &msg, "email": nil})

	raw, marshalErr := json.Marshal(err.Fields)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, `{"name":"Name is required","email":null}`, string(raw))
}

func TestAs(t *testing.T) {
	appErr := UnsupportedSortField("foo")
	wrapped := fmt.Errorf("building query: %w", appErr)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, appErr, got)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "with detail",
			err: &AppError{
				Type:    ValidationError,
				Message: "invalid input",
				Detail:  "field required",
			},
			expected: "VALIDATION_ERROR: invalid input (field required)",
		},
		{
			name: "without detail",
			err: &AppError{
				Type:    AuthError,
				Message: "unauthorized",
			},
			expected: "AUTHENTICATION_ERROR: unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
