package ftk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failure modes.
var (
	ErrNoCredentials = errors.New("ftk: no credentials configured")
	ErrNoBaseURL     = errors.New("ftk: no base URL configured")
)

// APIError represents a general FTK API error.
type APIError struct {
	StatusCode int    `json:"status"`
	Message    string `json:"message"`
	RequestID  string `json:"requestId,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("ftk: API error %d: %s (request_id=%s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("ftk: API error %d: %s", e.StatusCode, e.Message)
}

// AuthenticationError indicates authentication or permission failure
// (401/403, or the HTML permission-denied page the service emits).
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("ftk: authentication failed: %s", e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *AuthenticationError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// NotFoundError indicates the requested resource was not found (404).
type NotFoundError struct {
	APIError
	ResourceType string
	ResourceID   string
}

func (e *NotFoundError) Error() string {
	if e.ResourceType != "" && e.ResourceID != "" {
		return fmt.Sprintf("ftk: %s not found: %s", e.ResourceType, e.ResourceID)
	}
	return fmt.Sprintf("ftk: resource not found: %s", e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *NotFoundError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// ValidationError indicates invalid request data: either a 400 from the
// service or a local contract violation caught before any network call.
type ValidationError struct {
	APIError
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("ftk: validation error: %s (fields: %v)", e.Message, e.Fields)
	}
	return fmt.Sprintf("ftk: validation error: %s", e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ValidationError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// ServerError indicates an internal server error (5xx).
type ServerError struct {
	APIError
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("ftk: server error %d: %s", e.StatusCode, e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ServerError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// StatusError indicates the service responded to a status probe with
// something other than "Ok".
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ftk: service status check returned %q", e.Status)
}

// FilterTypeError indicates a comparison operator incompatible with the
// attribute's data type, for example an ordering operator on a string
// attribute. It is raised locally, before any network call.
type FilterTypeError struct {
	Attribute string
	Operator  string
	DataType  AttributeType
}

func (e *FilterTypeError) Error() string {
	return fmt.Sprintf("ftk: operator %s not supported on %s attribute %q",
		e.Operator, e.DataType, e.Attribute)
}

// parseError converts an HTTP error response into the appropriate error type.
func parseError(statusCode int, body []byte, headers http.Header) error {
	requestID := headers.Get("X-Request-ID")
	base := APIError{
		StatusCode: statusCode,
		RequestID:  requestID,
	}

	// Try to parse structured JSON error response
	if err := json.Unmarshal(body, &base); err != nil {
		// Fallback to raw body if not valid JSON
		base.Message = string(body)
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &AuthenticationError{APIError: base}
	case statusCode == http.StatusNotFound:
		return &NotFoundError{APIError: base}
	case statusCode == http.StatusBadRequest:
		validationErr := &ValidationError{APIError: base}
		// Best-effort parse of field-level validation errors
		var fieldData struct {
			Fields map[string]string `json:"fields"`
		}
		if json.Unmarshal(body, &fieldData) == nil && len(fieldData.Fields) > 0 {
			validationErr.Fields = fieldData.Fields
		}
		return validationErr
	case statusCode >= http.StatusInternalServerError:
		return &ServerError{APIError: base}
	default:
		return &base
	}
}

// usageError builds a ValidationError for a local contract violation.
func usageError(format string, args ...any) *ValidationError {
	return &ValidationError{
		APIError: APIError{Message: fmt.Sprintf(format, args...)},
	}
}
