package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the business API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string // server-provided message, empty when the body had none
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: %s %s returned %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// ErrorDetail returns the message the server gave for the failure.
func (e *APIError) ErrorDetail() string {
	return e.Detail
}

// IsUnauthorized reports whether the API rejected the credential.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Detail:     parseDetail(body),
	}
}

// parseDetail extracts the message from a {"detail": ...} body. detail may be
// a string or a list of validation errors, in which case the first msg wins.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) == 0 || json.Unmarshal(body, &envelope) != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		for _, item := range items {
			if item.Msg != "" {
				return item.Msg
			}
		}
		return ""
	}

	var object struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Detail, &object); err == nil {
		if object.Msg != "" {
			return object.Msg
		}
		return object.Message
	}
	return ""
}
