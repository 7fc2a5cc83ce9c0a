package opencloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the Open Cloud API.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the best-effort error description extracted from the body.
	// Empty when the body carried none.
	Message string

	// Body is the raw response body, kept for logging.
	Body []byte
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("opencloud: HTTP %d", err.StatusCode)
	}
	return fmt.Sprintf("opencloud: HTTP %d: %s", err.StatusCode, err.Message)
}

// IsUnauthorized reports whether err is a 401 or 403 response: the key is
// invalid or lacks the scopes for the resource.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) &&
		(apiError.StatusCode == http.StatusUnauthorized || apiError.StatusCode == http.StatusForbidden)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusTooManyRequests
}

// errorBody covers the error shapes Open Cloud endpoints return: a top-level
// message, a top-level error string, or a list of errors.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func extractMessage(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	if len(parsed.Error) > 0 {
		var s string
		if err := json.Unmarshal(parsed.Error, &s); err == nil && s != "" {
			return s
		}
	}
	for _, e := range parsed.Errors {
		if e.Message != "" {
			return e.Message
		}
	}
	return ""
}
