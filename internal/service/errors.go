package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/opencloud"
)

// Kind groups failures by how they surface to the caller.
type Kind string

const (
	KindClientInput   Kind = "client_input"
	KindAuth          Kind = "auth"
	KindNotFound      Kind = "not_found"
	KindRateLimit     Kind = "rate_limit"
	KindUpstream      Kind = "upstream"
	KindTransport     Kind = "transport"
	KindRouteNotFound Kind = "route_not_found"
)

// Error is a classified failure carrying the HTTP status and the
// {error, details} pair rendered in the failure envelope.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on Kind and Message so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrInvalidAPIKey       = &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Message: "Invalid or missing API Key"}
	ErrInvalidAction       = &Error{Kind: KindClientInput, Status: http.StatusBadRequest, Message: `Invalid action. Must be "publish" or "create"`}
	ErrMissingWorkspace    = &Error{Kind: KindClientInput, Status: http.StatusBadRequest, Message: "Missing workspace data"}
	ErrPlaceIDRequired     = &Error{Kind: KindClientInput, Status: http.StatusBadRequest, Message: "Place ID required for publish action"}
	ErrInvalidRequestBody  = &Error{Kind: KindClientInput, Status: http.StatusBadRequest, Message: "Invalid request body"}
	ErrRequestBodyTooLarge = &Error{Kind: KindClientInput, Status: http.StatusRequestEntityTooLarge, Message: "Request body too large"}
	ErrTooManyRequests     = &Error{Kind: KindRateLimit, Status: http.StatusTooManyRequests, Message: "Too many requests, please try again later."}
	ErrEndpointNotFound    = &Error{Kind: KindRouteNotFound, Status: http.StatusNotFound, Message: "Endpoint not found"}
)

const (
	scopesHint       = "Make sure your API Key has the required scopes: universe.place:write"
	placeNotFound    = "The Place ID provided does not exist or you do not have access to it"
	upstreamThrottle = "Too many requests. Please wait a moment and try again"
)

// WithDetails returns a copy of a sentinel carrying details.
func (e *Error) WithDetails(details string) *Error {
	c := *e
	c.Details = details
	return &c
}

// Classify maps any error from the publish flow to the failure taxonomy.
// Already classified errors pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var apiErr *opencloud.APIError
	if errors.As(err, &apiErr) {
		switch {
		case opencloud.IsUnauthorized(err):
			return &Error{
				Kind:    KindAuth,
				Status:  http.StatusUnauthorized,
				Message: "Invalid API Key or insufficient permissions",
				Details: scopesHint,
				cause:   err,
			}
		case opencloud.IsNotFound(err):
			return &Error{
				Kind:    KindNotFound,
				Status:  http.StatusNotFound,
				Message: "Place not found",
				Details: placeNotFound,
				cause:   err,
			}
		case opencloud.IsRateLimited(err):
			return &Error{
				Kind:    KindRateLimit,
				Status:  http.StatusTooManyRequests,
				Message: "Rate limit exceeded",
				Details: upstreamThrottle,
				cause:   err,
			}
		}

		details := apiErr.Message
		if details == "" {
			details = "Unknown error"
		}
		return &Error{
			Kind:    KindUpstream,
			Status:  upstreamStatus(apiErr.StatusCode),
			Message: "Roblox API error",
			Details: details,
			cause:   err,
		}
	}

	return &Error{
		Kind:    KindTransport,
		Status:  http.StatusInternalServerError,
		Message: "Server error",
		Details: err.Error(),
		cause:   err,
	}
}

// ClassifyListing maps a place listing failure. Listing never passes upstream
// statuses through: every failure is a 500 carrying the raw message.
func ClassifyListing(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) && classified.Kind == KindAuth {
		return classified
	}

	return &Error{
		Kind:    KindTransport,
		Status:  http.StatusInternalServerError,
		Message: err.Error(),
		cause:   err,
	}
}

// upstreamStatus keeps passthrough statuses inside the error range. 3xx only
// reaches here when redirects were not followed.
func upstreamStatus(code int) int {
	if code < 400 || code > 599 {
		return http.StatusBadGateway
	}
	return code
}
