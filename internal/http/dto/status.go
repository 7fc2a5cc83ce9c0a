package dto

import (
	"time"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func ToErrorResponse(err *service.Error) *ErrorResponse {
	return &ErrorResponse{
		Error:   err.Message,
		Details: err.Details,
	}
}

type EndpointsDescriptor struct {
	Publish string `json:"publish"`
	Places  string `json:"places"`
	Health  string `json:"health"`
}

type StatusResponse struct {
	Status    string              `json:"status"`
	Service   string              `json:"service"`
	Version   string              `json:"version"`
	Endpoints EndpointsDescriptor `json:"endpoints"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// TimestampLayout is RFC 3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func NewHealthResponse(now time.Time) *HealthResponse {
	return &HealthResponse{
		Status:    "healthy",
		Timestamp: now.UTC().Format(TimestampLayout),
	}
}

type AvailableEndpoints struct {
	Publish    string `json:"publish"`
	ListPlaces string `json:"listPlaces"`
	Health     string `json:"health"`
}

type NotFoundResponse struct {
	Success            bool               `json:"success"`
	Error              string             `json:"error"`
	AvailableEndpoints AvailableEndpoints `json:"availableEndpoints"`
}
