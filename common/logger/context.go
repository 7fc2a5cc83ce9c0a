package logger

import (
	"context"
	"unicode/utf8"
)

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// The request middleware seeds RequestID; handlers add the publish target once the
// body is validated, so every later log line (including upstream calls) carries them.
type LogFields struct {
	RequestID  *int64  // Snowflake id assigned by the request id middleware
	Action     *string // "publish" or "create"
	PlaceID    *string // Target place id
	UniverseID *string // Target universe id
	UserID     *string // Caller-reported user id, informational only
	Component  string  // Component name (OTel semantic convention style, e.g., "relay.opencloud")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.RequestID != nil {
		result.RequestID = new.RequestID
	}
	if new.Action != nil {
		result.Action = new.Action
	}
	if new.PlaceID != nil {
		result.PlaceID = new.PlaceID
	}
	if new.UniverseID != nil {
		result.UniverseID = new.UniverseID
	}
	if new.UserID != nil {
		result.UserID = new.UserID
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{PlaceID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate cuts s to at most maxLen bytes, appending "..." if truncated.
// The cut never splits a multi-byte rune. Useful for logging upstream error bodies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// MaskSecret keeps the first four characters of a credential so log lines can be
// correlated without leaking the key.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
