package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	// LogFieldRequestID is the field name for request ID.
	LogFieldRequestID = "request_id"
	// LogFieldResolutionID is the field name for a resolution record ID.
	LogFieldResolutionID = "resolution_id"
	// LogFieldFingerprint is the field name for an expression fingerprint.
	LogFieldFingerprint = "fingerprint"
	// LogFieldDimension is the field name for the resolved dimension.
	LogFieldDimension = "dimension"
	// LogFieldReference is the field name for the reference instant.
	LogFieldReference = "reference"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldCacheHit is the field name for memo hits.
	LogFieldCacheHit = "cache_hit"
	// LogFieldOutcome is the field name for a resolution outcome.
	LogFieldOutcome = "outcome"
	// LogFieldStatus is the field name for an HTTP status.
	LogFieldStatus = "status"
)

// NewLogger builds a slog logger writing text or json at the given level.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
