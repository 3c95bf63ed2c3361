package resolve

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/warp/value-algebra/values"
)

// =============================================================================
// MEMO - Cached outputs keyed by expression and reference
// =============================================================================

// ErrDuplicateRecord is returned when a log record ID is appended twice.
var ErrDuplicateRecord = errors.New("duplicate resolution record")

// Key identifies one resolution: the same tree against the same reference
// in the same location always resolves to the same output.
type Key struct {
	Fingerprint string
	Reference   time.Time
	Location    string
}

// Memo caches successful outputs.
type Memo interface {
	Get(ctx context.Context, key Key) (Output, bool, error)
	Put(ctx context.Context, key Key, out Output) error
}

// =============================================================================
// LOG - Append-only audit of resolution attempts
// =============================================================================

// Outcome classifies a resolution attempt.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeRejected  Outcome = "rejected"
	OutcomeMalformed Outcome = "malformed"
	OutcomeFailed    Outcome = "failed"
)

// Record is one resolution attempt. Records are never updated.
type Record struct {
	ID          uuid.UUID   `json:"id"`
	Fingerprint string      `json:"fingerprint"`
	Reference   time.Time   `json:"reference"`
	Location    string      `json:"location"`
	Dimension   values.Kind `json:"dimension,omitempty"`
	Outcome     Outcome     `json:"outcome"`
	Error       string      `json:"error,omitempty"`
	Cached      bool        `json:"cached"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Log stores resolution records.
type Log interface {
	Append(ctx context.Context, r Record) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
}
