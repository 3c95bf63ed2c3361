/*
errors.go - Centralized error types for the value algebra

PURPOSE:
  All error types in one place for consistency and discoverability.
  Every constructor and combinator returns one of these instead of
  panicking; a caller exploring candidate parses treats any of them as
  "this composition is invalid" and moves on.

ERROR CATEGORIES:
  1. Composition errors - returned while building values
     ErrOutOfRange, ErrIncompatibleForms, ErrAmbiguousComposition,
     ErrAlreadyFlagged, ErrParseOverflow
  2. Resolution errors - returned when surfacing a value
     ErrLatent, ErrNoOccurrence, ErrNotResolvable

USAGE:
    v, err := values.MonthDay(2, 30)
    if errors.Is(err, values.ErrOutOfRange) { ... }

    var rangeErr *values.RangeError
    if errors.As(err, &rangeErr) { log(rangeErr.Field) }

SEE ALSO:
  - calendar.go: Range checks on calendar fields
  - numcompose.go: Numeric composition failures
  - resolve/resolver.go: Resolution failures
*/
package values

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrOutOfRange is returned when a calendar field or numeric operand lies
	// outside its valid domain (month 13, minute 60, 100 hundreds).
	ErrOutOfRange = errors.New("value out of range")

	// ErrIncompatibleForms is returned when two time values specify
	// conflicting fields of the same kind (two different years).
	ErrIncompatibleForms = errors.New("incompatible forms")

	// ErrAmbiguousComposition is returned when two numbers of equal or
	// incomparable magnitude are composed.
	ErrAmbiguousComposition = errors.New("ambiguous numeric composition")

	// ErrAlreadyFlagged is returned when a sign or magnitude suffix is
	// applied to a number that already carries one.
	ErrAlreadyFlagged = errors.New("number already flagged")

	// ErrParseOverflow is returned when a numeric literal exceeds the
	// supported width.
	ErrParseOverflow = errors.New("numeric literal overflow")

	// ErrLatent is returned when a latent candidate is surfaced as a result.
	ErrLatent = errors.New("latent value cannot be surfaced")

	// ErrNoOccurrence is returned when a time value has no occurrence
	// within the search horizon.
	ErrNoOccurrence = errors.New("no occurrence")

	// ErrNotResolvable is returned when an operand-only value (cycle, unit,
	// relative minute) is surfaced as a result.
	ErrNotResolvable = errors.New("value is not a resolvable dimension")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RangeError reports which field was out of range and its bounds.
type RangeError struct {
	Field string
	Value int64
	Min   int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// checkRange returns a *RangeError when v is outside [lo, hi].
func checkRange(field string, v, lo, hi int64) error {
	if v < lo || v > hi {
		return &RangeError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}

// FormConflictError reports the two forms an operation could not reconcile.
type FormConflictError struct {
	Op    string
	Left  Form
	Right Form
}

func (e *FormConflictError) Error() string {
	return fmt.Sprintf("%s: %s conflicts with %s", e.Op, e.Left, e.Right)
}

func (e *FormConflictError) Unwrap() error {
	return ErrIncompatibleForms
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRejection returns true if the error only invalidates the current
// candidate composition. Anything else is a programming or I/O failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrIncompatibleForms) ||
		errors.Is(err, ErrAmbiguousComposition) ||
		errors.Is(err, ErrAlreadyFlagged) ||
		errors.Is(err, ErrParseOverflow) ||
		IsUnresolved(err)
}

// IsUnresolved returns true if a well-formed value could not be surfaced.
func IsUnresolved(err error) bool {
	return errors.Is(err, ErrLatent) ||
		errors.Is(err, ErrNoOccurrence) ||
		errors.Is(err, ErrNotResolvable)
}
