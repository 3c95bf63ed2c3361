package values

import "fmt"

// =============================================================================
// PRECISION / DIRECTION
// =============================================================================

// Precision qualifies a value as exact or approximate ("about 3 hours").
type Precision int

const (
	Exact Precision = iota
	Approximate
)

func (p Precision) String() string {
	switch p {
	case Exact:
		return "exact"
	case Approximate:
		return "approximate"
	default:
		return fmt.Sprintf("precision(%d)", int(p))
	}
}

func (p Precision) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Precision) UnmarshalText(b []byte) error {
	switch string(b) {
	case "exact", "":
		*p = Exact
	case "approximate":
		*p = Approximate
	default:
		return fmt.Errorf("unknown precision %q", b)
	}
	return nil
}

// Direction marks an open-ended bound: "before 5pm", "after Christmas".
type Direction int

const (
	NoDirection Direction = iota
	Before
	After
)

func (d Direction) String() string {
	switch d {
	case NoDirection:
		return ""
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "":
		*d = NoDirection
	case "before":
		*d = Before
	case "after":
		*d = After
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// =============================================================================
// ANNOTATION RECORDS
// =============================================================================

// Marks annotate a time value.
type Marks struct {
	Latent    bool
	Precision Precision
	Direction Direction
}

// Notes annotate a number. Prefixed and Suffixed are one-shot guards: a
// sign or a k/m/g suffix can be applied once.
type Notes struct {
	Group     bool
	Prefixed  bool
	Suffixed  bool
	Precision Precision
}

func (n Notes) flagged() bool { return n.Prefixed || n.Suffixed }
