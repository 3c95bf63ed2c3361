package moment

import "time"

// DefaultHorizonYears bounds how far an intersection searches for a
// matching occurrence of a repeating outer operand.
const DefaultHorizonYears = 5

// Context carries the reference instant every relative constraint resolves
// against. It is passed by value into every walk; nothing reads the clock.
type Context struct {
	Reference    Interval
	HorizonYears int
}

// NewContext anchors a context at ref, truncated to the second, in ref's location.
func NewContext(ref time.Time) Context {
	return Context{
		Reference:    Containing(ref, Second),
		HorizonYears: DefaultHorizonYears,
	}
}

// WithHorizon returns a copy with a different search horizon.
func (c Context) WithHorizon(years int) Context {
	if years > 0 {
		c.HorizonYears = years
	}
	return c
}

// Location returns the location of the reference instant.
func (c Context) Location() *time.Location { return c.Reference.Start.Location() }

func (c Context) horizon() int {
	if c.HorizonYears <= 0 {
		return DefaultHorizonYears
	}
	return c.HorizonYears
}
