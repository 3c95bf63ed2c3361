package moment

import (
	"time"
)

// =============================================================================
// INTERVAL - A concrete occurrence on the calendar
// =============================================================================

// Interval is the half-open range [Start, End). When End is nil the interval
// is exactly one Grain long and is reported as an instant.
type Interval struct {
	Start time.Time
	Grain Grain
	End   *time.Time
}

// StartingAt returns the g-period that begins at t. t is expected to be
// aligned already; use Containing to truncate.
func StartingAt(t time.Time, g Grain) Interval {
	return Interval{Start: t, Grain: g}
}

// Containing returns the g-period containing t.
func Containing(t time.Time, g Grain) Interval {
	return Interval{Start: g.Truncate(t), Grain: g}
}

// Between returns [start, end) reported at grain g. If end is exactly one
// grain after start the result is an instant.
func Between(start, end time.Time, g Grain) Interval {
	if g.Add(start, 1).Equal(end) {
		return Interval{Start: start, Grain: g}
	}
	e := end
	return Interval{Start: start, Grain: g, End: &e}
}

// EndMoment returns the exclusive end of the interval.
func (i Interval) EndMoment() time.Time {
	if i.End != nil {
		return *i.End
	}
	return i.Grain.Add(i.Start, 1)
}

// IsInstant reports whether the interval has no explicit end.
func (i Interval) IsInstant() bool { return i.End == nil }

// Contains reports whether t falls inside [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.EndMoment())
}

// Covers reports whether other lies entirely within i.
func (i Interval) Covers(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.EndMoment().After(i.EndMoment())
}

// Overlaps reports whether the two intervals share at least one moment.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.EndMoment()) && other.Start.Before(i.EndMoment())
}

// Equal compares boundaries and grain.
func (i Interval) Equal(other Interval) bool {
	return i.Grain == other.Grain && i.Start.Equal(other.Start) && i.EndMoment().Equal(other.EndMoment())
}

// Intersect returns the overlap of two intervals at the finer of their grains.
func (i Interval) Intersect(other Interval) (Interval, bool) {
	if !i.Overlaps(other) {
		return Interval{}, false
	}
	start := i.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := i.EndMoment()
	if oe := other.EndMoment(); oe.Before(end) {
		end = oe
	}
	return Between(start, end, FinestOf(i.Grain, other.Grain)), true
}

// SpanTo returns [i.Start, other.Start), or [i.Start, other.End) when
// inclusive. It fails when the span would be empty.
func (i Interval) SpanTo(other Interval, inclusive bool) (Interval, bool) {
	end := other.Start
	if inclusive {
		end = other.EndMoment()
	}
	if !end.After(i.Start) {
		return Interval{}, false
	}
	e := end
	return Interval{Start: i.Start, Grain: FinestOf(i.Grain, other.Grain), End: &e}, true
}

// Shift moves both boundaries by n units of g.
func (i Interval) Shift(g Grain, n int) Interval {
	out := Interval{Start: g.Add(i.Start, n), Grain: i.Grain}
	if i.End != nil {
		e := g.Add(*i.End, n)
		out.End = &e
	}
	return out
}

// Next returns the interval of the same shape immediately following i.
func (i Interval) Next() Interval { return i.Shift(i.Grain, 1) }

// Prev returns the interval of the same shape immediately preceding i.
func (i Interval) Prev() Interval { return i.Shift(i.Grain, -1) }

// RoundTo returns the g-period containing i's start.
func (i Interval) RoundTo(g Grain) Interval { return Containing(i.Start, g) }

// In converts both boundaries to loc.
func (i Interval) In(loc *time.Location) Interval {
	out := Interval{Start: i.Start.In(loc), Grain: i.Grain}
	if i.End != nil {
		e := i.End.In(loc)
		out.End = &e
	}
	return out
}

func (i Interval) String() string {
	return "[" + i.Start.Format(time.RFC3339) + ", " + i.EndMoment().Format(time.RFC3339) + ") " + i.Grain.String()
}
