/*
constraint.go - Calendar constraints

PURPOSE:
  A Constraint describes a set of calendar intervals: "every Tuesday",
  "March", "15:20", "the year 2014". The constraint engine never
  materialises the set; it walks it lazily around an origin (see
  walker.go).

REPEATING VS FIXED:
  Step reports the repetition period of a constraint. Repeating
  constraints (day of week, month, time of day) recur every step.
  Fixed constraints (an explicit year, "this week", "the 3rd Tuesday")
  have a finite set of occurrences, computed from the context reference
  rather than from the walk origin.

  Intersections use Step to decide which operand drives the search:
  fixed first, then the coarser repetition.

SEE ALSO:
  - compose.go: Intersection, Span, TakeNth and the cycle combinators
  - values/calendar.go: validated constructors exposed to callers
*/
package moment

import (
	"time"
)

// Constraint is a lazily enumerable set of intervals.
type Constraint interface {
	// Grain is the grain of the produced intervals.
	Grain() Grain
	// Step is the repetition period. repeating is false for fixed constraints.
	Step() (step Grain, repeating bool)
	// Walk enumerates occurrences around origin.
	Walk(origin Interval, ctx Context) Walker
}

// =============================================================================
// CYCLE - every g-period
// =============================================================================

type cycle struct{ g Grain }

// Cycle matches every period of g: every day, every week, ...
func Cycle(g Grain) Constraint { return cycle{g: g} }

func (c cycle) Grain() Grain        { return c.g }
func (c cycle) Step() (Grain, bool) { return c.g, true }

func (c cycle) Walk(origin Interval, _ Context) Walker {
	return periodic(origin, c.g, func(base time.Time) []Interval {
		return []Interval{StartingAt(base, c.g)}
	})
}

// =============================================================================
// CALENDAR FIELDS
// =============================================================================

type dayOfWeek struct{ w time.Weekday }

// DayOfWeek matches every occurrence of the weekday.
func DayOfWeek(w time.Weekday) Constraint { return dayOfWeek{w: w} }

func (d dayOfWeek) Grain() Grain        { return Day }
func (d dayOfWeek) Step() (Grain, bool) { return Week, true }

func (d dayOfWeek) Walk(origin Interval, _ Context) Walker {
	offset := (int(d.w) + 6) % 7
	return periodic(origin, Week, func(base time.Time) []Interval {
		return []Interval{StartingAt(base.AddDate(0, 0, offset), Day)}
	})
}

type monthOfYear struct{ m time.Month }

// MonthOfYear matches the month in every year.
func MonthOfYear(m time.Month) Constraint { return monthOfYear{m: m} }

func (c monthOfYear) Grain() Grain        { return Month }
func (c monthOfYear) Step() (Grain, bool) { return Year, true }

func (c monthOfYear) Walk(origin Interval, _ Context) Walker {
	return periodic(origin, Year, func(base time.Time) []Interval {
		return []Interval{StartingAt(time.Date(base.Year(), c.m, 1, 0, 0, 0, 0, base.Location()), Month)}
	})
}

type dayOfMonth struct{ d int }

// DayOfMonth matches day d of every month that has one.
func DayOfMonth(d int) Constraint { return dayOfMonth{d: d} }

func (c dayOfMonth) Grain() Grain        { return Day }
func (c dayOfMonth) Step() (Grain, bool) { return Month, true }

func (c dayOfMonth) Walk(origin Interval, _ Context) Walker {
	return periodic(origin, Month, func(base time.Time) []Interval {
		if c.d > DaysIn(base.Year(), base.Month()) {
			return nil
		}
		return []Interval{StartingAt(time.Date(base.Year(), base.Month(), c.d, 0, 0, 0, 0, base.Location()), Day)}
	})
}

type monthDay struct {
	m time.Month
	d int
}

// MonthDay matches the date in every year that has it (Feb 29 in leap years only).
func MonthDay(m time.Month, d int) Constraint { return monthDay{m: m, d: d} }

func (c monthDay) Grain() Grain        { return Day }
func (c monthDay) Step() (Grain, bool) { return Year, true }

func (c monthDay) Walk(origin Interval, _ Context) Walker {
	return periodic(origin, Year, func(base time.Time) []Interval {
		if c.d > DaysIn(base.Year(), c.m) {
			return nil
		}
		return []Interval{StartingAt(time.Date(base.Year(), c.m, c.d, 0, 0, 0, 0, base.Location()), Day)}
	})
}

// =============================================================================
// ABSOLUTE DATES
// =============================================================================

type absolute struct {
	y int
	m time.Month
	d int
	g Grain
}

// YearOf matches the single calendar year y.
func YearOf(y int) Constraint { return absolute{y: y, m: time.January, d: 1, g: Year} }

// YMD matches a single calendar day.
func YMD(y int, m time.Month, d int) Constraint { return absolute{y: y, m: m, d: d, g: Day} }

func (a absolute) Grain() Grain        { return a.g }
func (a absolute) Step() (Grain, bool) { return a.g, false }

func (a absolute) Walk(origin Interval, ctx Context) Walker {
	return Fixed(origin, StartingAt(time.Date(a.y, a.m, a.d, 0, 0, 0, 0, ctx.Location()), a.g))
}

// =============================================================================
// TIME OF DAY
// =============================================================================

type clock struct{ h, m, s int }

type timeOfDay struct {
	at    []clock
	grain Grain
}

// Hour matches hour h every day. With clock12 set and h <= 12 it matches
// both h and h+12 (12 matches noon and midnight).
func Hour(h int, clock12 bool) Constraint {
	return newTimeOfDay(clock{h: h}, clock12, Hour)
}

// HourMinute matches h:m every day, twice a day under the same 12h rule as Hour.
func HourMinute(h, m int, clock12 bool) Constraint {
	return newTimeOfDay(clock{h: h, m: m}, clock12, Minute)
}

// HourMinuteSecond matches h:m:s every day.
func HourMinuteSecond(h, m, s int, clock12 bool) Constraint {
	return newTimeOfDay(clock{h: h, m: m, s: s}, clock12, Second)
}

func newTimeOfDay(c clock, clock12 bool, g Grain) timeOfDay {
	if clock12 && c.h <= 12 {
		am := clock{h: c.h % 12, m: c.m, s: c.s}
		pm := clock{h: c.h%12 + 12, m: c.m, s: c.s}
		return timeOfDay{at: []clock{am, pm}, grain: g}
	}
	return timeOfDay{at: []clock{c}, grain: g}
}

func (t timeOfDay) Grain() Grain        { return t.grain }
func (t timeOfDay) Step() (Grain, bool) { return Day, true }

func (t timeOfDay) Walk(origin Interval, _ Context) Walker {
	return periodic(origin, Day, func(base time.Time) []Interval {
		out := make([]Interval, len(t.at))
		for i, c := range t.at {
			out[i] = StartingAt(time.Date(base.Year(), base.Month(), base.Day(), c.h, c.m, c.s, 0, base.Location()), t.grain)
		}
		return out
	})
}
