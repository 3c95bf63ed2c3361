/*
grain.go - Calendar grains and boundary arithmetic

PURPOSE:
  Grain is the smallest calendar unit at which a moment is known. Every
  interval produced by the constraint engine carries one, and all
  truncation and shifting goes through the functions in this file.

ORDERING:
  Second < Minute < Hour < Day < Week < Month < Quarter < Year

  "Finer" means smaller. Week does not divide Month or Year, so code that
  needs "the period containing" a moment always truncates explicitly
  instead of deriving one grain from another.

BOUNDARIES:
  Week     starts on Monday 00:00
  Quarter  starts on January, April, July or October 1st

SEE ALSO:
  - interval.go: Interval built on Truncate/Add
  - period.go: PeriodComp uses Add for duration arithmetic
*/
package moment

import (
	"fmt"
	"strings"
	"time"
)

// Grain is a calendar unit.
type Grain int

const (
	Second Grain = iota
	Minute
	Hour
	Day
	Week
	Month
	Quarter
	Year
)

var grainNames = [...]string{
	Second:  "second",
	Minute:  "minute",
	Hour:    "hour",
	Day:     "day",
	Week:    "week",
	Month:   "month",
	Quarter: "quarter",
	Year:    "year",
}

// Grains lists every grain from finest to coarsest.
func Grains() []Grain {
	return []Grain{Second, Minute, Hour, Day, Week, Month, Quarter, Year}
}

func (g Grain) Valid() bool { return g >= Second && g <= Year }

func (g Grain) String() string {
	if !g.Valid() {
		return fmt.Sprintf("grain(%d)", int(g))
	}
	return grainNames[g]
}

// ParseGrain accepts the lower-case names returned by String.
func ParseGrain(s string) (Grain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for g, name := range grainNames {
		if name == s {
			return Grain(g), nil
		}
	}
	return 0, fmt.Errorf("unknown grain %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Grain) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid grain %d", int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grain) UnmarshalText(b []byte) error {
	parsed, err := ParseGrain(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Finer reports whether g is strictly smaller than other.
func (g Grain) Finer(other Grain) bool { return g < other }

// Lower returns the grain used to report a moment shifted by a quantity of g.
// Shifting by days keeps the hour, shifting by years keeps the month.
func (g Grain) Lower() Grain {
	switch g {
	case Year, Quarter:
		return Month
	case Month, Week:
		return Day
	case Day:
		return Hour
	case Hour:
		return Minute
	default:
		return Second
	}
}

// FinestOf returns the finer of two grains.
func FinestOf(a, b Grain) Grain {
	if a < b {
		return a
	}
	return b
}

// CoarsestOf returns the coarser of two grains.
func CoarsestOf(a, b Grain) Grain {
	if a > b {
		return a
	}
	return b
}

// =============================================================================
// BOUNDARY ARITHMETIC
// =============================================================================

// Truncate returns the start of the g-period containing t, in t's location.
func (g Grain) Truncate(t time.Time) time.Time {
	loc := t.Location()
	switch g {
	case Second:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	case Minute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	case Hour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	case Day:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	case Week:
		// Monday = 0
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, loc)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	case Quarter:
		m := ((int(t.Month())-1)/3)*3 + 1
		return time.Date(t.Year(), time.Month(m), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
	}
}

// Add moves t by n units of g. Calendar grains keep wall-clock fields,
// so adding a day across a DST change still lands on the same hour.
func (g Grain) Add(t time.Time, n int) time.Time {
	switch g {
	case Second:
		return t.Add(time.Duration(n) * time.Second)
	case Minute:
		return t.Add(time.Duration(n) * time.Minute)
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return addMonths(t, n)
	case Quarter:
		return addMonths(t, 3*n)
	default:
		return addMonths(t, 12*n)
	}
}

// addMonths clamps the day to the target month so Jan 31 + 1 month is Feb 28.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
