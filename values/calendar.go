package values

import (
	"time"

	"github.com/warp/value-algebra/moment"
)

// Calendar field domains.
const (
	minYear = 1
	maxYear = 9999
)

// leapYear is used to validate month/day pairs that carry no year.
const leapYear = 2012

// Month is every occurrence of month n (1–12).
func Month(n int) (TimeValue, error) {
	if err := checkRange("month", int64(n), 1, 12); err != nil {
		return TimeValue{}, err
	}
	return newTime(moment.MonthOfYear(time.Month(n)), MonthForm(time.Month(n))), nil
}

// MonthDay is every occurrence of day d of month m. February 29 is valid.
func MonthDay(m, d int) (TimeValue, error) {
	if err := checkRange("month", int64(m), 1, 12); err != nil {
		return TimeValue{}, err
	}
	if err := checkRange("day", int64(d), 1, int64(moment.DaysIn(leapYear, time.Month(m)))); err != nil {
		return TimeValue{}, err
	}
	return newTime(moment.MonthDay(time.Month(m), d), NoForm()), nil
}

// DayOfWeek is every occurrence of weekday w.
func DayOfWeek(w time.Weekday) (TimeValue, error) {
	if err := checkRange("weekday", int64(w), int64(time.Sunday), int64(time.Saturday)); err != nil {
		return TimeValue{}, err
	}
	return newTime(moment.DayOfWeek(w), DayOfWeekForm(w)), nil
}

// DayOfMonth is day d of every month that has one.
func DayOfMonth(d int) (TimeValue, error) {
	if err := checkRange("day", int64(d), 1, 31); err != nil {
		return TimeValue{}, err
	}
	return newTime(moment.DayOfMonth(d), NoForm()), nil
}

// Year is the calendar year y.
func Year(y int) (TimeValue, error) {
	if err := checkRange("year", int64(y), minYear, maxYear); err != nil {
		return TimeValue{}, err
	}
	return newTime(moment.YearOf(y), YearForm(y)), nil
}

// YMD is a single calendar day.
func YMD(y, m, d int) (TimeValue, error) {
	if err := checkRange("year", int64(y), minYear, maxYear); err != nil {
		return TimeValue{}, err
	}
	if err := checkRange("month", int64(m), 1, 12); err != nil {
		return TimeValue{}, err
	}
	if err := checkRange("day", int64(d), 1, int64(moment.DaysIn(y, time.Month(m)))); err != nil {
		return TimeValue{}, err
	}
	return newTime(moment.YMD(y, time.Month(m), d), NoForm()), nil
}

// Hour is hour h of every day. A 12h-clock hour below 12 is latent until
// am/pm or context confirms it.
func Hour(h int, clock12 bool) (TimeValue, error) {
	if err := checkRange("hour", int64(h), 0, 23); err != nil {
		return TimeValue{}, err
	}
	t := newTime(moment.Hour(h, clock12), HourForm(h, clock12))
	if clock12 && h < 12 {
		t = t.Latent()
	}
	return t, nil
}

// HourMinute is h:m of every day.
func HourMinute(h, m int, clock12 bool) (TimeValue, error) {
	if err := checkClock(h, m, 0); err != nil {
		return TimeValue{}, err
	}
	return newTime(moment.HourMinute(h, m, clock12), HourForm(h, clock12)), nil
}

// HourMinuteSecond is h:m:s of every day.
func HourMinuteSecond(h, m, s int, clock12 bool) (TimeValue, error) {
	if err := checkClock(h, m, s); err != nil {
		return TimeValue{}, err
	}
	return newTime(moment.HourMinuteSecond(h, m, s, clock12), HourForm(h, clock12)), nil
}

func checkClock(h, m, s int) error {
	if err := checkRange("hour", int64(h), 0, 23); err != nil {
		return err
	}
	if err := checkRange("minute", int64(m), 0, 59); err != nil {
		return err
	}
	return checkRange("second", int64(s), 0, 59)
}
