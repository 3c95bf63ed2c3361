package values

import (
	"fmt"
	"time"
)

// FormKind discriminates the semantic shape of a time value.
type FormKind int

const (
	FormNone FormKind = iota
	FormDayOfWeek
	FormMonth
	FormYear
	FormTimeOfDay
	FormPartOfDay
)

func (k FormKind) String() string {
	switch k {
	case FormNone:
		return "none"
	case FormDayOfWeek:
		return "day-of-week"
	case FormMonth:
		return "month"
	case FormYear:
		return "year"
	case FormTimeOfDay:
		return "time-of-day"
	case FormPartOfDay:
		return "part-of-day"
	default:
		return fmt.Sprintf("form(%d)", int(k))
	}
}

// Form is the shape of a time value. Value holds the weekday, month or
// year for those kinds; Hour holds the literal hour of a time of day when
// HasHour is set.
type Form struct {
	Kind    FormKind
	Value   int
	Hour    int
	HasHour bool
	Clock12 bool
}

func NoForm() Form                      { return Form{Kind: FormNone} }
func DayOfWeekForm(w time.Weekday) Form { return Form{Kind: FormDayOfWeek, Value: int(w)} }
func MonthForm(m time.Month) Form       { return Form{Kind: FormMonth, Value: int(m)} }
func YearForm(y int) Form               { return Form{Kind: FormYear, Value: y} }
func PartOfDayForm() Form               { return Form{Kind: FormPartOfDay} }
func TimeOfDayForm() Form               { return Form{Kind: FormTimeOfDay} }
func HourForm(h int, clock12 bool) Form {
	return Form{Kind: FormTimeOfDay, Hour: h, HasHour: true, Clock12: clock12}
}

func (f Form) String() string {
	switch f.Kind {
	case FormNone, FormPartOfDay:
		return f.Kind.String()
	case FormDayOfWeek:
		return fmt.Sprintf("%s(%s)", f.Kind, time.Weekday(f.Value))
	case FormMonth:
		return fmt.Sprintf("%s(%s)", f.Kind, time.Month(f.Value))
	case FormYear:
		return fmt.Sprintf("%s(%d)", f.Kind, f.Value)
	case FormTimeOfDay:
		if !f.HasHour {
			return f.Kind.String()
		}
		return fmt.Sprintf("%s(%d, 12h=%t)", f.Kind, f.Hour, f.Clock12)
	default:
		return f.Kind.String()
	}
}

// pinned reports whether f names a single calendar field value that
// another value of the same kind can contradict.
func (f Form) pinned() (bool, error) {
	switch f.Kind {
	case FormDayOfWeek, FormMonth, FormYear:
		return true, nil
	case FormNone, FormTimeOfDay, FormPartOfDay:
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", f, ErrOutOfRange)
	}
}

// conflictsWith reports two pinned forms of the same kind naming different values.
func (f Form) conflictsWith(o Form) (bool, error) {
	fp, err := f.pinned()
	if err != nil {
		return false, err
	}
	op, err := o.pinned()
	if err != nil {
		return false, err
	}
	return fp && op && f.Kind == o.Kind && f.Value != o.Value, nil
}

// mismatches reports two pinned forms of different kinds.
func (f Form) mismatches(o Form) (bool, error) {
	fp, err := f.pinned()
	if err != nil {
		return false, err
	}
	op, err := o.pinned()
	if err != nil {
		return false, err
	}
	return fp && op && f.Kind != o.Kind, nil
}
