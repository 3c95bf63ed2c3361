package values

import (
	"fmt"
	"time"

	"github.com/warp/value-algebra/moment"
)

// Ready-made values for recurring expressions. They are built from engine
// constraints with known-valid fields, so none of them can fail except
// through an unknown enumeration member.

func hourSpan(from, to int) moment.Constraint {
	return moment.Span(moment.Hour(from, false), moment.Hour(to, false), false)
}

func today() moment.Constraint { return moment.CycleNth(moment.Day, 0) }

// =============================================================================
// NOW / TODAY
// =============================================================================

func Now() TimeValue       { return newTime(moment.CycleNth(moment.Second, 0), NoForm()) }
func Today() TimeValue     { return newTime(today(), NoForm()) }
func Tomorrow() TimeValue  { return newTime(moment.CycleNth(moment.Day, 1), NoForm()) }
func Yesterday() TimeValue { return newTime(moment.CycleNth(moment.Day, -1), NoForm()) }

// EndOfMonth is next month: "bis zum Monatsende" is bounded by it.
func EndOfMonth() TimeValue { return newTime(moment.CycleNth(moment.Month, 1), NoForm()) }

// EndOfYear is next year.
func EndOfYear() TimeValue { return newTime(moment.CycleNth(moment.Year, 1), NoForm()) }

// ByTheEndOf spans from now through the end of t.
func ByTheEndOf(t TimeValue) (TimeValue, error) { return Now().SpanTo(t, true) }

// Until marks t as an upper bound: "bis Freitag".
func Until(t TimeValue) TimeValue { return t.WithDirection(Before) }

// Since marks t as a lower bound: "ab Montag".
func Since(t TimeValue) TimeValue { return t.WithDirection(After) }

// OrdinalQuarter is quarter n (1–4) of the current year.
func OrdinalQuarter(n int) (TimeValue, error) {
	if err := checkRange("quarter", int64(n), 1, 4); err != nil {
		return TimeValue{}, err
	}
	return newTime(moment.CycleNthAfter(moment.Quarter, n-1, moment.CycleNth(moment.Year, 0)), NoForm()), nil
}

// =============================================================================
// PARTS OF DAY
// =============================================================================

// PartOfDay names a stretch of a day.
type PartOfDay int

const (
	EarlyMorning PartOfDay = iota + 1
	Morning
	LateMorning
	Lunch
	EarlyAfternoon
	Afternoon
	LateAfternoon
	EarlyEvening
	Evening
	LateEvening
	Night
)

var partsOfDay = map[PartOfDay]struct {
	name     string
	from, to int
}{
	EarlyMorning:   {"early-morning", 4, 9},
	Morning:        {"morning", 3, 12},
	LateMorning:    {"late-morning", 11, 13},
	Lunch:          {"lunch", 12, 14},
	EarlyAfternoon: {"early-afternoon", 13, 17},
	Afternoon:      {"afternoon", 13, 19},
	LateAfternoon:  {"late-afternoon", 17, 19},
	EarlyEvening:   {"early-evening", 18, 21},
	Evening:        {"evening", 18, 0},
	LateEvening:    {"late-evening", 21, 0},
	Night:          {"night", 0, 4},
}

func (p PartOfDay) String() string {
	if d, ok := partsOfDay[p]; ok {
		return d.name
	}
	return fmt.Sprintf("part-of-day(%d)", int(p))
}

// partOfDayAliases are extra names for parts of day sharing their hours.
var partOfDayAliases = map[string]PartOfDay{
	"early-night": LateEvening,
}

// ParsePartOfDay maps a name from String, or an alias, back to its constant.
func ParsePartOfDay(s string) (PartOfDay, error) {
	for p, d := range partsOfDay {
		if d.name == s {
			return p, nil
		}
	}
	if p, ok := partOfDayAliases[s]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("part of day %q: %w", s, ErrOutOfRange)
}

// DayPart is the latent span of p on every day. A preposition or a day
// confirms it.
func DayPart(p PartOfDay) (TimeValue, error) {
	d, ok := partsOfDay[p]
	if !ok {
		return TimeValue{}, &RangeError{Field: "part of day", Value: int64(p), Min: int64(EarlyMorning), Max: int64(Night)}
	}
	return newTime(hourSpan(d.from, d.to), PartOfDayForm()).Latent(), nil
}

// ThisDayPart is p today: "heute Abend" is ThisDayPart(Evening).
func ThisDayPart(p PartOfDay) (TimeValue, error) {
	part, err := DayPart(p)
	if err != nil {
		return TimeValue{}, err
	}
	t, err := Today().Intersect(part)
	if err != nil {
		return TimeValue{}, err
	}
	return t.WithForm(PartOfDayForm()), nil
}

// Tonight is this evening.
func Tonight() TimeValue {
	return newTime(moment.Intersect(today(), hourSpan(18, 0)), PartOfDayForm())
}

// AfterWork is 17:00 to 21:00 today.
func AfterWork() TimeValue {
	return newTime(moment.Intersect(today(), hourSpan(17, 21)), PartOfDayForm())
}

// AM restricts a time of day to the morning half of the day.
func AM(t TimeValue) (TimeValue, error) { return halfDay(t, 0, 12) }

// PM restricts a time of day to the afternoon half of the day.
func PM(t TimeValue) (TimeValue, error) { return halfDay(t, 12, 0) }

func halfDay(t TimeValue, from, to int) (TimeValue, error) {
	x, err := t.Intersect(newTime(hourSpan(from, to), NoForm()))
	if err != nil {
		return TimeValue{}, err
	}
	return x.WithForm(TimeOfDayForm()), nil
}

// Weekend is Friday 18:00 to Monday 00:00.
func Weekend() TimeValue {
	friday := moment.Intersect(moment.DayOfWeek(time.Friday), moment.Hour(18, false))
	monday := moment.Intersect(moment.DayOfWeek(time.Monday), moment.Hour(0, false))
	return newTime(moment.Span(friday, monday, false), NoForm())
}

// =============================================================================
// SEASONS AND HOLIDAYS
// =============================================================================

// SeasonName is one of the four astronomical seasons.
type SeasonName int

const (
	Spring SeasonName = iota + 1
	Summer
	Autumn
	Winter
)

type monthDay struct {
	m time.Month
	d int
}

var seasons = map[SeasonName]struct {
	name     string
	from, to monthDay
}{
	Spring: {"spring", monthDay{time.March, 20}, monthDay{time.June, 21}},
	Summer: {"summer", monthDay{time.June, 21}, monthDay{time.September, 23}},
	Autumn: {"autumn", monthDay{time.September, 23}, monthDay{time.December, 21}},
	Winter: {"winter", monthDay{time.December, 21}, monthDay{time.March, 20}},
}

func (s SeasonName) String() string {
	if d, ok := seasons[s]; ok {
		return d.name
	}
	return fmt.Sprintf("season(%d)", int(s))
}

// ParseSeason maps a name from String back to its constant.
func ParseSeason(s string) (SeasonName, error) {
	for k, d := range seasons {
		if d.name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("season %q: %w", s, ErrOutOfRange)
}

// Season spans the season's first day through its last day, every year.
func Season(s SeasonName) (TimeValue, error) {
	d, ok := seasons[s]
	if !ok {
		return TimeValue{}, &RangeError{Field: "season", Value: int64(s), Min: int64(Spring), Max: int64(Winter)}
	}
	c := moment.Span(moment.MonthDay(d.from.m, d.from.d), moment.MonthDay(d.to.m, d.to.d), true)
	return newTime(c, NoForm()), nil
}

// HolidayName is a fixed-date holiday.
type HolidayName int

const (
	NewYearsDay HolidayName = iota + 1
	ValentinesDay
	SwissNationalDay
	GermanUnityDay
	AustrianNationalDay
	Halloween
	AllSaints
	StNicholas
	ChristmasEve
	Christmas
	NewYearsEve
)

var holidays = map[HolidayName]struct {
	name string
	date monthDay
}{
	NewYearsDay:         {"new-years-day", monthDay{time.January, 1}},
	ValentinesDay:       {"valentines-day", monthDay{time.February, 14}},
	SwissNationalDay:    {"swiss-national-day", monthDay{time.August, 1}},
	GermanUnityDay:      {"german-unity-day", monthDay{time.October, 3}},
	AustrianNationalDay: {"austrian-national-day", monthDay{time.October, 26}},
	Halloween:           {"halloween", monthDay{time.October, 31}},
	AllSaints:           {"all-saints", monthDay{time.November, 1}},
	StNicholas:          {"st-nicholas", monthDay{time.December, 6}},
	ChristmasEve:        {"christmas-eve", monthDay{time.December, 24}},
	Christmas:           {"christmas", monthDay{time.December, 25}},
	NewYearsEve:         {"new-years-eve", monthDay{time.December, 31}},
}

func (h HolidayName) String() string {
	if d, ok := holidays[h]; ok {
		return d.name
	}
	return fmt.Sprintf("holiday(%d)", int(h))
}

// ParseHoliday maps a name from String back to its constant.
func ParseHoliday(s string) (HolidayName, error) {
	for k, d := range holidays {
		if d.name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("holiday %q: %w", s, ErrOutOfRange)
}

// Holiday is the holiday's date every year.
func Holiday(h HolidayName) (TimeValue, error) {
	d, ok := holidays[h]
	if !ok {
		return TimeValue{}, &RangeError{Field: "holiday", Value: int64(h), Min: int64(NewYearsDay), Max: int64(NewYearsEve)}
	}
	return newTime(moment.MonthDay(d.date.m, d.date.d), NoForm()), nil
}

// MothersDay is the second Sunday of May: the Sunday in May of the week
// after the one holding May 1st.
func MothersDay() TimeValue {
	c := moment.Intersect(
		moment.Intersect(moment.DayOfWeek(time.Sunday), moment.MonthOfYear(time.May)),
		moment.CycleNthAfter(moment.Week, 1, moment.MonthDay(time.May, 1)),
	)
	return newTime(c, NoForm())
}

// Ides is the ides of month m: the 15th of March, May, July and October,
// the 13th otherwise.
func Ides(m int) (TimeValue, error) {
	month, err := Month(m)
	if err != nil {
		return TimeValue{}, err
	}
	day := 13
	switch time.Month(m) {
	case time.March, time.May, time.July, time.October:
		day = 15
	}
	dom, err := DayOfMonth(day)
	if err != nil {
		return TimeValue{}, err
	}
	return month.Intersect(dom)
}
