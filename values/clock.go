package values

import (
	"fmt"
	"strconv"
)

const minutesPerDay = 24 * 60

// RelativeMinute is a signed minute offset: "viertel" is 15, "halb" 30.
type RelativeMinute int

// NewRelativeMinute validates an offset of at most 59 minutes either way.
func NewRelativeMinute(m int) (RelativeMinute, error) {
	if err := checkRange("relative minute", int64(m), -59, 59); err != nil {
		return 0, err
	}
	return RelativeMinute(m), nil
}

func (r RelativeMinute) Kind() Kind     { return KindRelativeMinute }
func (r RelativeMinute) String() string { return fmt.Sprintf("%+d min", int(r)) }

// HourRelativeMinute is the time of day offset minutes from hour, rolling
// into the neighbouring hour (and day) as needed: (4, -15) is 03:45,
// (0, -15) is 23:45.
func HourRelativeMinute(hour, offset int, clock12 bool) (TimeValue, error) {
	if err := checkRange("hour", int64(hour), 0, 23); err != nil {
		return TimeValue{}, err
	}
	if err := checkRange("relative minute", int64(offset), -59, 59); err != nil {
		return TimeValue{}, err
	}
	total := ((hour*60+offset)%minutesPerDay + minutesPerDay) % minutesPerDay
	return HourMinute(total/60, total%60, clock12)
}

// DecimalHourInMinute converts a literal "H.MM" into minutes. The digits
// after the point are minute digits, not a fraction of an hour: "2.5" is
// 2h50 (170) and "2.30" is 2h30 (150).
func DecimalHourInMinute(intPart, fracPart string) (int, error) {
	h, err := ParseInteger(intPart)
	if err != nil {
		return 0, err
	}
	if len(fracPart) == 0 || len(fracPart) > 2 {
		return 0, fmt.Errorf("minute digits %q: %w", fracPart, ErrOutOfRange)
	}
	if len(fracPart) == 1 {
		fracPart += "0"
	}
	m, err := strconv.Atoi(fracPart)
	if err != nil || !allDigits(fracPart) {
		return 0, fmt.Errorf("minute digits %q: %w", fracPart, ErrOutOfRange)
	}
	if err := checkRange("minute", int64(m), 0, 59); err != nil {
		return 0, err
	}
	if err := checkRange("hours", h.Value, 0, maxWalk); err != nil {
		return 0, err
	}
	return int(h.Value)*60 + m, nil
}
