package values_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/value-algebra/moment"
	"github.com/warp/value-algebra/values"
)

// Tuesday 2013-02-12 04:30:00
var reference = time.Date(2013, time.February, 12, 4, 30, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time { return time.Date(2013, m, d, 0, 0, 0, 0, time.UTC) }

func occurrence(t *testing.T, v values.TimeValue) moment.Interval {
	t.Helper()
	iv, ok := moment.Resolve(v.Constraint(), moment.NewContext(reference), v.Form().Kind == values.FormDayOfWeek)
	require.True(t, ok, "no occurrence for %s", v)
	return iv
}

func must[T any](t *testing.T) func(T, error) T {
	return func(v T, err error) T {
		t.Helper()
		require.NoError(t, err)
		return v
	}
}

func TestCalendarConstructors_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"month 13", errOf(values.Month(13))},
		{"month 0", errOf(values.Month(0))},
		{"feb 30", errOf(values.MonthDay(2, 30))},
		{"apr 31", errOf(values.MonthDay(4, 31))},
		{"day 32", errOf(values.DayOfMonth(32))},
		{"weekday 7", errOf(values.DayOfWeek(time.Weekday(7)))},
		{"year 0", errOf(values.Year(0))},
		{"2013-02-29", errOf(values.YMD(2013, 2, 29))},
		{"hour 24", errOf(values.Hour(24, false))},
		{"minute 60", errOf(values.HourMinute(10, 60, false))},
		{"second 60", errOf(values.HourMinuteSecond(10, 0, 60, false))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, values.ErrOutOfRange)
		})
	}

	_, err := values.MonthDay(2, 29)
	assert.NoError(t, err, "leap day without a year is valid")
}

func errOf(_ any, err error) error { return err }

func TestHour_LatentOn12hClock(t *testing.T) {
	three := must[values.TimeValue](t)(values.Hour(3, true))
	assert.True(t, three.IsLatent())
	assert.Equal(t, values.HourForm(3, true), three.Form())

	assert.False(t, must[values.TimeValue](t)(values.Hour(15, true)).IsLatent())
	assert.False(t, must[values.TimeValue](t)(values.Hour(3, false)).IsLatent())
}

func TestMetadataSettersAreIdempotent(t *testing.T) {
	x := must[values.TimeValue](t)(values.Hour(3, true))

	assert.Equal(t, x.NotLatent(), x.NotLatent().NotLatent())
	assert.Equal(t, x.Latent(), x.Latent().Latent())
	assert.Equal(t, x.WithPrecision(values.Approximate), x.WithPrecision(values.Approximate).WithPrecision(values.Approximate))
	assert.Equal(t, x.WithDirection(values.After), x.WithDirection(values.After).WithDirection(values.After))

	// setters return copies
	_ = x.NotLatent()
	assert.True(t, x.IsLatent())
}

func TestIntersect_IncompatibleForms(t *testing.T) {
	monday := must[values.TimeValue](t)(values.DayOfWeek(time.Monday))
	tuesday := must[values.TimeValue](t)(values.DayOfWeek(time.Tuesday))
	_, err := monday.Intersect(tuesday)
	assert.ErrorIs(t, err, values.ErrIncompatibleForms)

	var conflict *values.FormConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "intersect", conflict.Op)

	y2013 := must[values.TimeValue](t)(values.Year(2013))
	y2014 := must[values.TimeValue](t)(values.Year(2014))
	_, err = y2013.Intersect(y2014)
	assert.ErrorIs(t, err, values.ErrIncompatibleForms)

	// Same value is compatible
	both, err := monday.Intersect(monday)
	require.NoError(t, err)
	assert.Equal(t, values.FormNone, both.Form().Kind)
}

func TestIntersect_ConfirmsAndJoinsPrecision(t *testing.T) {
	three := must[values.TimeValue](t)(values.Hour(3, true))
	got, err := values.Tomorrow().Intersect(three.WithPrecision(values.Approximate))
	require.NoError(t, err)

	assert.False(t, got.IsLatent())
	assert.Equal(t, values.Approximate, got.Precision())
	assert.Equal(t, time.Date(2013, time.February, 13, 3, 0, 0, 0, time.UTC), occurrence(t, got).Start)
}

func TestSpanTo_DayGrainIsInclusive(t *testing.T) {
	// GIVEN: "Montag bis Freitag"
	monday := must[values.TimeValue](t)(values.DayOfWeek(time.Monday))
	friday := must[values.TimeValue](t)(values.DayOfWeek(time.Friday))

	// WHEN: spanning without asking for inclusivity
	week, err := monday.SpanTo(friday, false)
	require.NoError(t, err)

	// THEN: the span still covers Friday
	got := occurrence(t, week)
	assert.Equal(t, day(time.February, 11), got.Start)
	assert.Equal(t, day(time.February, 16), got.EndMoment())
}

func TestSpanTo_TimeOfDayRange(t *testing.T) {
	from := must[values.TimeValue](t)(values.HourMinute(9, 30, false))
	to := must[values.TimeValue](t)(values.HourMinute(11, 0, false))
	span, err := from.SpanTo(to, true)
	require.NoError(t, err)

	got := occurrence(t, span)
	assert.Equal(t, time.Date(2013, time.February, 12, 9, 30, 0, 0, time.UTC), got.Start)
	assert.Equal(t, time.Date(2013, time.February, 12, 11, 1, 0, 0, time.UTC), got.EndMoment())
}

func TestSpanTo_MismatchedForms(t *testing.T) {
	monday := must[values.TimeValue](t)(values.DayOfWeek(time.Monday))
	march := must[values.TimeValue](t)(values.Month(3))
	_, err := monday.SpanTo(march, false)
	assert.ErrorIs(t, err, values.ErrIncompatibleForms)
}

func TestTheNth(t *testing.T) {
	tuesday := must[values.TimeValue](t)(values.DayOfWeek(time.Tuesday))

	next, err := tuesday.TheNthNotImmediate(0)
	require.NoError(t, err)
	assert.Equal(t, day(time.February, 19), occurrence(t, next).Start)

	this, err := tuesday.TheNth(0)
	require.NoError(t, err)
	assert.Equal(t, day(time.February, 12), occurrence(t, this).Start)

	_, err = tuesday.TheNth(10_000)
	assert.ErrorIs(t, err, values.ErrOutOfRange)
}

func TestCycleNth(t *testing.T) {
	week := must[values.TimeValue](t)(values.CycleNth(moment.Week, 0))
	assert.Equal(t, day(time.February, 11), occurrence(t, week).Start)

	lastWeek := must[values.TimeValue](t)(values.CycleNth(moment.Week, -1))
	got := occurrence(t, lastWeek)
	assert.Equal(t, day(time.February, 4), got.Start)
	assert.Equal(t, day(time.February, 11), got.EndMoment())

	_, err := values.CycleNth(moment.Grain(42), 0)
	assert.ErrorIs(t, err, values.ErrOutOfRange)
}

func TestCycleNNotImmediate(t *testing.T) {
	next3 := must[values.TimeValue](t)(values.CycleNNotImmediate(moment.Day, 3))
	got := occurrence(t, next3)
	assert.Equal(t, day(time.February, 13), got.Start)
	assert.Equal(t, day(time.February, 16), got.EndMoment())

	_, err := values.CycleNNotImmediate(moment.Day, 0)
	assert.ErrorIs(t, err, values.ErrOutOfRange)
}

func TestCycleValue_LastOf(t *testing.T) {
	week := must[values.CycleValue](t)(values.NewCycle(moment.Week))
	sep2014 := must[values.TimeValue](t)(must[values.TimeValue](t)(values.Month(9)).Intersect(must[values.TimeValue](t)(values.Year(2014))))

	last, err := week.LastOf(sep2014)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2014, time.September, 22, 0, 0, 0, 0, time.UTC), occurrence(t, last).Start)
}

func TestHourRelativeMinute(t *testing.T) {
	tests := []struct {
		hour, offset int
		wantH, wantM int
	}{
		{3, 15, 3, 15},
		{4, -15, 3, 45},
		{0, -15, 23, 45},
		{23, 30, 23, 30},
	}
	for _, tt := range tests {
		got, err := values.HourRelativeMinute(tt.hour, tt.offset, false)
		require.NoError(t, err)
		want, err := values.HourMinute(tt.wantH, tt.wantM, false)
		require.NoError(t, err)
		assert.Equal(t, occurrence(t, want), occurrence(t, got), "%d%+d", tt.hour, tt.offset)
	}

	_, err := values.HourRelativeMinute(4, 60, true)
	assert.ErrorIs(t, err, values.ErrOutOfRange)
}

func TestHourRelativeMinute_QuarterTo4(t *testing.T) {
	got, err := values.HourRelativeMinute(4, -15, true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2013, time.February, 12, 15, 45, 0, 0, time.UTC), occurrence(t, got).Start,
		"03:45 has passed; the 12h reading picks 15:45")
	assert.Equal(t, values.HourForm(3, true), got.Form())

	// Before 03:45 the clock reading itself is the next occurrence.
	midnight := time.Date(2013, time.February, 12, 0, 0, 0, 0, time.UTC)
	iv, ok := moment.Resolve(got.Constraint(), moment.NewContext(midnight), false)
	require.True(t, ok)
	assert.Equal(t, time.Date(2013, time.February, 12, 3, 45, 0, 0, time.UTC), iv.Start)
	assert.Equal(t, moment.Minute, iv.Grain)
}

func TestDecimalHourInMinute(t *testing.T) {
	got, err := values.DecimalHourInMinute("2", "5")
	require.NoError(t, err)
	assert.Equal(t, 170, got)

	got, err = values.DecimalHourInMinute("2", "30")
	require.NoError(t, err)
	assert.Equal(t, 150, got)

	_, err = values.DecimalHourInMinute("2", "75")
	assert.ErrorIs(t, err, values.ErrOutOfRange)
	_, err = values.DecimalHourInMinute("2", "305")
	assert.ErrorIs(t, err, values.ErrOutOfRange)
	_, err = values.DecimalHourInMinute("2", "")
	assert.ErrorIs(t, err, values.ErrOutOfRange)
}

func TestIdioms(t *testing.T) {
	weekend := occurrence(t, values.Weekend())
	assert.Equal(t, time.Date(2013, time.February, 15, 18, 0, 0, 0, time.UTC), weekend.Start)
	assert.Equal(t, day(time.February, 18), weekend.EndMoment())

	mothers := occurrence(t, values.MothersDay())
	assert.Equal(t, day(time.May, 12), mothers.Start)

	ides, err := values.Ides(3)
	require.NoError(t, err)
	assert.Equal(t, day(time.March, 15), occurrence(t, ides).Start)

	evening, err := values.DayPart(values.Evening)
	require.NoError(t, err)
	assert.True(t, evening.IsLatent())
	assert.Equal(t, values.FormPartOfDay, evening.Form().Kind)

	tonight := occurrence(t, values.Tonight())
	assert.Equal(t, time.Date(2013, time.February, 12, 18, 0, 0, 0, time.UTC), tonight.Start)

	_, err = values.DayPart(values.PartOfDay(99))
	assert.ErrorIs(t, err, values.ErrOutOfRange)
}

func TestParsePartOfDay_EarlyNight(t *testing.T) {
	p, err := values.ParsePartOfDay("early-night")
	require.NoError(t, err)
	assert.Equal(t, values.LateEvening, p)

	tonight, err := values.ThisDayPart(p)
	require.NoError(t, err)
	iv := occurrence(t, tonight)
	assert.Equal(t, time.Date(2013, time.February, 12, 21, 0, 0, 0, time.UTC), iv.Start)

	_, err = values.ParsePartOfDay("midnight-snack")
	assert.ErrorIs(t, err, values.ErrOutOfRange)
}

func TestPM(t *testing.T) {
	three := must[values.TimeValue](t)(values.Hour(3, true))
	pm, err := values.PM(three)
	require.NoError(t, err)
	assert.False(t, pm.IsLatent())
	assert.Equal(t, values.FormTimeOfDay, pm.Form().Kind)
	assert.Equal(t, time.Date(2013, time.February, 12, 15, 0, 0, 0, time.UTC), occurrence(t, pm).Start)
}

func TestSeasonsAndHolidays(t *testing.T) {
	summer, err := values.Season(values.Summer)
	require.NoError(t, err)
	this, err := summer.TheNth(0)
	require.NoError(t, err)
	got := occurrence(t, this)
	assert.Equal(t, day(time.June, 21), got.Start)
	assert.Equal(t, day(time.September, 24), got.EndMoment())

	xmas, err := values.Holiday(values.Christmas)
	require.NoError(t, err)
	assert.Equal(t, day(time.December, 25), occurrence(t, xmas).Start)

	name, err := values.ParseHoliday("christmas")
	require.NoError(t, err)
	assert.Equal(t, values.Christmas, name)
}

func TestDuration(t *testing.T) {
	hour := must[values.UnitOfDuration](t)(values.NewUnitOfDuration(moment.Hour))
	minute := must[values.UnitOfDuration](t)(values.NewUnitOfDuration(moment.Minute))

	d := must[values.Duration](t)(hour.Times(1)).Add(must[values.Duration](t)(minute.Times(15)))
	assert.Equal(t, 1, d.Period().Quantity(moment.Hour))
	assert.Equal(t, 15, d.Period().Quantity(moment.Minute))

	in := occurrence(t, d.InPresent())
	assert.Equal(t, time.Date(2013, time.February, 12, 5, 45, 0, 0, time.UTC), in.Start)
	assert.True(t, in.IsInstant())

	half := must[values.Duration](t)(hour.Half())
	assert.Equal(t, 30, half.Period().Quantity(moment.Minute))

	_, err := must[values.UnitOfDuration](t)(values.NewUnitOfDuration(moment.Quarter)).Half()
	assert.ErrorIs(t, err, values.ErrOutOfRange)

	approx := d.WithPrecision(values.Approximate)
	assert.Equal(t, approx, approx.WithPrecision(values.Approximate))
	assert.Equal(t, values.Approximate, approx.InPresent().Precision())
}

func TestDuration_Within(t *testing.T) {
	week := must[values.UnitOfDuration](t)(values.NewUnitOfDuration(moment.Week))
	within, err := must[values.Duration](t)(week.Times(2)).Within()
	require.NoError(t, err)

	got := occurrence(t, within)
	assert.Equal(t, reference, got.Start)
	assert.Equal(t, day(time.February, 26), got.EndMoment())
}
