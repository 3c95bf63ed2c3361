package moment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/value-algebra/moment"
)

// Tuesday 2013-02-12 04:30:00
func refContext() moment.Context {
	return moment.NewContext(at(2013, time.February, 12, 4, 30, 0))
}

func resolve(t *testing.T, c moment.Constraint) moment.Interval {
	t.Helper()
	iv, ok := moment.Resolve(c, refContext(), false)
	require.True(t, ok, "constraint has no occurrence")
	return iv
}

func TestWalk_DayOfWeek_ForwardIncludesToday(t *testing.T) {
	ctx := refContext()
	w := moment.DayOfWeek(time.Tuesday).Walk(ctx.Reference, ctx)

	fwd := moment.Take(w.Forward, 2)
	require.Len(t, fwd, 2)
	assert.Equal(t, at(2013, time.February, 12, 0, 0, 0), fwd[0].Start)
	assert.Equal(t, at(2013, time.February, 19, 0, 0, 0), fwd[1].Start)

	bwd := moment.Take(w.Backward, 2)
	require.Len(t, bwd, 2)
	assert.Equal(t, at(2013, time.February, 5, 0, 0, 0), bwd[0].Start)
	assert.Equal(t, at(2013, time.January, 29, 0, 0, 0), bwd[1].Start)
}

func TestWalk_Hour12Clock(t *testing.T) {
	// 3 o'clock has passed today; the next one is 15:00
	got := resolve(t, moment.Hour(3, true))
	assert.Equal(t, at(2013, time.February, 12, 15, 0, 0), got.Start)
	assert.Equal(t, moment.Hour, got.Grain)

	// 24h clock: 03:30 tomorrow
	got = resolve(t, moment.HourMinute(3, 30, false))
	assert.Equal(t, at(2013, time.February, 13, 3, 30, 0), got.Start)
}

func TestWalk_DayOfMonthSkipsShortMonths(t *testing.T) {
	ctx := refContext()
	w := moment.DayOfMonth(31).Walk(ctx.Reference, ctx)
	got := moment.Take(w.Forward, 3)
	require.Len(t, got, 3)
	assert.Equal(t, at(2013, time.March, 31, 0, 0, 0), got[0].Start)
	assert.Equal(t, at(2013, time.May, 31, 0, 0, 0), got[1].Start)
	assert.Equal(t, at(2013, time.July, 31, 0, 0, 0), got[2].Start)
}

func TestTakeNth(t *testing.T) {
	tue := moment.DayOfWeek(time.Tuesday)

	assert.Equal(t, at(2013, time.February, 12, 0, 0, 0), resolve(t, moment.TakeNth(tue, 0, false)).Start)
	assert.Equal(t, at(2013, time.February, 19, 0, 0, 0), resolve(t, moment.TakeNth(tue, 0, true)).Start)
	assert.Equal(t, at(2013, time.February, 5, 0, 0, 0), resolve(t, moment.TakeNth(tue, -1, false)).Start)

	wed := moment.DayOfWeek(time.Wednesday)
	assert.Equal(t, at(2013, time.February, 13, 0, 0, 0), resolve(t, moment.TakeNth(wed, 0, true)).Start)

	fri := moment.DayOfWeek(time.Friday)
	assert.Equal(t, at(2013, time.February, 22, 0, 0, 0), resolve(t, moment.TakeNth(fri, 1, true)).Start)
}

func TestCycleNth(t *testing.T) {
	week := resolve(t, moment.CycleNth(moment.Week, 0))
	assert.Equal(t, at(2013, time.February, 11, 0, 0, 0), week.Start)

	lastWeek := resolve(t, moment.CycleNth(moment.Week, -1))
	assert.Equal(t, at(2013, time.February, 4, 0, 0, 0), lastWeek.Start)
	assert.Equal(t, at(2013, time.February, 11, 0, 0, 0), lastWeek.EndMoment())

	quarter := resolve(t, moment.CycleNth(moment.Quarter, 0))
	assert.Equal(t, at(2013, time.January, 1, 0, 0, 0), quarter.Start)
}

func TestCycleN_ExcludesCurrentPeriod(t *testing.T) {
	last2 := resolve(t, moment.CycleN(moment.Day, -2))
	assert.Equal(t, at(2013, time.February, 10, 0, 0, 0), last2.Start)
	assert.Equal(t, at(2013, time.February, 12, 0, 0, 0), last2.EndMoment())

	next3 := resolve(t, moment.CycleN(moment.Week, 3))
	assert.Equal(t, at(2013, time.February, 18, 0, 0, 0), next3.Start)
	assert.Equal(t, at(2013, time.March, 11, 0, 0, 0), next3.EndMoment())

	_, ok := moment.Resolve(moment.CycleN(moment.Day, 0), refContext(), false)
	assert.False(t, ok)
}

func TestIntersect_PastDateWithinHorizon(t *testing.T) {
	// GIVEN: Sunday Feb 10 next falls in 2019, beyond the search horizon
	// WHEN: resolving "Sunday, Feb 10"
	// THEN: the past occurrence two days ago wins
	got := resolve(t, moment.Intersect(moment.DayOfWeek(time.Sunday), moment.MonthDay(time.February, 10)))
	assert.Equal(t, at(2013, time.February, 10, 0, 0, 0), got.Start)

	// Friday May 12 next falls in 2017, inside the horizon
	got = resolve(t, moment.Intersect(moment.DayOfWeek(time.Friday), moment.MonthDay(time.May, 12)))
	assert.Equal(t, at(2017, time.May, 12, 0, 0, 0), got.Start)
}

func TestIntersect_FixedOuter(t *testing.T) {
	thisWeek := moment.CycleNth(moment.Week, 0)
	got := resolve(t, moment.Intersect(moment.DayOfWeek(time.Tuesday), thisWeek))
	assert.Equal(t, at(2013, time.February, 12, 0, 0, 0), got.Start)

	got = resolve(t, moment.Intersect(moment.DayOfWeek(time.Monday), thisWeek))
	assert.Equal(t, at(2013, time.February, 11, 0, 0, 0), got.Start, "past day of the current week")

	// Two fixed operands are both computed from the reference
	got = resolve(t, moment.Intersect(thisWeek, moment.CycleNth(moment.Day, 1)))
	assert.Equal(t, at(2013, time.February, 13, 0, 0, 0), got.Start)
}

func TestSpan_InclusiveAndExclusive(t *testing.T) {
	evening := moment.Span(moment.Hour(18, false), moment.Hour(0, false), false)
	got := resolve(t, evening)
	assert.Equal(t, at(2013, time.February, 12, 18, 0, 0), got.Start)
	assert.Equal(t, at(2013, time.February, 13, 0, 0, 0), got.EndMoment())

	meeting := moment.Span(moment.HourMinute(9, 30, false), moment.HourMinute(11, 0, false), true)
	got = resolve(t, meeting)
	assert.Equal(t, at(2013, time.February, 12, 9, 30, 0), got.Start)
	assert.Equal(t, at(2013, time.February, 12, 11, 1, 0), got.EndMoment())
}

func TestSpan_CoveringReferenceStartedLastYear(t *testing.T) {
	winter := moment.Span(moment.MonthDay(time.December, 21), moment.MonthDay(time.March, 20), true)
	got := resolve(t, moment.TakeNth(winter, 0, false))
	assert.Equal(t, at(2012, time.December, 21, 0, 0, 0), got.Start)
	assert.Equal(t, at(2013, time.March, 21, 0, 0, 0), got.EndMoment())
}

func TestTranslate(t *testing.T) {
	now := moment.CycleNth(moment.Second, 0)

	in2h := moment.Translate(now, moment.NewPeriod(moment.PeriodComp{Grain: moment.Hour, Quantity: 2}), moment.Minute)
	got := resolve(t, in2h)
	assert.Equal(t, at(2013, time.February, 12, 6, 30, 0), got.Start)
	assert.True(t, got.IsInstant())

	ago7d := moment.Translate(now, moment.NewPeriod(moment.PeriodComp{Grain: moment.Day, Quantity: -7}), moment.Hour)
	got = resolve(t, ago7d)
	assert.Equal(t, at(2013, time.February, 5, 4, 0, 0), got.Start)
	assert.Equal(t, moment.Hour, got.Grain)

	// Every Christmas shifted by a year; last year's lands in the future
	yearAfterXmas := moment.Translate(moment.MonthDay(time.December, 25), moment.NewPeriod(moment.PeriodComp{Grain: moment.Year, Quantity: 1}), moment.Month)
	got = resolve(t, yearAfterXmas)
	assert.Equal(t, at(2013, time.December, 1, 0, 0, 0), got.Start)
	assert.Equal(t, moment.Month, got.Grain)
}

func TestLastOfAndNthOf(t *testing.T) {
	march := moment.MonthOfYear(time.March)
	got := resolve(t, moment.LastOf(moment.DayOfWeek(time.Monday), march))
	assert.Equal(t, at(2013, time.March, 25, 0, 0, 0), got.Start)

	sep2014 := moment.Intersect(moment.MonthOfYear(time.September), moment.YearOf(2014))
	lastWeek := resolve(t, moment.LastOf(moment.Cycle(moment.Week), sep2014))
	assert.Equal(t, at(2014, time.September, 22, 0, 0, 0), lastWeek.Start, "the week of Sep 29 spills into October")

	third := resolve(t, moment.NthOf(moment.DayOfWeek(time.Tuesday), 2, sep2014))
	assert.Equal(t, at(2014, time.September, 16, 0, 0, 0), third.Start)
}

func TestNthAfter(t *testing.T) {
	xmas2014 := moment.Intersect(moment.MonthDay(time.December, 25), moment.YearOf(2014))
	got := resolve(t, moment.NthAfter(moment.DayOfWeek(time.Tuesday), 2, xmas2014))
	assert.Equal(t, at(2015, time.January, 13, 0, 0, 0), got.Start)
}

func TestCycleNthAfter(t *testing.T) {
	oct2014 := moment.Intersect(moment.MonthOfYear(time.October), moment.YearOf(2014))
	firstWeek := resolve(t, moment.CycleNthAfterNotImmediate(moment.Week, 0, oct2014))
	assert.Equal(t, at(2014, time.October, 6, 0, 0, 0), firstWeek.Start)

	thirdQuarter := resolve(t, moment.CycleNthAfter(moment.Quarter, 2, moment.CycleNth(moment.Year, 0)))
	assert.Equal(t, at(2013, time.July, 1, 0, 0, 0), thirdQuarter.Start)

	// Mother's day: the Sunday of May in the week after the one holding May 1st
	mothersDay := moment.Intersect(
		moment.Intersect(moment.DayOfWeek(time.Sunday), moment.MonthOfYear(time.May)),
		moment.CycleNthAfter(moment.Week, 1, moment.MonthDay(time.May, 1)),
	)
	assert.Equal(t, at(2013, time.May, 12, 0, 0, 0), resolve(t, mothersDay).Start)
}

func TestResolve_SkipCovering(t *testing.T) {
	got, ok := moment.Resolve(moment.DayOfWeek(time.Tuesday), refContext(), true)
	require.True(t, ok)
	assert.Equal(t, at(2013, time.February, 19, 0, 0, 0), got.Start)
}

func TestResolve_HonoursLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	ctx := moment.NewContext(time.Date(2013, time.February, 12, 4, 30, 0, 0, berlin))
	got, ok := moment.Resolve(moment.CycleNth(moment.Day, 1), ctx, false)
	require.True(t, ok)
	assert.Equal(t, time.Date(2013, time.February, 13, 0, 0, 0, 0, berlin), got.Start)
	assert.Equal(t, berlin, got.Start.Location())
}
