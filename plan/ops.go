package plan

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/warp/value-algebra/moment"
	"github.com/warp/value-algebra/numeral"
	"github.com/warp/value-algebra/values"
)

type buildFunc = func(n Node, args []values.Dimension) (values.Dimension, error)

// constant wraps a zero-operand time value.
func constant(f func() values.TimeValue) buildFunc {
	return func(Node, []values.Dimension) (values.Dimension, error) { return f(), nil }
}

// unaryTime wraps a one-operand time-to-time op.
func unaryTime(f func(values.TimeValue) (values.TimeValue, error)) buildFunc {
	return func(_ Node, args []values.Dimension) (values.Dimension, error) {
		t, err := timeArg(args, 0)
		if err != nil {
			return nil, err
		}
		return f(t)
	}
}

// binaryTime wraps a two-operand time op.
func binaryTime(f func(n Node, a, b values.TimeValue) (values.TimeValue, error)) buildFunc {
	return func(n Node, args []values.Dimension) (values.Dimension, error) {
		a, err := timeArg(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := timeArg(args, 1)
		if err != nil {
			return nil, err
		}
		return f(n, a, b)
	}
}

// unaryInteger wraps a one-operand integer op.
func unaryInteger(f func(values.Integer) (values.Integer, error)) buildFunc {
	return func(_ Node, args []values.Dimension) (values.Dimension, error) {
		a, err := integerArg(args, 0)
		if err != nil {
			return nil, err
		}
		return f(a)
	}
}

// durationShift wraps duration × time ops such as "2 Tage nach X".
func durationShift(f func(values.Duration, values.TimeValue) (values.TimeValue, error)) buildFunc {
	return func(_ Node, args []values.Dimension) (values.Dimension, error) {
		d, err := durationArg(args, 0)
		if err != nil {
			return nil, err
		}
		t, err := timeArg(args, 1)
		if err != nil {
			return nil, err
		}
		return f(d, t)
	}
}

func opTable() map[string]opSpec {
	return map[string]opSpec{
		// ---------------------------------------------------------------------
		// Time constants
		// ---------------------------------------------------------------------
		"now":          {0, "the current second", constant(values.Now)},
		"today":        {0, "the current day", constant(values.Today)},
		"tomorrow":     {0, "the next day", constant(values.Tomorrow)},
		"yesterday":    {0, "the previous day", constant(values.Yesterday)},
		"end_of_month": {0, "the boundary at the end of the current month", constant(values.EndOfMonth)},
		"end_of_year":  {0, "the boundary at the end of the current year", constant(values.EndOfYear)},
		"weekend":      {0, "Friday 18:00 to Monday 00:00", constant(values.Weekend)},
		"mothers_day":  {0, "second Sunday of May", constant(values.MothersDay)},
		"tonight":      {0, "this evening", constant(values.Tonight)},
		"after_work":   {0, "today from 17:00 to 21:00", constant(values.AfterWork)},

		// ---------------------------------------------------------------------
		// Calendar constructors
		// ---------------------------------------------------------------------
		"month": {0, "month of year; month", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.Month(n.Month)
		}},
		"month_day": {0, "day of a month; month, day", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.MonthDay(n.Month, n.Day)
		}},
		"day_of_week": {0, "weekday; text (monday..sunday)", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			w, err := weekday(strings.ToLower(n.Text))
			if err != nil {
				return nil, err
			}
			return values.DayOfWeek(w)
		}},
		"day_of_month": {0, "day number; day", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.DayOfMonth(n.Day)
		}},
		"year": {0, "calendar year; year", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.Year(n.Year)
		}},
		"ymd": {0, "calendar date; year, month, day", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.YMD(n.Year, n.Month, n.Day)
		}},
		"hour": {0, "hour of day; hour, clock12", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.Hour(n.Hour, n.Clock12)
		}},
		"hour_minute": {0, "clock time; hour, minute, clock12", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.HourMinute(n.Hour, n.Minute, n.Clock12)
		}},
		"hour_minute_second": {0, "clock time; hour, minute, second, clock12", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.HourMinuteSecond(n.Hour, n.Minute, n.Second, n.Clock12)
		}},
		"hour_relative_minute": {1, "hour shifted by a relative_minute operand; hour, clock12", func(n Node, args []values.Dimension) (values.Dimension, error) {
			off, err := operand[values.RelativeMinute](args, 0, "relative-minute")
			if err != nil {
				return nil, err
			}
			return values.HourRelativeMinute(n.Hour, int(off), n.Clock12)
		}},
		"relative_minute": {0, "signed minute offset; n", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.NewRelativeMinute(n.N)
		}},

		// ---------------------------------------------------------------------
		// Cycles
		// ---------------------------------------------------------------------
		"cycle": {0, "every period of a grain; grain", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			g, err := grain(n)
			if err != nil {
				return nil, err
			}
			c, err := values.NewCycle(g)
			if err != nil {
				return nil, err
			}
			return c.Every(), nil
		}},
		"cycle_nth": {0, "the grain period n away from the reference; grain, n", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			g, err := grain(n)
			if err != nil {
				return nil, err
			}
			return values.CycleNth(g, n.N)
		}},
		"cycle_nth_after": {1, "the grain period n away from the operand; grain, n", func(n Node, args []values.Dimension) (values.Dimension, error) {
			g, err := grain(n)
			if err != nil {
				return nil, err
			}
			t, err := timeArg(args, 0)
			if err != nil {
				return nil, err
			}
			return values.CycleNthAfter(g, n.N, t)
		}},
		"cycle_nth_after_not_immediate": {1, "as cycle_nth_after, skipping the period the operand starts in; grain, n", func(n Node, args []values.Dimension) (values.Dimension, error) {
			g, err := grain(n)
			if err != nil {
				return nil, err
			}
			t, err := timeArg(args, 0)
			if err != nil {
				return nil, err
			}
			return values.CycleNthAfterNotImmediate(g, n.N, t)
		}},
		"cycle_n_not_immediate": {0, "the next (n>0) or last (n<0) |n| periods, excluding the current one; grain, n", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			g, err := grain(n)
			if err != nil {
				return nil, err
			}
			return values.CycleNNotImmediate(g, n.N)
		}},
		"cycle_last_of": {1, "the last grain period inside the operand; grain", func(n Node, args []values.Dimension) (values.Dimension, error) {
			c, outer, err := cycleAndTime(n, args)
			if err != nil {
				return nil, err
			}
			return c.LastOf(outer)
		}},
		"cycle_nth_of": {1, "the n-th (zero-based) grain period inside the operand; grain, n", func(n Node, args []values.Dimension) (values.Dimension, error) {
			c, outer, err := cycleAndTime(n, args)
			if err != nil {
				return nil, err
			}
			return c.NthOf(n.N, outer)
		}},

		// ---------------------------------------------------------------------
		// Time combinators
		// ---------------------------------------------------------------------
		"intersect": {variadic, "occurrences satisfying every operand, folded left", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			acc, err := timeArg(args, 0)
			if err != nil {
				return nil, err
			}
			for i := 1; i < len(args); i++ {
				t, err := timeArg(args, i)
				if err != nil {
					return nil, err
				}
				if acc, err = acc.Intersect(t); err != nil {
					return nil, err
				}
			}
			return acc, nil
		}},
		"span_to": {2, "from the first operand to the second; inclusive", binaryTime(func(n Node, a, b values.TimeValue) (values.TimeValue, error) {
			return a.SpanTo(b, n.Inclusive)
		})},
		"the_nth": {1, "the n-th occurrence counting the current one as 0; n", func(n Node, args []values.Dimension) (values.Dimension, error) {
			t, err := timeArg(args, 0)
			if err != nil {
				return nil, err
			}
			return t.TheNth(n.N)
		}},
		"the_nth_not_immediate": {1, "as the_nth, skipping an occurrence containing the reference; n", func(n Node, args []values.Dimension) (values.Dimension, error) {
			t, err := timeArg(args, 0)
			if err != nil {
				return nil, err
			}
			return t.TheNthNotImmediate(n.N)
		}},
		"the_nth_after": {2, "the n-th occurrence of the first operand after the second; n", binaryTime(func(n Node, a, b values.TimeValue) (values.TimeValue, error) {
			return a.TheNthAfter(n.N, b)
		})},
		"last_of": {2, "the last occurrence of the first operand inside the second", binaryTime(func(_ Node, a, b values.TimeValue) (values.TimeValue, error) {
			return a.LastOf(b)
		})},
		"nth_of": {2, "the n-th (zero-based) occurrence of the first operand inside the second; n", binaryTime(func(n Node, a, b values.TimeValue) (values.TimeValue, error) {
			return a.NthOf(n.N, b)
		})},

		// ---------------------------------------------------------------------
		// Time metadata
		// ---------------------------------------------------------------------
		"latent": {1, "mark the operand latent", unaryTime(func(t values.TimeValue) (values.TimeValue, error) {
			return t.Latent(), nil
		})},
		"not_latent": {1, "confirm the operand", unaryTime(func(t values.TimeValue) (values.TimeValue, error) {
			return t.NotLatent(), nil
		})},
		"precision": {1, "set precision on a time, duration or number; text (exact|approximate)", func(n Node, args []values.Dimension) (values.Dimension, error) {
			p, err := precision(n.Text)
			if err != nil {
				return nil, err
			}
			switch v := args[0].(type) {
			case values.TimeValue:
				return v.WithPrecision(p), nil
			case values.Duration:
				return v.WithPrecision(p), nil
			case values.Number:
				return values.WithNumberPrecision(v, p), nil
			default:
				return nil, errors.Wrapf(ErrBadNode, "precision on %s", v.Kind())
			}
		}},
		"direction": {1, "open the operand towards before or after; text", func(n Node, args []values.Dimension) (values.Dimension, error) {
			d, err := direction(n.Text)
			if err != nil {
				return nil, err
			}
			t, err := timeArg(args, 0)
			if err != nil {
				return nil, err
			}
			return t.WithDirection(d), nil
		}},

		// ---------------------------------------------------------------------
		// Idioms
		// ---------------------------------------------------------------------
		"part_of_day": {0, "latent part of day; text (morning, evening, ...)", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			p, err := values.ParsePartOfDay(n.Text)
			if err != nil {
				return nil, err
			}
			return values.DayPart(p)
		}},
		"this_part_of_day": {0, "part of day today; text", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			p, err := values.ParsePartOfDay(n.Text)
			if err != nil {
				return nil, err
			}
			return values.ThisDayPart(p)
		}},
		"am":             {1, "restrict the operand to 00:00-12:00", unaryTime(values.AM)},
		"pm":             {1, "restrict the operand to 12:00-24:00", unaryTime(values.PM)},
		"by_the_end_of":  {1, "from now to the end of the operand", unaryTime(values.ByTheEndOf)},
		"until":          {1, "everything before the operand", unaryTime(func(t values.TimeValue) (values.TimeValue, error) { return values.Until(t), nil })},
		"since":          {1, "everything after the operand", unaryTime(func(t values.TimeValue) (values.TimeValue, error) { return values.Since(t), nil })},
		"ordinal_quarter": {0, "quarter of year; n (1-4)", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.OrdinalQuarter(n.N)
		}},
		"season": {0, "astronomical season; text (spring|summer|autumn|winter)", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			s, err := values.ParseSeason(n.Text)
			if err != nil {
				return nil, err
			}
			return values.Season(s)
		}},
		"holiday": {0, "fixed-date holiday; text (christmas, halloween, ...)", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			h, err := values.ParseHoliday(n.Text)
			if err != nil {
				return nil, err
			}
			return values.Holiday(h)
		}},
		"ides": {0, "the ides of a month; month", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.Ides(n.Month)
		}},

		// ---------------------------------------------------------------------
		// Durations
		// ---------------------------------------------------------------------
		"unit": {0, "a unit of duration; grain", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			g, err := grain(n)
			if err != nil {
				return nil, err
			}
			return values.NewUnitOfDuration(g)
		}},
		"duration": {1, "n units; n, operand unit", func(n Node, args []values.Dimension) (values.Dimension, error) {
			u, err := operand[values.UnitOfDuration](args, 0, "unit-of-duration")
			if err != nil {
				return nil, err
			}
			return u.Times(n.N)
		}},
		"half": {1, "half a unit in a finer grain", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			u, err := operand[values.UnitOfDuration](args, 0, "unit-of-duration")
			if err != nil {
				return nil, err
			}
			return u.Half()
		}},
		"duration_add": {variadic, "sum of durations", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			acc, err := durationArg(args, 0)
			if err != nil {
				return nil, err
			}
			for i := 1; i < len(args); i++ {
				d, err := durationArg(args, i)
				if err != nil {
					return nil, err
				}
				acc = acc.Add(d)
			}
			return acc, nil
		}},
		"decimal_hours": {0, "literal H.MM hours as minutes; text", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			hours, minutes, ok := strings.Cut(n.Text, ".")
			if !ok {
				hours, minutes, ok = strings.Cut(n.Text, ",")
			}
			if !ok {
				return nil, errors.Wrapf(values.ErrOutOfRange, "decimal hours %q", n.Text)
			}
			total, err := values.DecimalHourInMinute(hours, minutes)
			if err != nil {
				return nil, err
			}
			return values.UnitOfDuration{Grain: moment.Minute}.Times(total)
		}},
		"in_present": {1, "the duration from now", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			d, err := durationArg(args, 0)
			if err != nil {
				return nil, err
			}
			return d.InPresent(), nil
		}},
		"ago": {1, "the duration before now", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			d, err := durationArg(args, 0)
			if err != nil {
				return nil, err
			}
			return d.Ago(), nil
		}},
		"within": {1, "from now until the duration has passed", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			d, err := durationArg(args, 0)
			if err != nil {
				return nil, err
			}
			return d.Within()
		}},
		"after":  {2, "the duration after the time operand", durationShift(values.Duration.After)},
		"before": {2, "the duration before the time operand", durationShift(values.Duration.Before)},

		// ---------------------------------------------------------------------
		// Number literals and words
		// ---------------------------------------------------------------------
		"integer": {0, "integer from text digits, or n", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			if n.Text == "" {
				return values.NewInteger(int64(n.N)), nil
			}
			return values.ParseInteger(n.Text)
		}},
		"grouped_integer": {0, "digit groups; text, sep", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			sep, err := singleRune("sep", n.Sep, '.')
			if err != nil {
				return nil, err
			}
			return values.ParseGroupedInteger(n.Text, sep)
		}},
		"decimal": {0, "decimal literal; text, point", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			point, err := singleRune("point", n.Point, '.')
			if err != nil {
				return nil, err
			}
			return values.ParseDecimal(n.Text, point)
		}},
		"grouped_decimal": {0, "grouped decimal literal; text, sep, point", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			sep, err := singleRune("sep", n.Sep, '.')
			if err != nil {
				return nil, err
			}
			point, err := singleRune("point", n.Point, ',')
			if err != nil {
				return nil, err
			}
			return values.ParseGroupedDecimal(n.Text, sep, point)
		}},
		"cardinal": {0, "German cardinal word; text", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return numeral.Cardinal(n.Text)
		}},
		"quantifier": {0, "paar, mehrere, dutzend; text", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return numeral.Quantifier(n.Text)
		}},
		"ordinal": {0, "ordinal position; n", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return values.NewOrdinal(int64(n.N))
		}},
		"ordinal_word": {0, "German ordinal word or digit ordinal; text", func(n Node, _ []values.Dimension) (values.Dimension, error) {
			return numeral.Ordinal(n.Text)
		}},
		"couple": {0, "two", func(Node, []values.Dimension) (values.Dimension, error) { return values.Couple(), nil }},
		"few":    {0, "about three", func(Node, []values.Dimension) (values.Dimension, error) { return values.Few(), nil }},
		"dozen":  {0, "twelve, usable as a group", func(Node, []values.Dimension) (values.Dimension, error) { return values.Dozen(), nil }},

		// ---------------------------------------------------------------------
		// Number composition
		// ---------------------------------------------------------------------
		"compose": {2, "additive or multiplicative composition of two numbers", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			a, err := numberArg(args, 0)
			if err != nil {
				return nil, err
			}
			b, err := numberArg(args, 1)
			if err != nil {
				return nil, err
			}
			return values.ComposeNumbers(a, b)
		}},
		"tens_and_units": {2, "units then tens: ein-und-zwanzig", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			u, err := integerArg(args, 0)
			if err != nil {
				return nil, err
			}
			t, err := integerArg(args, 1)
			if err != nil {
				return nil, err
			}
			return values.TensAndUnits(u, t)
		}},
		"hundreds":  {1, "operand times 100", unaryInteger(values.Hundreds)},
		"thousands": {1, "operand times 1000", unaryInteger(values.Thousands)},
		"millions":  {1, "operand times 1000000", unaryInteger(values.Millions)},
		"negate": {1, "negative sign, once", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			a, err := numberArg(args, 0)
			if err != nil {
				return nil, err
			}
			return values.Negate(a)
		}},
		"suffix": {1, "k/m/g magnitude suffix, once; text", func(n Node, args []values.Dimension) (values.Dimension, error) {
			s, err := values.ParseSuffix(n.Text)
			if err != nil {
				return nil, err
			}
			a, err := numberArg(args, 0)
			if err != nil {
				return nil, err
			}
			return values.ScaleBySuffix(a, s)
		}},
		"decimal_compose": {2, "first operand plus a tenth of the second: drei komma fünf", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			a, err := numberArg(args, 0)
			if err != nil {
				return nil, err
			}
			b, err := numberArg(args, 1)
			if err != nil {
				return nil, err
			}
			return values.DecimalCompose(a, b)
		}},
		"dozens": {2, "count times a group number: drei dutzend", func(_ Node, args []values.Dimension) (values.Dimension, error) {
			a, err := integerArg(args, 0)
			if err != nil {
				return nil, err
			}
			g, err := integerArg(args, 1)
			if err != nil {
				return nil, err
			}
			return values.Dozens(a, g)
		}},
	}
}

func cycleAndTime(n Node, args []values.Dimension) (values.CycleValue, values.TimeValue, error) {
	g, err := grain(n)
	if err != nil {
		return values.CycleValue{}, values.TimeValue{}, err
	}
	c, err := values.NewCycle(g)
	if err != nil {
		return values.CycleValue{}, values.TimeValue{}, err
	}
	t, err := timeArg(args, 0)
	if err != nil {
		return values.CycleValue{}, values.TimeValue{}, err
	}
	return c, t, nil
}
