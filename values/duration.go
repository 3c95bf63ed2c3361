/*
duration.go - Durations and their conversion to time values

PURPOSE:
  A Duration is a moment.Period (at most one component per grain) plus a
  precision. Durations stay symbolic: "1 hour and 15 minutes" is two
  components until it is applied to an anchor.

ANCHORING:
  InPresent   reference + d        "in 2 hours"
  Ago         reference - d        "7 days ago"
  After(t)    every t + d          "a year after Christmas"
  Before(t)   every t - d
  Within      [reference, reference + d)

  The anchor is truncated to the grain just below the finest component
  before shifting: "in 2 hours" keeps minutes, "7 days ago" keeps hours.
  The result is an instant of that grain.
*/
package values

import (
	"fmt"

	"github.com/warp/value-algebra/moment"
)

// maxQuantity bounds a single period component.
const maxQuantity = 1_000_000

// UnitOfDuration is the unit operand of "<n> <unit>".
type UnitOfDuration struct {
	Grain moment.Grain
}

// NewUnitOfDuration validates g.
func NewUnitOfDuration(g moment.Grain) (UnitOfDuration, error) {
	if err := checkGrain(g); err != nil {
		return UnitOfDuration{}, err
	}
	return UnitOfDuration{Grain: g}, nil
}

func (u UnitOfDuration) Kind() Kind     { return KindUnitOfDuration }
func (u UnitOfDuration) String() string { return fmt.Sprintf("unit(%s)", u.Grain) }

// Times is n units: "3 Tage".
func (u UnitOfDuration) Times(n int) (Duration, error) {
	if err := checkGrain(u.Grain); err != nil {
		return Duration{}, err
	}
	if err := checkRange("quantity", int64(n), -maxQuantity, maxQuantity); err != nil {
		return Duration{}, err
	}
	return NewDuration(moment.PeriodComp{Grain: u.Grain, Quantity: n}), nil
}

// Half is half a unit expressed in a finer grain: "eine halbe Stunde".
func (u UnitOfDuration) Half() (Duration, error) {
	var c moment.PeriodComp
	switch u.Grain {
	case moment.Minute:
		c = moment.PeriodComp{Grain: moment.Second, Quantity: 30}
	case moment.Hour:
		c = moment.PeriodComp{Grain: moment.Minute, Quantity: 30}
	case moment.Day:
		c = moment.PeriodComp{Grain: moment.Hour, Quantity: 12}
	case moment.Week:
		c = moment.PeriodComp{Grain: moment.Hour, Quantity: 84}
	case moment.Year:
		c = moment.PeriodComp{Grain: moment.Month, Quantity: 6}
	case moment.Second, moment.Month, moment.Quarter:
		return Duration{}, fmt.Errorf("half a %s: %w", u.Grain, ErrOutOfRange)
	default:
		return Duration{}, checkGrain(u.Grain)
	}
	return NewDuration(c), nil
}

// Duration is a symbolic length of time.
type Duration struct {
	period    moment.Period
	precision Precision
}

// NewDuration builds an exact duration; components of equal grain merge.
func NewDuration(comps ...moment.PeriodComp) Duration {
	return Duration{period: moment.NewPeriod(comps...)}
}

func (d Duration) Kind() Kind            { return KindDuration }
func (d Duration) Period() moment.Period { return d.period }
func (d Duration) Precision() Precision  { return d.precision }
func (d Duration) String() string        { return d.period.String() }

// WithPrecision returns a copy tagged with p.
func (d Duration) WithPrecision(p Precision) Duration {
	d.precision = p
	return d
}

// Add merges o into d component-wise. The sum is approximate if either is.
func (d Duration) Add(o Duration) Duration {
	p := Exact
	if d.precision == Approximate || o.precision == Approximate {
		p = Approximate
	}
	return Duration{period: d.period.Add(o.period), precision: p}
}

// anchorGrain is the grain just below the finest component.
func (d Duration) anchorGrain() moment.Grain {
	finest, ok := d.period.FinestGrain()
	if !ok {
		return moment.Second
	}
	return finest.Lower()
}

func (d Duration) shifted(src moment.Constraint, p moment.Period) TimeValue {
	return TimeValue{
		c:     moment.Translate(src, p, d.anchorGrain()),
		form:  NoForm(),
		marks: Marks{Precision: d.precision},
	}
}

// InPresent is the instant d from the reference.
func (d Duration) InPresent() TimeValue {
	return d.shifted(moment.CycleNth(moment.Second, 0), d.period)
}

// Ago is the instant d before the reference.
func (d Duration) Ago() TimeValue {
	return d.shifted(moment.CycleNth(moment.Second, 0), d.period.Neg())
}

// After shifts every occurrence of t forward by d.
func (d Duration) After(t TimeValue) (TimeValue, error) {
	if err := requireConstraint("after", t); err != nil {
		return TimeValue{}, err
	}
	return d.shifted(t.c, d.period), nil
}

// Before shifts every occurrence of t back by d.
func (d Duration) Before(t TimeValue) (TimeValue, error) {
	if err := requireConstraint("before", t); err != nil {
		return TimeValue{}, err
	}
	return d.shifted(t.c, d.period.Neg()), nil
}

// Within is the range from the reference up to InPresent: "binnen 2 Wochen".
func (d Duration) Within() (TimeValue, error) {
	return Now().SpanTo(d.InPresent(), false)
}
