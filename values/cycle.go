package values

import (
	"fmt"

	"github.com/warp/value-algebra/moment"
)

// CycleValue is a repeating calendar unit used as an operand: the "week"
// in "next week" or "the last week of September".
type CycleValue struct {
	Grain moment.Grain
}

// NewCycle validates g.
func NewCycle(g moment.Grain) (CycleValue, error) {
	if err := checkGrain(g); err != nil {
		return CycleValue{}, err
	}
	return CycleValue{Grain: g}, nil
}

func (c CycleValue) Kind() Kind     { return KindCycle }
func (c CycleValue) String() string { return fmt.Sprintf("cycle(%s)", c.Grain) }

// Every is the time value matching every period of the cycle.
func (c CycleValue) Every() TimeValue { return newTime(moment.Cycle(c.Grain), NoForm()) }

// Nth is CycleNth for this cycle.
func (c CycleValue) Nth(n int) (TimeValue, error) { return CycleNth(c.Grain, n) }

// LastOf is the last whole period inside each occurrence of outer.
func (c CycleValue) LastOf(outer TimeValue) (TimeValue, error) {
	if err := checkGrain(c.Grain); err != nil {
		return TimeValue{}, err
	}
	return c.Every().LastOf(outer)
}

// NthOf is whole period n (zero-based) inside each occurrence of outer.
func (c CycleValue) NthOf(n int, outer TimeValue) (TimeValue, error) {
	if err := checkGrain(c.Grain); err != nil {
		return TimeValue{}, err
	}
	return c.Every().NthOf(n, outer)
}
