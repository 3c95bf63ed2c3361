/*
temporal.go - Combinators over time values

PURPOSE:
  Merge partial time values into more specific ones. Every combinator
  returns a new value or a typed rejection; none of them resolves
  anything. Resolution happens in resolve against a reference.

INTERSECT IS ASYMMETRIC:
  The engine searches through the operand that repeats least often and
  the left operand wins ties, so Intersect(a, b) and Intersect(b, a) may
  pick different occurrences for operands of equal step. Surface word
  order chooses the call order.

RESULT METADATA:
  Combined values are confirmed (not latent), have Form None, carry no
  direction and are Approximate when any operand is.

BOUNDS:
  Occurrence offsets are limited to ±9999 so a walk always terminates
  in calendar range.
*/
package values

import (
	"fmt"

	"github.com/warp/value-algebra/moment"
)

// maxWalk bounds occurrence and cycle offsets.
const maxWalk = 9999

func checkWalk(field string, n int) error {
	return checkRange(field, int64(n), -maxWalk, maxWalk)
}

func checkGrain(g moment.Grain) error {
	if !g.Valid() {
		return &RangeError{Field: "grain", Value: int64(g), Min: int64(moment.Second), Max: int64(moment.Year)}
	}
	return nil
}

// requireConstraint rejects the zero TimeValue.
func requireConstraint(op string, vs ...TimeValue) error {
	for _, v := range vs {
		if v.c == nil {
			return fmt.Errorf("%s on empty time value: %w", op, ErrNoOccurrence)
		}
	}
	return nil
}

func derived(c moment.Constraint, from ...TimeValue) TimeValue {
	m := Marks{}
	for _, v := range from {
		m = joinMarks(m, v.marks)
	}
	return TimeValue{c: c, form: NoForm(), marks: m}
}

// =============================================================================
// INTERSECT / SPAN
// =============================================================================

// Intersect narrows t to the occurrences that also satisfy o: "Tuesday" ∩
// "March" is every Tuesday in March. Two different weekdays, months or
// years cannot be intersected.
func (t TimeValue) Intersect(o TimeValue) (TimeValue, error) {
	if err := requireConstraint("intersect", t, o); err != nil {
		return TimeValue{}, err
	}
	conflict, err := t.form.conflictsWith(o.form)
	if err != nil {
		return TimeValue{}, err
	}
	if conflict {
		return TimeValue{}, &FormConflictError{Op: "intersect", Left: t.form, Right: o.form}
	}
	return derived(moment.Intersect(t.c, o.c), t, o), nil
}

// SpanTo builds [t, o): for every occurrence of t, up to the first
// occurrence of o starting at or after it. With inclusive, or when both
// sides are whole days, the span runs to the end of o.
func (t TimeValue) SpanTo(o TimeValue, inclusive bool) (TimeValue, error) {
	if err := requireConstraint("span", t, o); err != nil {
		return TimeValue{}, err
	}
	mismatch, err := t.form.mismatches(o.form)
	if err != nil {
		return TimeValue{}, err
	}
	if mismatch {
		return TimeValue{}, &FormConflictError{Op: "span", Left: t.form, Right: o.form}
	}
	if t.Grain() == moment.Day && o.Grain() == moment.Day {
		inclusive = true
	}
	return derived(moment.Span(t.c, o.c, inclusive), t, o), nil
}

// =============================================================================
// NTH OCCURRENCE
// =============================================================================

// TheNth is occurrence n of t counted from the reference: 0 is the
// current or next one, -1 the previous one.
func (t TimeValue) TheNth(n int) (TimeValue, error) { return t.theNth(n, false) }

// TheNthNotImmediate is TheNth, except that an occurrence in progress at
// the reference does not count: on a Tuesday "next Tuesday" is in a week.
func (t TimeValue) TheNthNotImmediate(n int) (TimeValue, error) { return t.theNth(n, true) }

func (t TimeValue) theNth(n int, notImmediate bool) (TimeValue, error) {
	if err := requireConstraint("nth", t); err != nil {
		return TimeValue{}, err
	}
	if err := checkWalk("occurrence", n); err != nil {
		return TimeValue{}, err
	}
	return derived(moment.TakeNth(t.c, n, notImmediate), t), nil
}

// TheNthAfter is occurrence n of t after each occurrence of anchor:
// "the third Tuesday after Christmas".
func (t TimeValue) TheNthAfter(n int, anchor TimeValue) (TimeValue, error) {
	if err := requireConstraint("nth after", t, anchor); err != nil {
		return TimeValue{}, err
	}
	if err := checkWalk("occurrence", n); err != nil {
		return TimeValue{}, err
	}
	return derived(moment.NthAfter(t.c, n, anchor.c), t, anchor), nil
}

// LastOf is the last occurrence of t lying entirely inside each
// occurrence of outer: "the last Monday in March".
func (t TimeValue) LastOf(outer TimeValue) (TimeValue, error) {
	if err := requireConstraint("last of", t, outer); err != nil {
		return TimeValue{}, err
	}
	return derived(moment.LastOf(t.c, outer.c), t, outer), nil
}

// NthOf is occurrence n (zero-based) of t lying entirely inside each
// occurrence of outer: "the third Tuesday in September" is NthOf(2, ...).
func (t TimeValue) NthOf(n int, outer TimeValue) (TimeValue, error) {
	if err := requireConstraint("nth of", t, outer); err != nil {
		return TimeValue{}, err
	}
	if err := checkRange("occurrence", int64(n), 0, maxWalk); err != nil {
		return TimeValue{}, err
	}
	return derived(moment.NthOf(t.c, n, outer.c), t, outer), nil
}

// =============================================================================
// CYCLES
// =============================================================================

// CycleNth is the g-period holding the reference shifted by n:
// CycleNth(Week, 0) is this week, CycleNth(Day, 1) tomorrow.
func CycleNth(g moment.Grain, n int) (TimeValue, error) {
	if err := checkGrain(g); err != nil {
		return TimeValue{}, err
	}
	if err := checkWalk("cycle", n); err != nil {
		return TimeValue{}, err
	}
	return derived(moment.CycleNth(g, n)), nil
}

// CycleNthAfter is the g-period holding the start of each occurrence of t,
// shifted by n.
func CycleNthAfter(g moment.Grain, n int, t TimeValue) (TimeValue, error) {
	return cycleAfter(g, n, t, false)
}

// CycleNthAfterNotImmediate counts from the first g-period starting inside
// each occurrence of t: "the first week of October".
func CycleNthAfterNotImmediate(g moment.Grain, n int, t TimeValue) (TimeValue, error) {
	return cycleAfter(g, n, t, true)
}

func cycleAfter(g moment.Grain, n int, t TimeValue, notImmediate bool) (TimeValue, error) {
	if err := requireConstraint("cycle after", t); err != nil {
		return TimeValue{}, err
	}
	if err := checkGrain(g); err != nil {
		return TimeValue{}, err
	}
	if err := checkWalk("cycle", n); err != nil {
		return TimeValue{}, err
	}
	if notImmediate {
		return derived(moment.CycleNthAfterNotImmediate(g, n, t.c), t), nil
	}
	return derived(moment.CycleNthAfter(g, n, t.c), t), nil
}

// CycleNNotImmediate spans n whole g-periods next to the current one,
// excluding it: "the next 3 days" (n=3), "the last 2 weeks" (n=-2).
func CycleNNotImmediate(g moment.Grain, n int) (TimeValue, error) {
	if err := checkGrain(g); err != nil {
		return TimeValue{}, err
	}
	if n == 0 {
		return TimeValue{}, &RangeError{Field: "cycle count", Value: 0, Min: 1, Max: maxWalk}
	}
	if err := checkWalk("cycle count", n); err != nil {
		return TimeValue{}, err
	}
	return derived(moment.CycleN(g, n)), nil
}
