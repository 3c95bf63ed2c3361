package moment

import (
	"iter"
	"slices"
)

// =============================================================================
// INTERSECTION
// =============================================================================

type intersection struct{ a, b Constraint }

// Intersect matches the overlaps of a and b. The operand that drives the
// search is the fixed one, else the one repeating less often; a wins ties.
func Intersect(a, b Constraint) Constraint { return intersection{a: a, b: b} }

func (c intersection) Grain() Grain { return FinestOf(c.a.Grain(), c.b.Grain()) }

func (c intersection) Step() (Grain, bool) {
	as, ar := c.a.Step()
	bs, br := c.b.Step()
	if !ar || !br {
		return c.Grain(), false
	}
	return CoarsestOf(as, bs), true
}

func (c intersection) split() (outer, inner Constraint) {
	as, ar := c.a.Step()
	bs, br := c.b.Step()
	switch {
	case !ar:
		return c.a, c.b
	case !br:
		return c.b, c.a
	case bs > as:
		return c.b, c.a
	default:
		return c.a, c.b
	}
}

func (c intersection) Walk(origin Interval, ctx Context) Walker {
	outer, inner := c.split()
	if _, repeating := inner.Step(); !repeating {
		return c.walkFixed(origin, ctx, outer, inner)
	}

	horizon := ctx.horizon()
	limit := Year.Add(origin.Start, horizon)
	floor := Year.Add(origin.Start, -horizon)

	overlaps := func(o Interval) []Interval {
		var out []Interval
		for iv := range within(inner.Walk(o, ctx).Forward, o) {
			if x, ok := o.Intersect(iv); ok {
				out = append(out, x)
			}
		}
		return out
	}

	outerWalk := outer.Walk(origin, ctx)
	results := func(yield func(Interval) bool) {
		for o := range outerWalk.Forward {
			if o.Start.After(limit) {
				return
			}
			for _, x := range overlaps(o) {
				if !yield(x) {
					return
				}
			}
		}
	}
	isForward := func(iv Interval) bool { return iv.EndMoment().After(origin.Start) }

	forward := func(yield func(Interval) bool) {
		for x := range results {
			if isForward(x) && !yield(x) {
				return
			}
		}
	}
	backward := func(yield func(Interval) bool) {
		// The outer occurrence covering the origin may hold earlier matches.
		var spill []Interval
		for x := range results {
			if isForward(x) {
				break
			}
			spill = append(spill, x)
		}
		slices.Reverse(spill)
		for _, x := range spill {
			if !yield(x) {
				return
			}
		}
		for o := range outerWalk.Backward {
			if o.EndMoment().Before(floor) {
				return
			}
			xs := overlaps(o)
			for i := len(xs) - 1; i >= 0; i-- {
				if !yield(xs[i]) {
					return
				}
			}
		}
	}
	return Walker{Forward: forward, Backward: backward}
}

// walkFixed intersects two finite occurrence sets pairwise.
func (c intersection) walkFixed(origin Interval, ctx Context, outer, inner Constraint) Walker {
	collect := func(w Walker) []Interval {
		return append(slices.Collect(w.Backward), slices.Collect(w.Forward)...)
	}
	// outer may still repeat here only if inner is the fixed one; bound it.
	outers := collect(boundedWalk(outer, origin, ctx))
	inners := collect(inner.Walk(origin, ctx))
	var out []Interval
	for _, o := range outers {
		for _, i := range inners {
			if x, ok := o.Intersect(i); ok {
				out = append(out, x)
			}
		}
	}
	return Fixed(origin, out...)
}

// boundedWalk cuts a walk at the context horizon in both directions.
func boundedWalk(c Constraint, origin Interval, ctx Context) Walker {
	w := c.Walk(origin, ctx)
	if _, repeating := c.Step(); !repeating {
		return w
	}
	limit := Year.Add(origin.Start, ctx.horizon())
	floor := Year.Add(origin.Start, -ctx.horizon())
	return Walker{
		Forward: func(yield func(Interval) bool) {
			for iv := range w.Forward {
				if iv.Start.After(limit) || !yield(iv) {
					return
				}
			}
		},
		Backward: func(yield func(Interval) bool) {
			for iv := range w.Backward {
				if iv.EndMoment().Before(floor) || !yield(iv) {
					return
				}
			}
		},
	}
}

// =============================================================================
// SPAN
// =============================================================================

type span struct {
	from, to  Constraint
	inclusive bool
}

// Span matches, for every occurrence of from, the range up to the first
// occurrence of to starting at or after it. The range ends where to starts,
// or where it ends when inclusive.
func Span(from, to Constraint, inclusive bool) Constraint {
	return span{from: from, to: to, inclusive: inclusive}
}

func (s span) Grain() Grain        { return FinestOf(s.from.Grain(), s.to.Grain()) }
func (s span) Step() (Grain, bool) { return s.from.Step() }

func (s span) Walk(origin Interval, ctx Context) Walker {
	return remap(s.from.Walk(origin, ctx), origin, func(a Interval) (Interval, bool) {
		end, ok := firstStartingFrom(s.to.Walk(a, ctx).Forward, a)
		if !ok {
			return Interval{}, false
		}
		return a.SpanTo(end, s.inclusive)
	})
}

// firstStartingFrom returns the first item of seq starting at or after a.Start.
func firstStartingFrom(seq iter.Seq[Interval], a Interval) (Interval, bool) {
	for iv := range filter(seq, func(iv Interval) bool { return !iv.Start.Before(a.Start) }) {
		return iv, true
	}
	return Interval{}, false
}

// =============================================================================
// TRANSLATE
// =============================================================================

type translate struct {
	src   Constraint
	by    Period
	grain Grain
}

// Translate truncates every occurrence of src to grain and shifts it by p.
func Translate(src Constraint, p Period, grain Grain) Constraint {
	return translate{src: src, by: p, grain: grain}
}

func (t translate) Grain() Grain        { return t.grain }
func (t translate) Step() (Grain, bool) { return t.src.Step() }

func (t translate) Walk(origin Interval, ctx Context) Walker {
	return remap(t.src.Walk(origin, ctx), origin, func(iv Interval) (Interval, bool) {
		return StartingAt(t.by.AddTo(t.grain.Truncate(iv.Start)), t.grain), true
	})
}

// =============================================================================
// NTH OCCURRENCE
// =============================================================================

type takeNth struct {
	inner        Constraint
	n            int
	notImmediate bool
}

// TakeNth picks occurrence n of inner counted from the reference: 0 is the
// first occurrence ending after it, -1 the last one ending before it. With
// notImmediate, a first occurrence covering the reference is skipped.
func TakeNth(inner Constraint, n int, notImmediate bool) Constraint {
	return takeNth{inner: inner, n: n, notImmediate: notImmediate}
}

func (t takeNth) Grain() Grain        { return t.inner.Grain() }
func (t takeNth) Step() (Grain, bool) { return t.inner.Grain(), false }

func (t takeNth) Walk(origin Interval, ctx Context) Walker {
	ref := ctx.Reference
	w := t.inner.Walk(ref, ctx)
	var (
		iv Interval
		ok bool
	)
	if t.n >= 0 {
		n := t.n
		if t.notImmediate {
			if first, found := First(w.Forward); found && first.Contains(ref.Start) {
				n++
			}
		}
		iv, ok = Nth(w.Forward, n)
	} else {
		iv, ok = Nth(w.Backward, -t.n-1)
	}
	if !ok {
		return Empty()
	}
	return Fixed(origin, iv)
}

// =============================================================================
// CYCLES RELATIVE TO THE REFERENCE
// =============================================================================

type cycleNth struct {
	g Grain
	n int
}

// CycleNth is the g-period containing the reference, shifted by n periods.
func CycleNth(g Grain, n int) Constraint { return cycleNth{g: g, n: n} }

func (c cycleNth) Grain() Grain        { return c.g }
func (c cycleNth) Step() (Grain, bool) { return c.g, false }

func (c cycleNth) Walk(origin Interval, ctx Context) Walker {
	return Fixed(origin, Containing(ctx.Reference.Start, c.g).Shift(c.g, c.n))
}

type cycleN struct {
	g Grain
	n int
}

// CycleN spans the n g-periods after the current one (n > 0) or the -n
// periods before it (n < 0). The current period is never included.
func CycleN(g Grain, n int) Constraint { return cycleN{g: g, n: n} }

func (c cycleN) Grain() Grain        { return c.g }
func (c cycleN) Step() (Grain, bool) { return c.g, false }

func (c cycleN) Walk(origin Interval, ctx Context) Walker {
	if c.n == 0 {
		return Empty()
	}
	base := Containing(ctx.Reference.Start, c.g)
	var start, end Interval
	if c.n > 0 {
		start, end = base.Shift(c.g, 1), base.Shift(c.g, c.n+1)
	} else {
		start, end = base.Shift(c.g, c.n), base
	}
	return Fixed(origin, Between(start.Start, end.Start, c.g))
}

// =============================================================================
// CYCLES RELATIVE TO ANOTHER CONSTRAINT
// =============================================================================

type cycleNthAfter struct {
	g            Grain
	n            int
	anchor       Constraint
	notImmediate bool
}

// CycleNthAfter is, for every occurrence of anchor, the g-period containing
// its start shifted by n.
func CycleNthAfter(g Grain, n int, anchor Constraint) Constraint {
	return cycleNthAfter{g: g, n: n, anchor: anchor}
}

// CycleNthAfterNotImmediate counts from the first g-period starting at or
// after each anchor occurrence: the first week of a month is the first
// week beginning inside it.
func CycleNthAfterNotImmediate(g Grain, n int, anchor Constraint) Constraint {
	return cycleNthAfter{g: g, n: n, anchor: anchor, notImmediate: true}
}

func (c cycleNthAfter) Grain() Grain        { return c.g }
func (c cycleNthAfter) Step() (Grain, bool) { return c.anchor.Step() }

func (c cycleNthAfter) Walk(origin Interval, ctx Context) Walker {
	return remap(c.anchor.Walk(origin, ctx), origin, func(a Interval) (Interval, bool) {
		first := Containing(a.Start, c.g)
		if c.notImmediate && first.Start.Before(a.Start) {
			first = first.Next()
		}
		return first.Shift(c.g, c.n), true
	})
}

// =============================================================================
// OCCURRENCES INSIDE ANOTHER CONSTRAINT
// =============================================================================

type nthOf struct {
	inner, outer Constraint
	n            int
	last         bool
}

// LastOf picks, for every occurrence of outer, the last occurrence of inner
// lying entirely inside it.
func LastOf(inner, outer Constraint) Constraint {
	return nthOf{inner: inner, outer: outer, last: true}
}

// NthOf picks, for every occurrence of outer, occurrence n (zero-based) of
// inner lying entirely inside it.
func NthOf(inner Constraint, n int, outer Constraint) Constraint {
	return nthOf{inner: inner, outer: outer, n: n}
}

func (c nthOf) Grain() Grain        { return c.inner.Grain() }
func (c nthOf) Step() (Grain, bool) { return c.outer.Step() }

func (c nthOf) Walk(origin Interval, ctx Context) Walker {
	return remap(c.outer.Walk(origin, ctx), origin, func(o Interval) (Interval, bool) {
		var (
			found Interval
			ok    bool
			i     int
		)
		for iv := range within(c.inner.Walk(o, ctx).Forward, o) {
			if !o.Covers(iv) {
				continue
			}
			if c.last {
				found, ok = iv, true
				continue
			}
			if i == c.n {
				return iv, true
			}
			i++
		}
		return found, ok
	})
}

type nthAfter struct {
	inner, anchor Constraint
	n             int
}

// NthAfter picks, for every occurrence of anchor, occurrence n of inner
// starting at or after the anchor's end (n >= 0), or occurrence -n-1
// ending at or before the anchor's start (n < 0).
func NthAfter(inner Constraint, n int, anchor Constraint) Constraint {
	return nthAfter{inner: inner, anchor: anchor, n: n}
}

func (c nthAfter) Grain() Grain        { return c.inner.Grain() }
func (c nthAfter) Step() (Grain, bool) { return c.anchor.Step() }

func (c nthAfter) Walk(origin Interval, ctx Context) Walker {
	return remap(c.anchor.Walk(origin, ctx), origin, func(a Interval) (Interval, bool) {
		if c.n < 0 {
			return Nth(c.inner.Walk(a, ctx).Backward, -c.n-1)
		}
		after := StartingAt(a.EndMoment(), Second)
		seq := filter(c.inner.Walk(after, ctx).Forward, func(iv Interval) bool {
			return !iv.Start.Before(after.Start)
		})
		return Nth(seq, c.n)
	})
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve picks the occurrence of c that a bare mention refers to: the first
// one ending after the reference, else the closest one before it. With
// skipCovering, an occurrence covering the reference is passed over.
func Resolve(c Constraint, ctx Context, skipCovering bool) (Interval, bool) {
	w := c.Walk(ctx.Reference, ctx)
	for iv := range w.Forward {
		if skipCovering && iv.Contains(ctx.Reference.Start) {
			continue
		}
		return iv, true
	}
	return First(w.Backward)
}
