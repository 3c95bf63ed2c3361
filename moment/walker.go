/*
walker.go - Lazy occurrence sequences

PURPOSE:
  A constraint does not resolve to one interval; it describes every
  interval that satisfies it. Walking a constraint from an origin returns
  two lazy sequences:

    Forward   occurrences whose end is after origin.Start, ascending
    Backward  occurrences ending at or before origin.Start, descending

  The occurrence covering the origin is therefore the first forward one.
  Repeating constraints produce infinite sequences; consumers stop pulling
  once they have what they need.

TERMINATION:
  Base generators stop at year 9999. Derived sequences that filter or
  remap give up after missLimit consecutive misses, and intersections
  stop searching a repeating outer operand at the context horizon.

SEE ALSO:
  - constraint.go: base generators built on periodic()
  - compose.go: combinators built on remap() and the helpers below
*/
package moment

import (
	"iter"
	"slices"
	"time"
)

const (
	minYear = 1
	maxYear = 9999

	// missLimit caps consecutive source items that produce nothing.
	missLimit = 1024
)

// Walker holds the two directions of an occurrence sequence.
type Walker struct {
	Forward  iter.Seq[Interval]
	Backward iter.Seq[Interval]
}

func emptySeq(func(Interval) bool) {}

// Empty returns a walker with no occurrences.
func Empty() Walker {
	return Walker{Forward: emptySeq, Backward: emptySeq}
}

// Fixed places a finite set of occurrences relative to origin.
func Fixed(origin Interval, ivs ...Interval) Walker {
	var fwd, bwd []Interval
	for _, iv := range ivs {
		if iv.EndMoment().After(origin.Start) {
			fwd = append(fwd, iv)
		} else {
			bwd = append(bwd, iv)
		}
	}
	sortByStart(fwd)
	sortByStart(bwd)
	slices.Reverse(bwd)
	return Walker{Forward: slices.Values(fwd), Backward: slices.Values(bwd)}
}

func sortByStart(ivs []Interval) {
	slices.SortStableFunc(ivs, func(a, b Interval) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.EndMoment().Compare(b.EndMoment())
	})
}

// periodic walks a constraint with a fixed number of occurrences per period.
// cands returns the occurrences inside the period starting at base, ascending.
func periodic(origin Interval, period Grain, cands func(base time.Time) []Interval) Walker {
	base := period.Truncate(origin.Start)
	forward := func(yield func(Interval) bool) {
		for k := 0; ; k++ {
			start := period.Add(base, k)
			if start.Year() > maxYear {
				return
			}
			for _, iv := range cands(start) {
				if iv.EndMoment().After(origin.Start) && !yield(iv) {
					return
				}
			}
		}
	}
	backward := func(yield func(Interval) bool) {
		for k := 0; ; k-- {
			start := period.Add(base, k)
			if start.Year() < minYear {
				return
			}
			ivs := cands(start)
			for i := len(ivs) - 1; i >= 0; i-- {
				if !ivs[i].EndMoment().After(origin.Start) && !yield(ivs[i]) {
					return
				}
			}
		}
	}
	return Walker{Forward: forward, Backward: backward}
}

// remap applies f to every occurrence of src and re-sorts the results around
// origin. f must be monotone: later inputs never map to earlier outputs.
// Inputs for which f reports false are skipped; consecutive equal outputs
// are collapsed.
func remap(src Walker, origin Interval, f func(Interval) (Interval, bool)) Walker {
	isForward := func(iv Interval) bool { return iv.EndMoment().After(origin.Start) }
	mapped := func(seq iter.Seq[Interval]) iter.Seq[Interval] {
		return func(yield func(Interval) bool) {
			misses := 0
			for iv := range seq {
				out, ok := f(iv)
				if !ok {
					if misses++; misses > missLimit {
						return
					}
					continue
				}
				misses = 0
				if !yield(out) {
					return
				}
			}
		}
	}

	forward := func(yield func(Interval) bool) {
		// Backward inputs that land after the origin come first, in ascending order.
		var spill []Interval
		for out := range mapped(src.Backward) {
			if !isForward(out) {
				break
			}
			spill = append(spill, out)
		}
		slices.Reverse(spill)
		var last *Interval
		emit := func(iv Interval) bool {
			if last != nil && last.Equal(iv) {
				return true
			}
			last = &iv
			return yield(iv)
		}
		for _, iv := range spill {
			if !emit(iv) {
				return
			}
		}
		for out := range filter(mapped(src.Forward), isForward) {
			if !emit(out) {
				return
			}
		}
	}

	backward := func(yield func(Interval) bool) {
		var spill []Interval
		for out := range mapped(src.Forward) {
			if isForward(out) {
				break
			}
			spill = append(spill, out)
		}
		slices.Reverse(spill)
		var last *Interval
		emit := func(iv Interval) bool {
			if last != nil && last.Equal(iv) {
				return true
			}
			last = &iv
			return yield(iv)
		}
		for _, iv := range spill {
			if !emit(iv) {
				return
			}
		}
		notForward := func(iv Interval) bool { return !isForward(iv) }
		for out := range filter(mapped(src.Backward), notForward) {
			if !emit(out) {
				return
			}
		}
	}
	return Walker{Forward: forward, Backward: backward}
}

// filter yields the items of seq matching keep, giving up after missLimit
// consecutive rejections.
func filter(seq iter.Seq[Interval], keep func(Interval) bool) iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		misses := 0
		for iv := range seq {
			if !keep(iv) {
				if misses++; misses > missLimit {
					return
				}
				continue
			}
			misses = 0
			if !yield(iv) {
				return
			}
		}
	}
}

// First returns the first item of seq.
func First(seq iter.Seq[Interval]) (Interval, bool) {
	for iv := range seq {
		return iv, true
	}
	return Interval{}, false
}

// Nth returns the item at zero-based index n of seq.
func Nth(seq iter.Seq[Interval], n int) (Interval, bool) {
	if n < 0 {
		return Interval{}, false
	}
	i := 0
	for iv := range seq {
		if i == n {
			return iv, true
		}
		i++
	}
	return Interval{}, false
}

// Take collects at most n items of seq.
func Take(seq iter.Seq[Interval], n int) []Interval {
	var out []Interval
	if n <= 0 {
		return out
	}
	for iv := range seq {
		out = append(out, iv)
		if len(out) == n {
			break
		}
	}
	return out
}

// within yields the items of seq that start before bound.End.
func within(seq iter.Seq[Interval], bound Interval) iter.Seq[Interval] {
	end := bound.EndMoment()
	return func(yield func(Interval) bool) {
		for iv := range seq {
			if !iv.Start.Before(end) {
				return
			}
			if !yield(iv) {
				return
			}
		}
	}
}
