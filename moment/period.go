package moment

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// PERIOD - Signed calendar quantities
// =============================================================================

// PeriodComp is a signed quantity of one grain: "3 days", "-15 minutes".
type PeriodComp struct {
	Grain    Grain `json:"grain"`
	Quantity int   `json:"quantity"`
}

// Period is a set of components, at most one per grain, ordered coarsest
// first. The zero value is the empty period.
type Period struct {
	comps []PeriodComp
}

// NewPeriod builds a period from components, merging components that share a grain.
func NewPeriod(comps ...PeriodComp) Period {
	var p Period
	for _, c := range comps {
		p = p.with(c)
	}
	return p
}

func (p Period) with(c PeriodComp) Period {
	out := make([]PeriodComp, 0, len(p.comps)+1)
	merged := false
	for _, existing := range p.comps {
		if existing.Grain == c.Grain {
			existing.Quantity += c.Quantity
			merged = true
		}
		out = append(out, existing)
	}
	if !merged {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Grain > out[j].Grain })
	return Period{comps: out}
}

// Add merges two periods component-wise.
func (p Period) Add(other Period) Period {
	out := p
	for _, c := range other.comps {
		out = out.with(c)
	}
	return out
}

// Neg flips the sign of every component.
func (p Period) Neg() Period {
	out := make([]PeriodComp, len(p.comps))
	for i, c := range p.comps {
		out[i] = PeriodComp{Grain: c.Grain, Quantity: -c.Quantity}
	}
	return Period{comps: out}
}

// Comps returns a copy of the components, coarsest first.
func (p Period) Comps() []PeriodComp {
	out := make([]PeriodComp, len(p.comps))
	copy(out, p.comps)
	return out
}

// Quantity returns the quantity stored for g.
func (p Period) Quantity(g Grain) int {
	for _, c := range p.comps {
		if c.Grain == g {
			return c.Quantity
		}
	}
	return 0
}

func (p Period) IsEmpty() bool { return len(p.comps) == 0 }

// FinestGrain returns the smallest grain present. ok is false for an empty period.
func (p Period) FinestGrain() (g Grain, ok bool) {
	if len(p.comps) == 0 {
		return 0, false
	}
	return p.comps[len(p.comps)-1].Grain, true
}

// AddTo applies the period to t, coarsest component first.
func (p Period) AddTo(t time.Time) time.Time {
	for _, c := range p.comps {
		t = c.Grain.Add(t, c.Quantity)
	}
	return t
}

// ApproxSeconds returns the period length using average month and year lengths.
// Only used for ordering and reporting, never for calendar arithmetic.
func (p Period) ApproxSeconds() int64 {
	var total int64
	for _, c := range p.comps {
		total += int64(c.Quantity) * grainSeconds[c.Grain]
	}
	return total
}

var grainSeconds = [...]int64{
	Second:  1,
	Minute:  60,
	Hour:    3600,
	Day:     86400,
	Week:    7 * 86400,
	Month:   2629746,
	Quarter: 3 * 2629746,
	Year:    31556952,
}

func (p Period) String() string {
	if len(p.comps) == 0 {
		return "0"
	}
	parts := make([]string, len(p.comps))
	for i, c := range p.comps {
		parts[i] = strconv.Itoa(c.Quantity) + " " + c.Grain.String()
	}
	return strings.Join(parts, " ")
}
