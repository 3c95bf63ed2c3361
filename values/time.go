/*
time.go - Time values

PURPOSE:
  A TimeValue is a calendar constraint plus the metadata the algebra
  needs to decide how it may be combined:

    Form   what kind of calendar fact it states (weekday, month, ...)
    Marks  latent flag, precision, open-ended direction

  The constraint is resolved against a reference only when the value is
  surfaced (resolve.Resolver). Until then every operation is pure and
  returns a new value.

LIFECYCLE:
  Latent ──NotLatent()──► Resolved

  A latent value is a candidate ("3" might be 3 o'clock). Only resolved
  values leave the algebra; resolve rejects latent ones with ErrLatent.

SEE ALSO:
  - calendar.go: constructors
  - temporal.go: combinators
  - moment/: the constraint engine
*/
package values

import (
	"fmt"
	"strings"

	"github.com/warp/value-algebra/moment"
)

// TimeValue is an immutable time expression.
type TimeValue struct {
	c     moment.Constraint
	form  Form
	marks Marks
}

func newTime(c moment.Constraint, f Form) TimeValue {
	return TimeValue{c: c, form: f}
}

// FromConstraint wraps an engine constraint with no form and no marks.
func FromConstraint(c moment.Constraint) TimeValue { return newTime(c, NoForm()) }

func (t TimeValue) Kind() Kind { return KindTime }

// Constraint returns the calendar constraint the value resolves through.
func (t TimeValue) Constraint() moment.Constraint { return t.c }

func (t TimeValue) Form() Form           { return t.form }
func (t TimeValue) Marks() Marks         { return t.marks }
func (t TimeValue) IsLatent() bool       { return t.marks.Latent }
func (t TimeValue) Precision() Precision { return t.marks.Precision }
func (t TimeValue) Direction() Direction { return t.marks.Direction }

// Grain is the grain of the occurrences. The zero TimeValue reports Second.
func (t TimeValue) Grain() moment.Grain {
	if t.c == nil {
		return moment.Second
	}
	return t.c.Grain()
}

// Latent marks t as a candidate that must be confirmed before surfacing.
func (t TimeValue) Latent() TimeValue {
	t.marks.Latent = true
	return t
}

// NotLatent confirms t.
func (t TimeValue) NotLatent() TimeValue {
	t.marks.Latent = false
	return t
}

// WithForm replaces the form.
func (t TimeValue) WithForm(f Form) TimeValue {
	t.form = f
	return t
}

// WithPrecision returns a copy tagged with p.
func (t TimeValue) WithPrecision(p Precision) TimeValue {
	t.marks.Precision = p
	return t
}

// WithDirection returns a copy marked as an open-ended bound.
func (t TimeValue) WithDirection(d Direction) TimeValue {
	t.marks.Direction = d
	return t
}

func (t TimeValue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "time[%s grain=%s", t.form, t.Grain())
	if t.marks.Latent {
		b.WriteString(" latent")
	}
	if t.marks.Precision != Exact {
		fmt.Fprintf(&b, " %s", t.marks.Precision)
	}
	if t.marks.Direction != NoDirection {
		fmt.Fprintf(&b, " %s", t.marks.Direction)
	}
	b.WriteString("]")
	return b.String()
}

// joinMarks is the metadata of a combination: not latent, approximate if
// either side is, no direction.
func joinMarks(a, b Marks) Marks {
	m := Marks{Precision: Exact}
	if a.Precision == Approximate || b.Precision == Approximate {
		m.Precision = Approximate
	}
	return m
}
