/*
number.go - Integer, float and ordinal values

PURPOSE:
  The numeric half of the algebra. A Number is either an Integer or a
  Float; both carry a Notes record (group / prefixed / suffixed /
  precision) instead of loose boolean fields.

MAGNITUDE:
  Integers may declare the power of ten they were spelled as:
    "zehn"    10        Magnitude 1
    "hundert" 100       Magnitude 2
    "tausend" 1000      Magnitude 3
    "million" 1000000   Magnitude 6
  NoMagnitude (0) means nothing was declared. Composition (numcompose.go)
  uses the magnitude to choose between adding and multiplying.

FLOATS:
  Float values are decimal.Decimal so "1,2M" scales to exactly 1200000
  and the integral check after scaling is exact.

SEE ALSO:
  - numcompose.go: ComposeNumbers, sign and suffix rules, literal parsing
  - numeral/: closed word tables producing these values
*/
package values

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Magnitude is a declared power of ten.
type Magnitude uint8

// NoMagnitude marks an integer that declared no magnitude.
const NoMagnitude Magnitude = 0

// pow10 returns 10^m as int64. m must be at most 18.
func pow10(m Magnitude) int64 {
	v := int64(1)
	for i := Magnitude(0); i < m; i++ {
		v *= 10
	}
	return v
}

// Number is the closed set {Integer, Float}.
type Number interface {
	Dimension
	Decimal() decimal.Decimal
	Float64() float64
	notes() Notes
}

// NotesOf returns the annotation record of n.
func NotesOf(n Number) Notes { return n.notes() }

// =============================================================================
// INTEGER
// =============================================================================

// Integer is a whole number with an optional declared magnitude.
type Integer struct {
	Value int64
	Grain Magnitude
	Notes Notes
}

// NewInteger returns a plain integer.
func NewInteger(v int64) Integer { return Integer{Value: v} }

// NewIntegerWithGrain returns an integer spelled as a power-of-ten word.
func NewIntegerWithGrain(v int64, g Magnitude) Integer { return Integer{Value: v, Grain: g} }

func (i Integer) Kind() Kind               { return KindNumber }
func (i Integer) Decimal() decimal.Decimal { return decimal.NewFromInt(i.Value) }
func (i Integer) Float64() float64         { return float64(i.Value) }
func (i Integer) notes() Notes             { return i.Notes }
func (i Integer) String() string           { return strconv.FormatInt(i.Value, 10) }
func (i Integer) WithPrecision(p Precision) Integer {
	i.Notes.Precision = p
	return i
}

// Magnitude returns the declared magnitude, or the number of digits minus
// one when none was declared.
func (i Integer) Magnitude() Magnitude {
	if i.Grain != NoMagnitude {
		return i.Grain
	}
	return digitsMagnitude(i.Decimal())
}

// =============================================================================
// FLOAT
// =============================================================================

// Float is a decimal number.
type Float struct {
	Value decimal.Decimal
	Notes Notes
}

// NewFloat wraps a decimal value.
func NewFloat(v decimal.Decimal) Float { return Float{Value: v} }

func (f Float) Kind() Kind               { return KindNumber }
func (f Float) Decimal() decimal.Decimal { return f.Value }
func (f Float) Float64() float64         { return f.Value.InexactFloat64() }
func (f Float) notes() Notes             { return f.Notes }
func (f Float) String() string           { return f.Value.String() }
func (f Float) WithPrecision(p Precision) Float {
	f.Notes.Precision = p
	return f
}

// Magnitude returns the number of integral digits minus one.
func (f Float) Magnitude() Magnitude { return digitsMagnitude(f.Value) }

func digitsMagnitude(d decimal.Decimal) Magnitude {
	abs := d.Abs().Truncate(0)
	if abs.LessThan(decimal.NewFromInt(10)) {
		return 0
	}
	return Magnitude(len(abs.String()) - 1)
}

// magnitudeOf returns the effective magnitude of either variant.
func magnitudeOf(n Number) Magnitude {
	switch v := n.(type) {
	case Integer:
		return v.Magnitude()
	case Float:
		return v.Magnitude()
	default:
		return 0
	}
}

// WithNumberPrecision returns a copy of n tagged with p.
func WithNumberPrecision(n Number, p Precision) Number {
	switch v := n.(type) {
	case Integer:
		return v.WithPrecision(p)
	case Float:
		return v.WithPrecision(p)
	default:
		return n
	}
}

// =============================================================================
// ORDINAL
// =============================================================================

// Ordinal is a 1-based position: "dritte" is Ordinal{3}.
type Ordinal struct {
	Value int64
}

// NewOrdinal validates that v is at least 1.
func NewOrdinal(v int64) (Ordinal, error) {
	if v < 1 {
		return Ordinal{}, &RangeError{Field: "ordinal", Value: v, Min: 1, Max: maxWalk}
	}
	return Ordinal{Value: v}, nil
}

func (o Ordinal) Kind() Kind     { return KindOrdinal }
func (o Ordinal) String() string { return strconv.FormatInt(o.Value, 10) + "." }

// Index returns the zero-based position used by nth combinators.
func (o Ordinal) Index() int { return int(o.Value - 1) }
