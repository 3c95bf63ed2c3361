package values

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// maxLiteralDigits is the widest digit run ParseInteger accepts.
const maxLiteralDigits = 18

// =============================================================================
// COMPOSITION
// =============================================================================

// ComposeNumbers combines two adjacent numbers, highest magnitude first.
//
//	additive:       a declares magnitude m, b < 10^m and b is finer than m
//	                "21000 (m3)" + "311" = 21311
//	multiplicative: b is a pure magnitude word 10^m and a is finer than m
//	                "21" × "1000 (m3)" = 21000 (m3)
//
// Anything else is ambiguous.
func ComposeNumbers(a, b Number) (Number, error) {
	if ai, ok := a.(Integer); ok && ai.Grain != NoMagnitude {
		limit := decimal.NewFromInt(pow10(ai.Grain))
		if b.Decimal().Abs().LessThan(limit) && magnitudeOf(b) < ai.Grain {
			return addNumbers(ai, b), nil
		}
	}
	if bi, ok := b.(Integer); ok && bi.Grain != NoMagnitude && bi.Value == pow10(bi.Grain) {
		if magnitudeOf(a) < bi.Grain && a.Decimal().IsPositive() {
			return multiplyByMagnitude(a, bi)
		}
	}
	return nil, fmt.Errorf("compose %s and %s: %w", a, b, ErrAmbiguousComposition)
}

func addNumbers(a Integer, b Number) Number {
	switch bv := b.(type) {
	case Integer:
		return Integer{Value: a.Value + bv.Value, Grain: bv.Grain, Notes: Notes{Precision: joinPrecision(a.Notes, bv.Notes)}}
	case Float:
		return Float{Value: a.Decimal().Add(bv.Value), Notes: Notes{Precision: joinPrecision(a.Notes, bv.Notes)}}
	default:
		return a
	}
}

func multiplyByMagnitude(a Number, b Integer) (Number, error) {
	switch av := a.(type) {
	case Integer:
		if av.Value > math.MaxInt64/b.Value {
			return nil, fmt.Errorf("%d × %d: %w", av.Value, b.Value, ErrParseOverflow)
		}
		return Integer{Value: av.Value * b.Value, Grain: b.Grain, Notes: Notes{Precision: joinPrecision(av.Notes, b.Notes)}}, nil
	case Float:
		return scaledFloat(av.Value.Mul(b.Decimal()), Notes{Precision: joinPrecision(av.Notes, b.Notes)}), nil
	default:
		return nil, fmt.Errorf("compose %s and %s: %w", a, b, ErrAmbiguousComposition)
	}
}

func joinPrecision(a, b Notes) Precision {
	if a.Precision == Approximate || b.Precision == Approximate {
		return Approximate
	}
	return Exact
}

// TensAndUnits composes "einundzwanzig": units 1–9 added to a multiple of ten.
func TensAndUnits(units, tens Integer) (Integer, error) {
	if err := checkRange("units", units.Value, 1, 9); err != nil {
		return Integer{}, err
	}
	if tens.Value%10 != 0 {
		return Integer{}, &RangeError{Field: "tens", Value: tens.Value, Min: 20, Max: 90}
	}
	if err := checkRange("tens", tens.Value, 20, 90); err != nil {
		return Integer{}, err
	}
	return NewInteger(tens.Value + units.Value), nil
}

// Hundreds returns a × 100 for a in 1–99, declaring magnitude 2.
func Hundreds(a Integer) (Integer, error) { return multiplyChecked("hundreds", a, 99, 2) }

// Thousands returns a × 1000 for a in 1–999, declaring magnitude 3.
func Thousands(a Integer) (Integer, error) { return multiplyChecked("thousands", a, 999, 3) }

// Millions returns a × 10^6 for a in 1–99, declaring magnitude 6.
func Millions(a Integer) (Integer, error) { return multiplyChecked("millions", a, 99, 6) }

func multiplyChecked(field string, a Integer, max int64, m Magnitude) (Integer, error) {
	if err := checkRange(field, a.Value, 1, max); err != nil {
		return Integer{}, err
	}
	return Integer{Value: a.Value * pow10(m), Grain: m, Notes: Notes{Precision: a.Notes.Precision}}, nil
}

// =============================================================================
// SIGN AND SUFFIX
// =============================================================================

// Negate applies a leading minus. A number can be negated once.
func Negate(n Number) (Number, error) {
	if n.notes().Prefixed {
		return nil, fmt.Errorf("negate %s: %w", n, ErrAlreadyFlagged)
	}
	switch v := n.(type) {
	case Integer:
		v.Value = -v.Value
		v.Notes.Prefixed = true
		return v, nil
	case Float:
		v.Value = v.Value.Neg()
		v.Notes.Prefixed = true
		return v, nil
	default:
		return nil, fmt.Errorf("negate %T: %w", n, ErrNotResolvable)
	}
}

// Suffix is a closed set of magnitude suffixes.
type Suffix int

const (
	Kilo Suffix = iota + 1
	Mega
	Giga
)

// ParseSuffix recognises k, m and g in either case.
func ParseSuffix(s string) (Suffix, error) {
	switch strings.ToLower(s) {
	case "k":
		return Kilo, nil
	case "m":
		return Mega, nil
	case "g":
		return Giga, nil
	default:
		return 0, fmt.Errorf("suffix %q: %w", s, ErrOutOfRange)
	}
}

func (s Suffix) multiplier() (int64, bool) {
	switch s {
	case Kilo:
		return 1_000, true
	case Mega:
		return 1_000_000, true
	case Giga:
		return 1_000_000_000, true
	default:
		return 0, false
	}
}

func (s Suffix) String() string {
	switch s {
	case Kilo:
		return "k"
	case Mega:
		return "m"
	case Giga:
		return "g"
	default:
		return fmt.Sprintf("suffix(%d)", int(s))
	}
}

// ScaleBySuffix multiplies n by its k/m/g suffix. A float whose product is
// integral becomes an Integer. A number can be scaled once.
func ScaleBySuffix(n Number, s Suffix) (Number, error) {
	mul, ok := s.multiplier()
	if !ok {
		return nil, &RangeError{Field: "suffix", Value: int64(s), Min: int64(Kilo), Max: int64(Giga)}
	}
	if n.notes().Suffixed {
		return nil, fmt.Errorf("scale %s by %s: %w", n, s, ErrAlreadyFlagged)
	}
	notes := n.notes()
	notes.Suffixed = true
	switch v := n.(type) {
	case Integer:
		if v.Value > math.MaxInt64/mul || v.Value < math.MinInt64/mul {
			return nil, fmt.Errorf("%d%s: %w", v.Value, s, ErrParseOverflow)
		}
		v.Value *= mul
		v.Notes = notes
		return v, nil
	case Float:
		return scaledFloat(v.Value.Mul(decimal.NewFromInt(mul)), notes), nil
	default:
		return nil, fmt.Errorf("scale %T: %w", n, ErrNotResolvable)
	}
}

// scaledFloat demotes an integral product to an Integer.
func scaledFloat(d decimal.Decimal, notes Notes) Number {
	if d.IsInteger() {
		if i := d.IntPart(); decimal.NewFromInt(i).Equal(d) {
			return Integer{Value: i, Notes: notes}
		}
	}
	return Float{Value: d, Notes: notes}
}

// =============================================================================
// DECIMALS AND GROUPED LITERALS
// =============================================================================

// DecimalCompose joins a word-level decimal separator: "3 komma 5" = 3.5.
// The fractional operand contributes b × 0.1.
func DecimalCompose(a, b Number) (Float, error) {
	if a.notes().Prefixed || a.notes().Suffixed || b.notes().Prefixed || b.notes().Suffixed {
		return Float{}, fmt.Errorf("decimal %s komma %s: %w", a, b, ErrAlreadyFlagged)
	}
	tenth := decimal.New(1, -1)
	return Float{Value: a.Decimal().Add(b.Decimal().Mul(tenth)), Notes: Notes{Precision: joinPrecision(a.notes(), b.notes())}}, nil
}

// ParseInteger parses a run of ASCII digits.
func ParseInteger(digits string) (Integer, error) {
	if digits == "" {
		return Integer{}, fmt.Errorf("empty literal: %w", ErrOutOfRange)
	}
	if len(strings.TrimLeft(digits, "0")) > maxLiteralDigits {
		return Integer{}, fmt.Errorf("literal %q exceeds %d digits: %w", digits, maxLiteralDigits, ErrParseOverflow)
	}
	var v int64
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Integer{}, fmt.Errorf("literal %q: %w", digits, ErrOutOfRange)
		}
		v = v*10 + int64(r-'0')
	}
	return NewInteger(v), nil
}

// ParseGroupedInteger parses "1.200.000" by concatenating the digit groups.
// Groups after the first must be exactly three digits.
func ParseGroupedInteger(s string, sep rune) (Integer, error) {
	digits, err := ungroup(s, sep)
	if err != nil {
		return Integer{}, err
	}
	return ParseInteger(digits)
}

// ParseDecimal parses "3,5" or ",77" with the given decimal point.
func ParseDecimal(s string, point rune) (Float, error) {
	whole, frac, ok := strings.Cut(s, string(point))
	if !ok || frac == "" {
		return Float{}, fmt.Errorf("decimal %q: %w", s, ErrOutOfRange)
	}
	if whole == "" {
		whole = "0"
	}
	if len(whole)+len(frac) > maxLiteralDigits {
		return Float{}, fmt.Errorf("decimal %q: %w", s, ErrParseOverflow)
	}
	if !allDigits(whole) || !allDigits(frac) {
		return Float{}, fmt.Errorf("decimal %q: %w", s, ErrOutOfRange)
	}
	d, err := decimal.NewFromString(whole + "." + frac)
	if err != nil {
		return Float{}, fmt.Errorf("decimal %q: %w", s, ErrOutOfRange)
	}
	return NewFloat(d), nil
}

// ParseGroupedDecimal parses "1.416,15" with the given group separator and
// decimal point.
func ParseGroupedDecimal(s string, group, point rune) (Float, error) {
	whole, frac, ok := strings.Cut(s, string(point))
	if !ok {
		return Float{}, fmt.Errorf("decimal %q: %w", s, ErrOutOfRange)
	}
	digits, err := ungroup(whole, group)
	if err != nil {
		return Float{}, err
	}
	return ParseDecimal(digits+string(point)+frac, point)
}

func ungroup(s string, sep rune) (string, error) {
	parts := strings.Split(s, string(sep))
	if len(parts[0]) < 1 || len(parts[0]) > 3 {
		return "", fmt.Errorf("grouped literal %q: %w", s, ErrOutOfRange)
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return "", fmt.Errorf("grouped literal %q: %w", s, ErrOutOfRange)
		}
	}
	return strings.Join(parts, ""), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// =============================================================================
// QUANTIFIERS
// =============================================================================

// Couple is "ein paar": 2.
func Couple() Integer { return NewInteger(2) }

// Few is "wenige": approximately 3.
func Few() Integer {
	return Integer{Value: 3, Grain: 1, Notes: Notes{Precision: Approximate}}
}

// Dozen is "dutzend": 12, marked as a group.
func Dozen() Integer {
	return Integer{Value: 12, Grain: 1, Notes: Notes{Group: true}}
}

// Dozens multiplies a by a group word such as Dozen: "3 dutzend" = 36.
func Dozens(a, group Integer) (Integer, error) {
	if !group.Notes.Group || group.Value < 1 {
		return Integer{}, fmt.Errorf("%s is not a group word: %w", group, ErrAmbiguousComposition)
	}
	if a.Value < 1 || a.Value > math.MaxInt64/group.Value {
		return Integer{}, &RangeError{Field: "group count", Value: a.Value, Min: 1, Max: math.MaxInt64 / group.Value}
	}
	return Integer{Value: a.Value * group.Value, Grain: 1, Notes: Notes{Precision: a.Notes.Precision}}, nil
}
