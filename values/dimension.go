package values

import "fmt"

// Kind tags the dimension a value belongs to.
type Kind int

const (
	KindTime Kind = iota + 1
	KindDuration
	KindNumber
	KindOrdinal
	// Operand-only kinds; never surfaced as a final result.
	KindCycle
	KindUnitOfDuration
	KindRelativeMinute
)

var kindNames = map[Kind]string{
	KindTime:           "time",
	KindDuration:       "duration",
	KindNumber:         "number",
	KindOrdinal:        "ordinal",
	KindCycle:          "cycle",
	KindUnitOfDuration: "unit-of-duration",
	KindRelativeMinute: "relative-minute",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", b)
}

// Surfaceable reports whether values of this kind can be a final result.
func (k Kind) Surfaceable() bool {
	switch k {
	case KindTime, KindDuration, KindNumber, KindOrdinal:
		return true
	default:
		return false
	}
}

// Dimension is any value produced by the algebra: TimeValue, Duration,
// Integer, Float, Ordinal, CycleValue, UnitOfDuration, RelativeMinute.
type Dimension interface {
	Kind() Kind
	String() string
}

var (
	_ Dimension = TimeValue{}
	_ Dimension = Duration{}
	_ Number    = Integer{}
	_ Number    = Float{}
	_ Dimension = Ordinal{}
	_ Dimension = CycleValue{}
	_ Dimension = UnitOfDuration{}
	_ Dimension = RelativeMinute(0)
)
