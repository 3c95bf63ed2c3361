package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/value-algebra/plan"
	"github.com/warp/value-algebra/values"
)

func build(t *testing.T, src string) (values.Dimension, error) {
	t.Helper()
	n, err := plan.Parse([]byte(src))
	require.NoError(t, err)
	return plan.NewBuilder().Build(n)
}

func TestParse_Rejects(t *testing.T) {
	_, err := plan.Parse([]byte(`{"op": `))
	assert.ErrorIs(t, err, plan.ErrBadNode)

	_, err = plan.Parse([]byte(`{"n": 3}`))
	assert.ErrorIs(t, err, plan.ErrBadNode)
}

func TestBuild_NextTuesday(t *testing.T) {
	// GIVEN: "nächsten Dienstag" as an expression tree
	src := `{"op": "the_nth_not_immediate", "n": 0,
	         "args": [{"op": "day_of_week", "text": "tuesday"}]}`

	// WHEN: building it
	v, err := build(t, src)

	// THEN: the result is a confirmed time value
	require.NoError(t, err)
	tv, ok := v.(values.TimeValue)
	require.True(t, ok)
	assert.False(t, tv.IsLatent())
}

func TestBuild_NumberComposition(t *testing.T) {
	// GIVEN: "einundzwanzig tausend dreihundertelf"
	src := `{"op": "compose", "args": [
	           {"op": "compose", "args": [{"op": "cardinal", "text": "einundzwanzig"},
	                                      {"op": "cardinal", "text": "tausend"}]},
	           {"op": "integer", "n": 311}]}`

	// WHEN: building it
	v, err := build(t, src)

	// THEN: the words add up
	require.NoError(t, err)
	assert.Equal(t, values.NewInteger(21311), v)
}

func TestBuild_Literals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"grouped integer", `{"op": "grouped_integer", "text": "1.000.000"}`, "1000000"},
		{"decimal comma", `{"op": "decimal", "text": "3,5", "point": ","}`, "3.5"},
		{"grouped decimal", `{"op": "grouped_decimal", "text": "1.234,5"}`, "1234.5"},
		{"suffix", `{"op": "suffix", "text": "k", "args": [{"op": "integer", "text": "12"}]}`, "12000"},
		{"dozens", `{"op": "dozens", "args": [{"op": "integer", "n": 3}, {"op": "dozen"}]}`, "36"},
		{"ordinal word", `{"op": "ordinal_word", "text": "dritten"}`, "3."},
		{"decimal hours", `{"op": "decimal_hours", "text": "2.30"}`, "150 minute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := build(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown op", `{"op": "fortnight"}`, plan.ErrUnknownOp},
		{"missing operand", `{"op": "the_nth", "n": 1}`, plan.ErrBadNode},
		{"too few for intersect", `{"op": "intersect", "args": [{"op": "today"}]}`, plan.ErrBadNode},
		{"wrong operand kind", `{"op": "am", "args": [{"op": "integer", "n": 3}]}`, plan.ErrBadNode},
		{"missing grain", `{"op": "cycle_nth", "n": 1}`, plan.ErrBadNode},
		{"bad grain", `{"op": "cycle_nth", "grain": "fortnight"}`, plan.ErrBadNode},
		{"bad separator", `{"op": "grouped_integer", "text": "1.000", "sep": ".."}`, plan.ErrBadNode},
		{"month out of range", `{"op": "month", "month": 13}`, values.ErrOutOfRange},
		{"unknown weekday", `{"op": "day_of_week", "text": "caturday"}`, values.ErrOutOfRange},
		{"conflicting forms", `{"op": "intersect", "args": [
			{"op": "day_of_week", "text": "monday"}, {"op": "day_of_week", "text": "friday"}]}`, values.ErrIncompatibleForms},
		{"ambiguous composition", `{"op": "compose", "args": [{"op": "integer", "n": 5}, {"op": "integer", "n": 7}]}`, values.ErrAmbiguousComposition},
		{"negate twice", `{"op": "negate", "args": [{"op": "negate", "args": [{"op": "integer", "n": 5}]}]}`, values.ErrAlreadyFlagged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(t, tt.src)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_DepthLimit(t *testing.T) {
	n := plan.Node{Op: "today"}
	for range 100 {
		n = plan.Node{Op: "latent", Args: []plan.Node{n}}
	}
	_, err := plan.NewBuilder().Build(n)
	assert.ErrorIs(t, err, plan.ErrBadNode)
}

func TestBuild_PrecisionOnEveryDimension(t *testing.T) {
	for _, src := range []string{
		`{"op": "precision", "text": "approximate", "args": [{"op": "hour", "hour": 3}]}`,
		`{"op": "precision", "text": "approximate", "args": [{"op": "duration", "n": 2, "args": [{"op": "unit", "grain": "hour"}]}]}`,
		`{"op": "precision", "text": "approximate", "args": [{"op": "integer", "n": 20}]}`,
	} {
		v, err := build(t, src)
		require.NoError(t, err, src)
		switch v := v.(type) {
		case values.TimeValue:
			assert.Equal(t, values.Approximate, v.Precision())
		case values.Duration:
			assert.Equal(t, values.Approximate, v.Precision())
		case values.Number:
			assert.Equal(t, values.Approximate, values.NotesOf(v).Precision)
		default:
			t.Fatalf("unexpected %T", v)
		}
	}
}

func TestFingerprint_IgnoresLayout(t *testing.T) {
	a, err := plan.Parse([]byte(`{"op":"hour","hour":3,"clock12":true}`))
	require.NoError(t, err)
	b, err := plan.Parse([]byte(`{ "clock12": true, "op": "hour", "hour": 3 }`))
	require.NoError(t, err)

	fa, err := plan.Fingerprint(a)
	require.NoError(t, err)
	fb, err := plan.Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	c := a
	c.Clock12 = false
	fc, err := plan.Fingerprint(c)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestOps_SortedAndDocumented(t *testing.T) {
	ops := plan.NewBuilder().Ops()
	require.NotEmpty(t, ops)
	for i, op := range ops {
		assert.NotEmpty(t, op.Doc, op.Name)
		if i > 0 {
			assert.Less(t, ops[i-1].Name, op.Name)
		}
	}
}
