package numeral_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/value-algebra/numeral"
	"github.com/warp/value-algebra/values"
)

func TestCardinal(t *testing.T) {
	tests := []struct {
		word  string
		value int64
		grain values.Magnitude
	}{
		{"null", 0, 0},
		{"keine", 0, 0},
		{"eins", 1, 0},
		{"Zwölf", 12, 0},
		{"funfzehn", 15, 0},
		{"zehn", 10, 1},
		{"dreissig", 30, 1},
		{"einundzwanzig", 21, 0},
		{"neunundneunzig", 99, 0},
		{"hundert", 100, 2},
		{"tausend", 1000, 3},
		{"millionen", 1_000_000, 6},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, err := numeral.Cardinal(tt.word)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got.Value)
			assert.Equal(t, tt.grain, got.Grain)
		})
	}
}

func TestCardinal_UnknownWords(t *testing.T) {
	for _, word := range []string{"", "elfundzwanzig", "einundzehn", "zwanzigund", "bazillion"} {
		_, err := numeral.Cardinal(word)
		assert.ErrorIs(t, err, numeral.ErrUnknownWord, word)
	}
}

func TestCardinal_ComposesWithMagnitudes(t *testing.T) {
	// GIVEN: "einundzwanzig tausend dreihundertelf" as matched words
	twentyOne, err := numeral.Cardinal("einundzwanzig")
	require.NoError(t, err)
	thousand, err := numeral.Cardinal("tausend")
	require.NoError(t, err)

	// WHEN: composing with the algebra
	got, err := values.ComposeNumbers(twentyOne, thousand)
	require.NoError(t, err)
	got, err = values.ComposeNumbers(got, values.NewInteger(311))
	require.NoError(t, err)

	// THEN: the words add up to 21311
	assert.Equal(t, values.NewInteger(21311), got)
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		word string
		want int64
	}{
		{"erste", 1},
		{"ersten", 1},
		{"dritter", 3},
		{"zwölfte", 12},
		{"zwanzigste", 20},
		{"vierundvierzigste", 44},
		{"einunddreissigsten", 31},
		{"3.", 3},
		{"007.", 7},
		{"21ste", 21},
		{"4te", 4},
		{"5 ten", 5},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, err := numeral.Ordinal(tt.word)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestOrdinal_Rejects(t *testing.T) {
	_, err := numeral.Ordinal("hundertste")
	assert.ErrorIs(t, err, numeral.ErrUnknownWord)

	_, err = numeral.Ordinal("0.")
	assert.ErrorIs(t, err, values.ErrOutOfRange)
}

func TestQuantifier(t *testing.T) {
	few, err := numeral.Quantifier("mehrere")
	require.NoError(t, err)
	assert.Equal(t, values.Approximate, few.Notes.Precision)

	dozen, err := numeral.Quantifier("Dutzend")
	require.NoError(t, err)
	assert.True(t, dozen.Notes.Group)

	_, err = numeral.Quantifier("viele")
	assert.ErrorIs(t, err, numeral.ErrUnknownWord)
}
