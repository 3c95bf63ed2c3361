/*
Package numeral maps German numeral words to algebra values.

PURPOSE:
  The tables below are the closed set of words the caller's matcher can
  hand over for a cardinal, an ordinal or a quantifier. Anything outside
  them is ErrUnknownWord, never a panic.

CARDINALS:
  null..neunzehn          0..19, no magnitude
  zehn, zwanzig..neunzig  magnitude 1
  <einer>und<zehner>      21..99 ("einundzwanzig")
  hundert, tausend, ...   powers of ten with their magnitude

ORDINALS:
  erste..neunzehnte, zwanzigste..neunzigste, <einer>und<zehner>ste.
  Declension endings (-r, -s, -n, -m) are dropped before lookup.
  Digit ordinals: "3.", "3te", "21ste", leading zeros allowed.

SEE ALSO:
  - values/numcompose.go: composing the returned values
*/
package numeral

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warp/value-algebra/values"
)

// ErrUnknownWord is returned for a word outside the closed tables.
var ErrUnknownWord = errors.New("unknown numeral word")

var units = map[string]int64{
	"kein": 0, "keine": 0, "keins": 0, "keines": 0, "keiner": 0, "keinen": 0,
	"null": 0, "nichts": 0,
	"ein": 1, "eins": 1, "eine": 1, "einer": 1,
	"zwei":     2,
	"drei":     3,
	"vier":     4,
	"fünf":     5,
	"funf":     5,
	"sechs":    6,
	"sieben":   7,
	"acht":     8,
	"neun":     9,
	"elf":      11,
	"zwölf":    12,
	"zwolf":    12,
	"dreizehn": 13,
	"vierzehn": 14,
	"fünfzehn": 15,
	"funfzehn": 15,
	"sechzehn": 16,
	"siebzehn": 17,
	"achtzehn": 18,
	"neunzehn": 19,
}

// compoundDigits are the unit words allowed before "und" in 21..99.
var compoundDigits = map[string]int64{
	"ein": 1, "zwei": 2, "drei": 3, "vier": 4, "fünf": 5, "funf": 5,
	"sechs": 6, "sieben": 7, "acht": 8, "neun": 9,
}

var tens = map[string]int64{
	"zehn":     10,
	"zwanzig":  20,
	"dreissig": 30,
	"dreißig":  30,
	"vierzig":  40,
	"fünfzig":  50,
	"funfzig":  50,
	"sechzig":  60,
	"siebzig":  70,
	"achtzig":  80,
	"neunzig":  90,
}

var magnitudes = map[string]values.Magnitude{
	"hundert":    2,
	"hunderte":   2,
	"tausend":    3,
	"tausende":   3,
	"million":    6,
	"millionen":  6,
	"milliarde":  9,
	"milliarden": 9,
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Cardinal returns the integer a cardinal word denotes.
func Cardinal(word string) (values.Integer, error) {
	w := normalize(word)
	if v, ok := units[w]; ok {
		return values.NewInteger(v), nil
	}
	if v, ok := tens[w]; ok {
		return values.NewIntegerWithGrain(v, 1), nil
	}
	if m, ok := magnitudes[w]; ok {
		return values.NewIntegerWithGrain(pow10(m), m), nil
	}
	if unit, ten, ok := strings.Cut(w, "und"); ok {
		u, uok := compoundDigits[unit]
		t, tok := tens[ten]
		if uok && tok && t >= 20 {
			return values.TensAndUnits(values.NewInteger(u), values.NewIntegerWithGrain(t, 1))
		}
	}
	return values.Integer{}, fmt.Errorf("cardinal %q: %w", word, ErrUnknownWord)
}

func pow10(m values.Magnitude) int64 {
	v := int64(1)
	for range m {
		v *= 10
	}
	return v
}

// Quantifier returns the value of an indefinite amount word.
func Quantifier(word string) (values.Integer, error) {
	switch normalize(word) {
	case "paar", "ein paar":
		return values.Couple(), nil
	case "mehrere":
		return values.Few(), nil
	case "dutzend":
		return values.Dozen(), nil
	default:
		return values.Integer{}, fmt.Errorf("quantifier %q: %w", word, ErrUnknownWord)
	}
}
