package numeral

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/warp/value-algebra/values"
)

var ordinalUnits = map[string]int64{
	"erste":      1,
	"zweite":     2,
	"dritte":     3,
	"vierte":     4,
	"fünfte":     5,
	"funfte":     5,
	"sechste":    6,
	"siebte":     7,
	"siebente":   7,
	"achte":      8,
	"neunte":     9,
	"zehnte":     10,
	"elfte":      11,
	"zwölfte":    12,
	"zwolfte":    12,
	"dreizehnte": 13,
	"vierzehnte": 14,
	"fünfzehnte": 15,
	"funfzehnte": 15,
	"sechzehnte": 16,
	"siebzehnte": 17,
	"achtzehnte": 18,
	"neunzehnte": 19,
}

var ordinalTens = map[string]int64{
	"zwanzigste":  20,
	"dreissigste": 30,
	"dreißigste":  30,
	"vierzigste":  40,
	"fünfzigste":  50,
	"funfzigste":  50,
	"sechzigste":  60,
	"siebzigste":  70,
	"achtzigste":  80,
	"neunzigste":  90,
}

// digitOrdinal matches "3.", "3te", "3 ten", "21ste", "007.".
var digitOrdinal = regexp.MustCompile(`^0*(\d+)(?:\.| ?te[nrs]?|ste[nrs]?)$`)

// Ordinal returns the position an ordinal word or digit ordinal denotes.
func Ordinal(word string) (values.Ordinal, error) {
	w := normalize(word)
	if m := digitOrdinal.FindStringSubmatch(w); m != nil {
		n, err := values.ParseInteger(m[1])
		if err != nil {
			return values.Ordinal{}, err
		}
		return values.NewOrdinal(n.Value)
	}
	if v, ok := lookupOrdinal(w); ok {
		return values.NewOrdinal(v)
	}
	// declined forms: "ersten", "dritter", "zweites", "viertem"
	if stem, ok := undecline(w); ok {
		if v, ok := lookupOrdinal(stem); ok {
			return values.NewOrdinal(v)
		}
	}
	return values.Ordinal{}, fmt.Errorf("ordinal %q: %w", word, ErrUnknownWord)
}

func lookupOrdinal(w string) (int64, bool) {
	if v, ok := ordinalUnits[w]; ok {
		return v, true
	}
	if v, ok := ordinalTens[w]; ok {
		return v, true
	}
	if unit, ten, ok := strings.Cut(w, "und"); ok {
		u, uok := compoundDigits[unit]
		t, tok := ordinalTens[ten]
		if uok && tok {
			return t + u, true
		}
	}
	return 0, false
}

func undecline(w string) (string, bool) {
	for _, ending := range []string{"r", "s", "n", "m"} {
		if stem, ok := strings.CutSuffix(w, ending); ok && strings.HasSuffix(stem, "e") {
			return stem, true
		}
	}
	return "", false
}
