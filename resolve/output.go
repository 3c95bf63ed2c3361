package resolve

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/value-algebra/moment"
	"github.com/warp/value-algebra/values"
)

// Output is a surfaced value: its dimension plus exactly one payload.
type Output struct {
	Dimension values.Kind     `json:"dimension"`
	Text      string          `json:"text"`
	Time      *TimeOutput     `json:"time,omitempty"`
	Duration  *DurationOutput `json:"duration,omitempty"`
	Number    *NumberOutput   `json:"number,omitempty"`
	Ordinal   *OrdinalOutput  `json:"ordinal,omitempty"`
}

// TimeOutput is an instant (End nil, one Grain long) or a half-open interval.
type TimeOutput struct {
	Start     time.Time        `json:"start"`
	End       *time.Time       `json:"end,omitempty"`
	Grain     moment.Grain     `json:"grain"`
	Precision values.Precision `json:"precision"`
	Direction values.Direction `json:"direction,omitempty"`
}

type DurationOutput struct {
	Components    []moment.PeriodComp `json:"components"`
	ApproxSeconds int64               `json:"approx_seconds"`
	Precision     values.Precision    `json:"precision"`
}

type NumberOutput struct {
	Value     decimal.Decimal  `json:"value"`
	Integer   bool             `json:"integer"`
	Precision values.Precision `json:"precision"`
}

type OrdinalOutput struct {
	Value int64 `json:"value"`
}

// Surface resolves d against rc. Latent time values, operand-only kinds and
// times without an occurrence inside the horizon are refused.
func Surface(rc Context, horizonYears int, d values.Dimension) (Output, error) {
	switch v := d.(type) {
	case values.TimeValue:
		return surfaceTime(rc, horizonYears, v)
	case values.Duration:
		return Output{
			Dimension: values.KindDuration,
			Text:      v.String(),
			Duration: &DurationOutput{
				Components:    v.Period().Comps(),
				ApproxSeconds: v.Period().ApproxSeconds(),
				Precision:     v.Precision(),
			},
		}, nil
	case values.Integer:
		return numberOutput(v, true), nil
	case values.Float:
		return numberOutput(v, false), nil
	case values.Ordinal:
		return Output{Dimension: values.KindOrdinal, Text: v.String(), Ordinal: &OrdinalOutput{Value: v.Value}}, nil
	case values.CycleValue, values.UnitOfDuration, values.RelativeMinute:
		return Output{}, fmt.Errorf("surface %s: %w", v.Kind(), values.ErrNotResolvable)
	case nil:
		return Output{}, fmt.Errorf("surface nil value: %w", values.ErrNotResolvable)
	default:
		return Output{}, fmt.Errorf("surface %T: %w", v, values.ErrNotResolvable)
	}
}

func surfaceTime(rc Context, horizonYears int, t values.TimeValue) (Output, error) {
	if t.IsLatent() {
		return Output{}, fmt.Errorf("surface %s: %w", t, values.ErrLatent)
	}
	c := t.Constraint()
	if c == nil {
		return Output{}, fmt.Errorf("surface empty time: %w", values.ErrNoOccurrence)
	}
	skip := t.Form().Kind == values.FormDayOfWeek
	iv, ok := moment.Resolve(c, rc.moment(horizonYears), skip)
	if !ok {
		return Output{}, fmt.Errorf("surface %s: %w", t, values.ErrNoOccurrence)
	}
	return Output{
		Dimension: values.KindTime,
		Text:      t.String(),
		Time: &TimeOutput{
			Start:     iv.Start,
			End:       iv.End,
			Grain:     iv.Grain,
			Precision: t.Precision(),
			Direction: t.Direction(),
		},
	}, nil
}

func numberOutput(n values.Number, integer bool) Output {
	return Output{
		Dimension: values.KindNumber,
		Text:      n.String(),
		Number: &NumberOutput{
			Value:     n.Decimal(),
			Integer:   integer,
			Precision: values.NotesOf(n).Precision,
		},
	}
}
