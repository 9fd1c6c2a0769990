package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Converter resolves arbitrary currency-pair rates from the market_rates
// view of an EngineState (spec §4.1). It never mutates state and never
// triangulates through a third currency — that algebra belongs to the
// Decomposer.
type Converter struct {
	state EngineState
}

// NewConverter creates a Converter bound to a read-only state snapshot.
func NewConverter(state EngineState) Converter { return Converter{state: state} }

// Rate resolves the rate to convert one unit of from into to, trying, in
// order: identity, the direct cached quote, the inverse cached quote.
func (c Converter) Rate(from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if r, ok := c.state.MarketRate(MakePair(from, to)); ok {
		return r.Mid, nil
	}
	if r, ok := c.state.MarketRate(MakePair(to, from)); ok {
		if r.Mid.IsZero() {
			return decimal.Decimal{}, fmt.Errorf("%w: %s/%s inverse quote is zero", ErrMissingRate, to, from)
		}
		// DivRound at 28 digits, not Div: Div truncates to shopspring's
		// default DivisionPrecision (16), well short of spec §3.1's
		// no-fixed-scale-reduction guarantee for inverse-rate resolution.
		return decimal.NewFromInt(1).DivRound(r.Mid, 28), nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: no cached quote for %s/%s or %s/%s", ErrMissingRate, from, to, to, from)
}

// Convert converts amount from one currency to another using Rate.
func (c Converter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := c.Rate(from, to)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Mul(rate), nil
}
