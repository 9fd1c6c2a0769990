package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Leg is one risk-pair opening derived from a client (or hedge) trade by
// the Decomposer (spec §4.3). Side is already the desk's side.
type Leg struct {
	RiskPair       string
	Side           Side
	Quantity       decimal.Decimal
	ReferencePrice decimal.Decimal
}

// Decomposer reduces a trade in any allowed trade pair to one or more legs
// in risk pairs (spec §4.3). It is a pure function of a state snapshot; it
// never mutates state.
type Decomposer struct {
	cfg LotConfig
}

// NewDecomposer creates a Decomposer bound to the given lot configuration.
func NewDecomposer(cfg LotConfig) Decomposer { return Decomposer{cfg: cfg} }

// Decompose derives the risk-pair legs for a client trade of tradePair,
// clientSide, notional and price, read against state. clientSide is the
// client's side (BUY/SELL); the returned legs carry the desk's side.
func (d Decomposer) Decompose(state EngineState, tradePair string, clientSide Side, notional, price decimal.Decimal) ([]Leg, error) {
	deskSide := clientSide.Opposite()

	if d.cfg.IsRiskPair(tradePair) {
		return []Leg{{
			RiskPair:       tradePair,
			Side:           deskSide,
			Quantity:       notional,
			ReferencePrice: price,
		}}, nil
	}

	base, quote, err := SplitPair(tradePair)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecomposition, err)
	}

	reporting := state.ReportingCurrency()
	conv := NewConverter(state)

	riskPairFor := func(ccy string) (string, error) {
		if ccy == reporting {
			return "", fmt.Errorf("%w: %s is the reporting currency, it has no risk pair of its own", ErrDecomposition, ccy)
		}
		direct := MakePair(ccy, reporting)
		if d.cfg.IsRiskPair(direct) {
			return direct, nil
		}
		inverse, err := InversePair(direct)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrDecomposition, err)
		}
		if d.cfg.IsRiskPair(inverse) {
			return inverse, nil
		}
		return "", fmt.Errorf("%w: no risk pair quotes %s against reporting currency %s", ErrDecomposition, ccy, reporting)
	}

	riskPairA, err := riskPairFor(base)
	if err != nil {
		return nil, err
	}
	riskPairB, err := riskPairFor(quote)
	if err != nil {
		return nil, err
	}

	pA, err := conv.Rate(base, reporting)
	if err != nil {
		return nil, err
	}
	pB, err := conv.Rate(quote, reporting)
	if err != nil {
		return nil, err
	}

	legAQty := notional
	legBQty := notional.Mul(price)

	// Client BUY of notional A/B at price pi: client gains A, loses B.
	// Desk is the opposite: sells A, buys B. Client SELL inverts both legs.
	legASide := Sell
	legBSide := Buy
	if clientSide == Sell {
		legASide = Buy
		legBSide = Sell
	}

	// pA/pB are already the risk pair's current mid correctly oriented as
	// "units of reporting currency per unit of ccy" (spec §4.3's reference
	// price), regardless of whether the cache holds the pair directly or
	// as its inverse — Converter.Rate already applied the 1/mid inversion.
	legA := Leg{RiskPair: riskPairA, Side: legASide, Quantity: legAQty, ReferencePrice: pA}
	legB := Leg{RiskPair: riskPairB, Side: legBSide, Quantity: legBQty, ReferencePrice: pB}

	return []Leg{legA, legB}, nil
}
