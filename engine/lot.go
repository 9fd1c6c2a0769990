package engine

import "github.com/shopspring/decimal"

// Lot is an immutable opening of risk in a direct (risk) pair (spec §3.4).
type Lot struct {
	LotID          uint64
	RiskPair       string
	Side           Side
	Quantity       decimal.Decimal
	TradePrice     decimal.Decimal
	OpenTimestamp  Timestamp
	OriginTradeID  string
	OriginLegIndex int
	OriginPair     string
}

// reduced returns a copy of l with its quantity reduced by q. It never
// mutates l (lot invariant L1 requires the result, if kept open, stay
// strictly positive; callers move a fully-reduced lot to closed instead of
// keeping a zero-quantity open lot).
func (l Lot) reduced(q decimal.Decimal) Lot {
	n := l
	n.Quantity = l.Quantity.Sub(q)
	return n
}

// unrealizedPnL marks l to market at mid (spec §4.4 "Unrealized P&L").
func (l Lot) unrealizedPnL(mid decimal.Decimal) decimal.Decimal {
	if l.Side == Buy {
		return mid.Sub(l.TradePrice).Mul(l.Quantity)
	}
	return l.TradePrice.Sub(mid).Mul(l.Quantity)
}

// realizedPnL computes the P&L recognized by matching quantity q of l
// against an incoming leg priced at legPrice (spec §4.4 step 2).
func (l Lot) realizedPnL(legPrice, q decimal.Decimal) decimal.Decimal {
	if l.Side == Buy {
		return legPrice.Sub(l.TradePrice).Mul(q)
	}
	return l.TradePrice.Sub(legPrice).Mul(q)
}

// lessOpenOrder reports whether a sorts before b within an open-lot FIFO
// queue: earliest open_timestamp first, lot_id as tie-break (spec §3.4,
// "FIFO law" in §8).
func lessOpenOrder(a, b Lot) bool {
	if !a.OpenTimestamp.Equal(b.OpenTimestamp) {
		return a.OpenTimestamp.Before(b.OpenTimestamp)
	}
	return a.LotID < b.LotID
}
