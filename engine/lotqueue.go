package engine

import "github.com/shopspring/decimal"

// LotQueue owns the open and closed lot sequences for one risk pair (spec
// §3.4). Open lots are kept as a plain slice acting as a FIFO queue: new
// lots are appended at the back, matched lots are consumed from the front.
// Because the processor only ever calls into the lot layer in dispatch
// order (spec O1/O3), appending in call order already yields the
// (open_timestamp, lot_id) ordering required by lessOpenOrder — no
// re-sorting is needed on the hot path.
type LotQueue struct {
	Open   []Lot
	Closed []Lot
}

// netPosition sums signed open quantity: +1 per unit BUY, -1 per unit SELL
// (spec §4.4 "net_position", testable property T3).
func (q LotQueue) netPosition() decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.Open {
		if l.Side == Buy {
			total = total.Add(l.Quantity)
		} else {
			total = total.Sub(l.Quantity)
		}
	}
	return total
}

// unrealizedPnL sums unrealized P&L across all open lots at mid.
func (q LotQueue) unrealizedPnL(mid decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.Open {
		total = total.Add(l.unrealizedPnL(mid))
	}
	return total
}

// sameSideOrEmpty reports whether every open lot shares side s, which is
// true vacuously for an empty queue (lot invariant L2).
func (q LotQueue) sameSideOrEmpty(s Side) bool {
	for _, l := range q.Open {
		if l.Side != s {
			return false
		}
	}
	return true
}
