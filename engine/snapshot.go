package engine

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// buildSnapshot computes the derived quantities a ClockTick reports (spec
// §4.5 ClockTick, plus the SPEC_FULL §12 open-lots addition). It never
// mutates state — ClockTick's only state effect is the event-count
// increment the caller already applied.
func buildSnapshot(state EngineState, tickLabel string) *Fields {
	reporting := state.ReportingCurrency()
	conv := NewConverter(state)

	exposures := NewFields()
	totalEquity := decimal.Zero
	for _, ccy := range state.CashCurrencies() {
		bal := state.Cash(ccy)
		valued, err := conv.Convert(bal, ccy, reporting)
		if err != nil {
			// A currency with no resolvable rate against the reporting
			// currency contributes nothing to total equity but is still
			// reported at its native balance.
			exposures.Set(ccy, bal)
			continue
		}
		exposures.Set(ccy, valued)
		totalEquity = totalEquity.Add(valued)
	}

	positions := NewFields()
	for _, pair := range state.PositionPairs() {
		positions.Set(pair, state.Position(pair))
	}

	mgr := state.LotManager()
	totalUnrealized := decimal.Zero
	lotsByPair := NewFields()
	if mgr != nil {
		for _, riskPair := range mgr.RiskPairs() {
			mid := decimal.Zero
			if r, ok := state.MarketRate(riskPair); ok {
				mid = r.Mid
			}
			unrealized := mgr.UnrealizedPnL(riskPair, mid)
			totalUnrealized = totalUnrealized.Add(unrealized)

			openLots := NewFields()
			for _, l := range mgr.OpenLots(riskPair) {
				openLots.Set(strconv.FormatUint(l.LotID, 10), lotSummary(l))
			}

			pairFields := NewFields().
				Set("net_position", mgr.NetPosition(riskPair)).
				Set("unrealized_pnl", unrealized).
				Set("open_lot_count", mgr.OpenLotCount(riskPair)).
				Set("closed_lot_count", mgr.ClosedLotCount(riskPair)).
				Set("open_lots", openLots)
			lotsByPair.Set(riskPair, pairFields)
		}
	}

	return NewFields().
		Set("tick_label", tickLabel).
		Set("reporting_currency", reporting).
		Set("exposures", exposures).
		Set("total_equity", totalEquity).
		Set("positions", positions).
		Set("total_unrealized_pnl", totalUnrealized).
		Set("lots", lotsByPair)
}

func lotSummary(l Lot) *Fields {
	return NewFields().
		Set("side", l.Side).
		Set("quantity", l.Quantity).
		Set("trade_price", l.TradePrice).
		Set("open_timestamp", l.OpenTimestamp)
}
