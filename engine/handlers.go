package engine

import (
	"github.com/shopspring/decimal"
)

// Handler is a pure function (state, event) -> (state', records), the
// shape every event variant's handler implements (spec §4.5).
type Handler func(EngineState, Event) (EngineState, []OutputRecord)

// handlers is the processor's dispatch table (spec §4.6, §9 "Handler
// composition": adding a variant means adding one entry here).
func handlers() map[EventKind]Handler {
	return map[EventKind]Handler{
		KindMarketUpdate: handleMarketUpdate,
		KindClientTrade:  handleClientTrade,
		KindHedgeOrder:   handleHedgeOrder,
		KindHedgeFill:    handleHedgeFill,
		KindConfigUpdate: handleConfigUpdate,
		KindClockTick:    handleClockTick,
	}
}

func handleMarketUpdate(state EngineState, ev Event) (EngineState, []OutputRecord) {
	e := ev.(MarketUpdate)
	state = state.IncrementEventCount()

	if e.Bid.GreaterThan(e.Ask) {
		fields := NewFields().
			Set("currency_pair", e.CurrencyPair).
			Set("reason", "bid greater than ask").
			Set("bid", e.Bid).
			Set("ask", e.Ask)
		return state, []OutputRecord{NewRecord(e.Timestamp, RecordValidationError, fields)}
	}

	state = state.WithMarketRate(e.CurrencyPair, MarketRate{Bid: e.Bid, Ask: e.Ask, Mid: e.Mid, Timestamp: e.Timestamp})

	fields := NewFields().
		Set("currency_pair", e.CurrencyPair).
		Set("bid", e.Bid).
		Set("ask", e.Ask).
		Set("mid", e.Mid)
	return state, []OutputRecord{NewRecord(e.Timestamp, RecordMarketUpdate, fields)}
}

func handleClientTrade(state EngineState, ev Event) (EngineState, []OutputRecord) {
	e := ev.(ClientTrade)
	state = state.IncrementEventCount()

	tradeFields := NewFields().
		Set("currency_pair", e.CurrencyPair).
		Set("side", e.Side).
		Set("notional", e.Notional).
		Set("price", e.Price).
		Set("client_id", e.ClientID).
		Set("trade_id", e.TradeID)
	records := []OutputRecord{NewRecord(e.Timestamp, RecordClientTrade, tradeFields)}

	state = state.ApplyTrade(e.CurrencyPair, e.Side, e.Notional, e.Price)

	if mgr := state.LotManager(); mgr != nil {
		if len(mgr.Config.TradePairs) > 0 && !mgr.Config.IsTradePair(e.CurrencyPair) {
			fields := NewFields().
				Set("trade_id", e.TradeID).
				Set("currency_pair", e.CurrencyPair).
				Set("reason", "currency_pair is not an allowed trade pair")
			records = append(records, NewRecord(e.Timestamp, RecordLotTrackingError, fields))
			return state, records
		}
		newMgr, lotRecords, err := decomposeAndMatch(mgr, state, e.CurrencyPair, e.Side, e.Notional, e.Price, e.Timestamp, e.TradeID)
		if err != nil {
			fields := NewFields().
				Set("trade_id", e.TradeID).
				Set("currency_pair", e.CurrencyPair).
				Set("reason", err.Error())
			records = append(records, NewRecord(e.Timestamp, RecordLotTrackingError, fields))
		} else {
			state = state.WithLotManager(newMgr)
			records = append(records, lotRecords...)
		}
	}

	return state, records
}

func handleHedgeOrder(state EngineState, ev Event) (EngineState, []OutputRecord) {
	e := ev.(HedgeOrder)
	state = state.IncrementEventCount()
	state = state.WithHedgeOrder(HedgeOrderRecord{
		OrderID:      e.OrderID,
		CurrencyPair: e.CurrencyPair,
		Side:         e.Side,
		Notional:     e.Notional,
		LimitPrice:   e.LimitPrice,
		PlacedAt:     e.Timestamp,
	})

	fields := NewFields().
		Set("order_id", e.OrderID).
		Set("currency_pair", e.CurrencyPair).
		Set("side", e.Side).
		Set("notional", e.Notional).
		Set("limit_price", e.LimitPrice)
	return state, []OutputRecord{NewRecord(e.Timestamp, RecordHedgeOrder, fields)}
}

func handleHedgeFill(state EngineState, ev Event) (EngineState, []OutputRecord) {
	e := ev.(HedgeFill)
	state = state.IncrementEventCount()

	fields := NewFields().
		Set("order_id", e.OrderID).
		Set("currency_pair", e.CurrencyPair).
		Set("side", e.Side).
		Set("notional", e.Notional).
		Set("fill_price", e.FillPrice).
		Set("slippage", e.Slippage)
	records := []OutputRecord{NewRecord(e.Timestamp, RecordHedgeFill, fields)}

	state = state.ApplyTrade(e.CurrencyPair, e.Side, e.Notional, e.FillPrice)

	if mgr := state.LotManager(); mgr != nil && mgr.Config.HedgeFillsFeedLots {
		if len(mgr.Config.HedgePairs) > 0 && !mgr.Config.IsHedgePair(e.CurrencyPair) {
			fields := NewFields().
				Set("order_id", e.OrderID).
				Set("currency_pair", e.CurrencyPair).
				Set("reason", "currency_pair is not an allowed hedge pair")
			records = append(records, NewRecord(e.Timestamp, RecordLotTrackingError, fields))
			return state, records
		}
		newMgr, lotRecords, err := decomposeAndMatch(mgr, state, e.CurrencyPair, e.Side, e.Notional, e.FillPrice, e.Timestamp, e.OrderID)
		if err != nil {
			fields := NewFields().
				Set("order_id", e.OrderID).
				Set("currency_pair", e.CurrencyPair).
				Set("reason", err.Error())
			records = append(records, NewRecord(e.Timestamp, RecordLotTrackingError, fields))
		} else {
			state = state.WithLotManager(newMgr)
			records = append(records, lotRecords...)
		}
	}

	return state, records
}

func handleConfigUpdate(state EngineState, ev Event) (EngineState, []OutputRecord) {
	e := ev.(ConfigUpdate)
	state = state.IncrementEventCount()

	if e.ConfigKey == "reporting_currency" {
		state = state.WithReportingCurrency(e.ConfigValue)
	} else {
		state = state.WithConfig(e.ConfigKey, e.ConfigValue)
	}

	fields := NewFields().
		Set("config_key", e.ConfigKey).
		Set("config_value", e.ConfigValue)
	return state, []OutputRecord{NewRecord(e.Timestamp, RecordConfigUpdate, fields)}
}

func handleClockTick(state EngineState, ev Event) (EngineState, []OutputRecord) {
	e := ev.(ClockTick)
	state = state.IncrementEventCount()

	snapshot := buildSnapshot(state, e.TickLabel)
	return state, []OutputRecord{NewRecord(e.Timestamp, RecordSnapshot, snapshot)}
}

// decomposeAndMatch runs the decomposer then feeds every resulting leg
// through the lot manager, in leg order (spec §4.3 "Per-leg independence",
// §4.5 ClientTrade handler). It returns the new lot manager and the
// lot_created/lot_match records, or an error if decomposition failed
// (caller downgrades that to a lot_tracking_error record, spec §7).
func decomposeAndMatch(mgr *LotManager, state EngineState, tradePair string, side Side, notional, price decimal.Decimal, on Timestamp, tradeID string) (*LotManager, []OutputRecord, error) {
	dec := NewDecomposer(mgr.Config)
	legs, err := dec.Decompose(state, tradePair, side, notional, price)
	if err != nil {
		return nil, nil, err
	}

	var records []OutputRecord
	for i, leg := range legs {
		var legRecs []legRecord
		mgr, legRecs = mgr.ProcessLeg(leg, on, tradeID, i, tradePair)
		for _, r := range legRecs {
			records = append(records, legRecordToOutput(r, on))
		}
	}
	return mgr, records, nil
}

func legRecordToOutput(r legRecord, on Timestamp) OutputRecord {
	if r.created != nil {
		l := r.created
		fields := NewFields().
			Set("lot_id", l.LotID).
			Set("risk_pair", l.RiskPair).
			Set("side", l.Side).
			Set("quantity", l.Quantity).
			Set("trade_price", l.TradePrice).
			Set("origin_trade_id", l.OriginTradeID).
			Set("origin_leg_index", l.OriginLegIndex).
			Set("origin_pair", l.OriginPair)
		return NewRecord(on, RecordLotCreated, fields)
	}
	m := r.matched
	fields := NewFields().
		Set("matched_lot_id", m.MatchedLotID).
		Set("risk_pair", m.RiskPair).
		Set("quantity", m.Quantity).
		Set("realized_pnl", m.RealizedPnL)
	return NewRecord(on, RecordLotMatch, fields)
}
