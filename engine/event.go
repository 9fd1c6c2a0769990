package engine

import "github.com/shopspring/decimal"

// EventKind tags the variant of an Event for dispatch (spec §3.2, §4.6).
type EventKind string

const (
	KindMarketUpdate EventKind = "market_update"
	KindClientTrade  EventKind = "client_trade"
	KindHedgeOrder   EventKind = "hedge_order"
	KindHedgeFill    EventKind = "hedge_fill"
	KindConfigUpdate EventKind = "config_update"
	KindClockTick    EventKind = "clock_tick"
)

// Event is the common interface for all event variants. Every variant
// carries the pair (timestamp, sequence_id) that forms the global
// ordering key (spec §3.2).
type Event interface {
	Kind() EventKind
	Key() OrderingKey
}

// MarketUpdate carries a fresh bid/ask/mid quote for a currency pair.
type MarketUpdate struct {
	Timestamp    Timestamp
	SequenceID   uint64
	CurrencyPair string
	Bid          decimal.Decimal
	Ask          decimal.Decimal
	Mid          decimal.Decimal
}

func (e MarketUpdate) Kind() EventKind  { return KindMarketUpdate }
func (e MarketUpdate) Key() OrderingKey { return OrderingKey{e.Timestamp, e.SequenceID} }

// ClientTrade is a trade executed against a client, in the client's
// trading pair and the client's side.
type ClientTrade struct {
	Timestamp    Timestamp
	SequenceID   uint64
	CurrencyPair string
	Side         Side
	Notional     decimal.Decimal
	Price        decimal.Decimal
	ClientID     string
	TradeID      string
}

func (e ClientTrade) Kind() EventKind  { return KindClientTrade }
func (e ClientTrade) Key() OrderingKey { return OrderingKey{e.Timestamp, e.SequenceID} }

// HedgeOrder records an order the desk places to hedge its risk. It does
// not itself affect cash/position (spec §4.5); HedgeFill does.
type HedgeOrder struct {
	Timestamp    Timestamp
	SequenceID   uint64
	OrderID      string
	CurrencyPair string
	Side         Side
	Notional     decimal.Decimal
	LimitPrice   decimal.Decimal
}

func (e HedgeOrder) Kind() EventKind  { return KindHedgeOrder }
func (e HedgeOrder) Key() OrderingKey { return OrderingKey{e.Timestamp, e.SequenceID} }

// HedgeFill is the execution of a (possibly prior) HedgeOrder.
type HedgeFill struct {
	Timestamp    Timestamp
	SequenceID   uint64
	OrderID      string
	CurrencyPair string
	Side         Side
	Notional     decimal.Decimal
	LimitPrice   decimal.Decimal
	FillPrice    decimal.Decimal
	Slippage     decimal.Decimal
}

func (e HedgeFill) Kind() EventKind  { return KindHedgeFill }
func (e HedgeFill) Key() OrderingKey { return OrderingKey{e.Timestamp, e.SequenceID} }

// ConfigUpdate changes a single configuration key, most notably
// "reporting_currency" (spec §3.3, §4.5).
type ConfigUpdate struct {
	Timestamp   Timestamp
	SequenceID  uint64
	ConfigKey   string
	ConfigValue string
}

func (e ConfigUpdate) Kind() EventKind  { return KindConfigUpdate }
func (e ConfigUpdate) Key() OrderingKey { return OrderingKey{e.Timestamp, e.SequenceID} }

// ClockTick is a periodic marker that triggers a derived-state snapshot.
type ClockTick struct {
	Timestamp  Timestamp
	SequenceID uint64
	TickLabel  string
}

func (e ClockTick) Kind() EventKind  { return KindClockTick }
func (e ClockTick) Key() OrderingKey { return OrderingKey{e.Timestamp, e.SequenceID} }
