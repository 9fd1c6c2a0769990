package engine

import (
	"slices"

	"github.com/shopspring/decimal"
)

// MarketRate is the most recent MarketUpdate payload cached for a pair
// (spec §3.3).
type MarketRate struct {
	Bid       decimal.Decimal
	Ask       decimal.Decimal
	Mid       decimal.Decimal
	Timestamp Timestamp
}

// HedgeOrderRecord is the supplemented in-flight hedge order log (SPEC_FULL
// §12): an opaque, insertion-ordered record of orders placed, kept so a
// later HedgeFill can be correlated back to its order for reporting.
type HedgeOrderRecord struct {
	OrderID      string
	CurrencyPair string
	Side         Side
	Notional     decimal.Decimal
	LimitPrice   decimal.Decimal
	PlacedAt     Timestamp
}

// EngineState is the value-semantic accounting snapshot of spec §3.3.
// Every transition method returns a new EngineState; the receiver is never
// mutated. Maps are copied on write rather than shared, which keeps the
// value-semantics contract trivially true at the cost of an allocation per
// transition — acceptable for a batch simulation engine (spec §9).
type EngineState struct {
	cashBalances      map[string]decimal.Decimal
	positions         map[string]decimal.Decimal
	marketRates       map[string]MarketRate
	reportingCurrency string
	eventCount        uint64
	lotManager        *LotManager // nil iff lot tracking disabled (spec §3.3)
	hedgeOrders       []HedgeOrderRecord
	config            map[string]string // free-form ConfigUpdate entries, see spec §4.5
}

// NewEngineState creates the initial state for a run.
func NewEngineState(reportingCurrency string, lotConfig LotConfig) EngineState {
	s := EngineState{
		cashBalances:      map[string]decimal.Decimal{},
		positions:         map[string]decimal.Decimal{},
		marketRates:       map[string]MarketRate{},
		reportingCurrency: reportingCurrency,
		config:            map[string]string{},
	}
	if lotConfig.Enabled {
		s.lotManager = NewLotManager(lotConfig)
	}
	return s
}

func (s EngineState) clone() EngineState {
	n := EngineState{
		cashBalances:      make(map[string]decimal.Decimal, len(s.cashBalances)),
		positions:         make(map[string]decimal.Decimal, len(s.positions)),
		marketRates:       make(map[string]MarketRate, len(s.marketRates)),
		reportingCurrency: s.reportingCurrency,
		eventCount:        s.eventCount,
		lotManager:        s.lotManager,
		hedgeOrders:       s.hedgeOrders, // slices are only ever appended via a fresh copy, see WithHedgeOrder
		config:            make(map[string]string, len(s.config)),
	}
	for k, v := range s.cashBalances {
		n.cashBalances[k] = v
	}
	for k, v := range s.positions {
		n.positions[k] = v
	}
	for k, v := range s.marketRates {
		n.marketRates[k] = v
	}
	for k, v := range s.config {
		n.config[k] = v
	}
	return n
}

// Cash returns the cash balance for a currency; an absent key is zero
// (spec I1/I2).
func (s EngineState) Cash(currency string) decimal.Decimal {
	return s.cashBalances[currency]
}

// Position returns the desk's net position for a pair; an absent key is
// zero.
func (s EngineState) Position(pair string) decimal.Decimal {
	return s.positions[pair]
}

// MarketRate returns the cached quote for pair, if any.
func (s EngineState) MarketRate(pair string) (MarketRate, bool) {
	r, ok := s.marketRates[pair]
	return r, ok
}

// ReportingCurrency returns the current reporting currency.
func (s EngineState) ReportingCurrency() string { return s.reportingCurrency }

// EventCount returns the number of events dispatched so far (invariant I3).
func (s EngineState) EventCount() uint64 { return s.eventCount }

// LotManager returns the lot manager, or nil if lot tracking is disabled.
func (s EngineState) LotManager() *LotManager { return s.lotManager }

// HedgeOrders returns the in-flight hedge order log, oldest first.
func (s EngineState) HedgeOrders() []HedgeOrderRecord {
	out := make([]HedgeOrderRecord, len(s.hedgeOrders))
	copy(out, s.hedgeOrders)
	return out
}

// Config returns a free-form config value set by a non-reporting-currency
// ConfigUpdate.
func (s EngineState) Config(key string) (string, bool) {
	v, ok := s.config[key]
	return v, ok
}

// CashCurrencies returns the currencies with a non-default cash entry,
// sorted, so that iteration over state is deterministic regardless of the
// underlying map's hash order (spec §5 purity requirements).
func (s EngineState) CashCurrencies() []string {
	keys := make([]string, 0, len(s.cashBalances))
	for k := range s.cashBalances {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// PositionPairs returns the pairs with a non-default position entry,
// sorted.
func (s EngineState) PositionPairs() []string {
	keys := make([]string, 0, len(s.positions))
	for k := range s.positions {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// MarketPairs returns the pairs with a cached quote, sorted.
func (s EngineState) MarketPairs() []string {
	keys := make([]string, 0, len(s.marketRates))
	for k := range s.marketRates {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// WithCash returns a new state with delta added to currency's cash balance
// (spec §4.2 primitive with_cash).
func (s EngineState) WithCash(currency string, delta decimal.Decimal) EngineState {
	n := s.clone()
	n.cashBalances[currency] = n.cashBalances[currency].Add(delta)
	return n
}

// WithPosition returns a new state with delta added to pair's position
// (with_position).
func (s EngineState) WithPosition(pair string, delta decimal.Decimal) EngineState {
	n := s.clone()
	n.positions[pair] = n.positions[pair].Add(delta)
	return n
}

// WithMarketRate returns a new state with pair's cached quote replaced
// (with_market_rate).
func (s EngineState) WithMarketRate(pair string, rate MarketRate) EngineState {
	n := s.clone()
	n.marketRates[pair] = rate
	return n
}

// WithReportingCurrency returns a new state with the reporting currency
// changed (with_reporting_currency).
func (s EngineState) WithReportingCurrency(currency string) EngineState {
	n := s.clone()
	n.reportingCurrency = currency
	return n
}

// WithLotManager returns a new state with the lot manager replaced
// (with_lot_manager).
func (s EngineState) WithLotManager(mgr *LotManager) EngineState {
	n := s.clone()
	n.lotManager = mgr
	return n
}

// WithHedgeOrder returns a new state with a hedge order appended to the log.
func (s EngineState) WithHedgeOrder(o HedgeOrderRecord) EngineState {
	n := s.clone()
	orders := make([]HedgeOrderRecord, len(s.hedgeOrders), len(s.hedgeOrders)+1)
	copy(orders, s.hedgeOrders)
	n.hedgeOrders = append(orders, o)
	return n
}

// WithConfig returns a new state with a free-form config entry set.
func (s EngineState) WithConfig(key, value string) EngineState {
	n := s.clone()
	n.config[key] = value
	return n
}

// IncrementEventCount returns a new state with event_count advanced by one
// (increment_event_count). Every handler calls this exactly once (spec
// §4.5 "Every handler additionally increments event_count").
func (s EngineState) IncrementEventCount() EngineState {
	n := s.clone()
	n.eventCount = s.eventCount + 1
	return n
}

// ApplyTrade applies the cash/position accounting of spec §4.2 atomically.
// pair is the event's own currency_pair as traded (a cross pair is booked
// as is, not split into legs); side is the client's side. It returns the
// new state.
func (s EngineState) ApplyTrade(pair string, side Side, notional, price decimal.Decimal) EngineState {
	base, quote, err := SplitPair(pair)
	if err != nil {
		// The handlers do not validate the pair before calling here; a
		// malformed pair panics, and Processor.dispatch turns the panic
		// into a fatal error.
		panic(err)
	}
	quoteAmount := notional.Mul(price)

	n := s
	switch side {
	case Buy:
		// Client buys: desk sells base, receives quote.
		n = n.WithCash(base, notional.Neg())
		n = n.WithCash(quote, quoteAmount)
		n = n.WithPosition(pair, notional.Neg())
	case Sell:
		// Client sells: desk buys base, pays quote.
		n = n.WithCash(base, notional)
		n = n.WithCash(quote, quoteAmount.Neg())
		n = n.WithPosition(pair, notional)
	}
	return n
}
