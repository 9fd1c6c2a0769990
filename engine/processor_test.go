package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func recordsOfType(records []OutputRecord, kind RecordType) []OutputRecord {
	var out []OutputRecord
	for _, r := range records {
		if r.RecordType == kind {
			out = append(out, r)
		}
	}
	return out
}

// TestScenarioSingleDirectTrade covers spec §8 scenario 1: a client trade in
// a risk pair itself produces exactly one lot_created record and the usual
// cash/position accounting.
func TestScenarioSingleDirectTrade(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD"}}
	initial := NewEngineState("USD", cfg)
	sink := &SliceSink{}
	proc := NewProcessor(sink)

	events := SliceSource{
		ClientTrade{Timestamp: ts(0), SequenceID: 1, CurrencyPair: "EUR/USD", Side: Buy, Notional: d("1000000"), Price: d("1.1000"), ClientID: "C1", TradeID: "T1"},
	}

	final, err := proc.Run(initial, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !final.Position("EUR/USD").Equal(d("-1000000")) {
		t.Fatalf("position = %s, want -1000000", final.Position("EUR/USD"))
	}
	if len(recordsOfType(sink.Records, RecordLotCreated)) != 1 {
		t.Fatalf("lot_created records = %d, want 1", len(recordsOfType(sink.Records, RecordLotCreated)))
	}
}

// TestScenarioCrossDecomposition covers spec §8 scenario 2: a cross-pair
// trade decomposes into two legs and produces two lot_created records, one
// per risk pair.
func TestScenarioCrossDecomposition(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD", "GBP/USD"}}
	initial := NewEngineState("USD", cfg)
	sink := &SliceSink{}
	proc := NewProcessor(sink)

	events := SliceSource{
		MarketUpdate{Timestamp: ts(0), SequenceID: 1, CurrencyPair: "EUR/USD", Bid: d("1.0999"), Ask: d("1.1001"), Mid: d("1.1000")},
		MarketUpdate{Timestamp: ts(1), SequenceID: 2, CurrencyPair: "GBP/USD", Bid: d("1.2940"), Ask: d("1.2942"), Mid: d("1.2941")},
		ClientTrade{Timestamp: ts(2), SequenceID: 3, CurrencyPair: "EUR/GBP", Side: Buy, Notional: d("1000000"), Price: d("0.85"), ClientID: "C1", TradeID: "T1"},
	}

	_, err := proc.Run(initial, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	created := recordsOfType(sink.Records, RecordLotCreated)
	if len(created) != 2 {
		t.Fatalf("lot_created records = %d, want 2", len(created))
	}
}

// TestScenarioFIFOMatchWithProfit covers spec §8 scenario 3: an opening
// leg followed by a fully-offsetting opposite leg produces a lot_match
// record with the expected realized P&L.
func TestScenarioFIFOMatchWithProfit(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD"}}
	initial := NewEngineState("USD", cfg)
	sink := &SliceSink{}
	proc := NewProcessor(sink)

	events := SliceSource{
		ClientTrade{Timestamp: ts(0), SequenceID: 1, CurrencyPair: "EUR/USD", Side: Buy, Notional: d("1000000"), Price: d("1.1000"), TradeID: "T1"},
		ClientTrade{Timestamp: ts(1), SequenceID: 2, CurrencyPair: "EUR/USD", Side: Sell, Notional: d("1000000"), Price: d("1.0950"), TradeID: "T2"},
	}

	_, err := proc.Run(initial, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	matched := recordsOfType(sink.Records, RecordLotMatch)
	if len(matched) != 1 {
		t.Fatalf("lot_match records = %d, want 1", len(matched))
	}
	pnl, _ := matched[0].Data.Get("realized_pnl")
	if got := pnl.(decimal.Decimal); !got.Equal(d("5000")) {
		t.Fatalf("realized_pnl = %v, want 5000", pnl)
	}
}

// TestScenarioMissingRateDowngradesToLotTrackingError covers spec §8
// scenario 5: a cross trade whose leg rate cannot be resolved must not
// abort the run; it downgrades to a lot_tracking_error record while cash
// and position accounting still applies.
func TestScenarioMissingRateDowngradesToLotTrackingError(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD", "GBP/USD"}}
	initial := NewEngineState("USD", cfg)
	sink := &SliceSink{}
	proc := NewProcessor(sink)

	events := SliceSource{
		MarketUpdate{Timestamp: ts(0), SequenceID: 1, CurrencyPair: "EUR/USD", Bid: d("1.0999"), Ask: d("1.1001"), Mid: d("1.1000")},
		// GBP/USD intentionally never quoted.
		ClientTrade{Timestamp: ts(1), SequenceID: 2, CurrencyPair: "EUR/GBP", Side: Buy, Notional: d("1000000"), Price: d("0.85"), TradeID: "T1"},
	}

	final, err := proc.Run(initial, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recordsOfType(sink.Records, RecordLotTrackingError)) != 1 {
		t.Fatalf("lot_tracking_error records = %d, want 1", len(recordsOfType(sink.Records, RecordLotTrackingError)))
	}
	if len(recordsOfType(sink.Records, RecordLotCreated)) != 0 {
		t.Fatalf("lot_created records = %d, want 0 (decomposition failed)", len(recordsOfType(sink.Records, RecordLotCreated)))
	}
	// Cash/position accounting is unaffected by the lot tracking failure.
	if !final.Position("EUR/GBP").Equal(d("-1000000")) {
		t.Fatalf("position = %s, want -1000000", final.Position("EUR/GBP"))
	}
}

// TestScenarioDeterministicReplayUnderShuffledSources covers spec §8
// scenario 6 and the order-invariance law: splitting the same events across
// differently-ordered sources, or feeding them pre-sorted versus
// pre-shuffled, must yield byte-identical output.
func TestScenarioDeterministicReplayUnderShuffledSources(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD"}}

	build := func(order []int) []Event {
		all := []Event{
			MarketUpdate{Timestamp: ts(0), SequenceID: 1, CurrencyPair: "EUR/USD", Bid: d("1.0999"), Ask: d("1.1001"), Mid: d("1.1000")},
			ClientTrade{Timestamp: ts(1), SequenceID: 2, CurrencyPair: "EUR/USD", Side: Buy, Notional: d("500000"), Price: d("1.1000"), TradeID: "T1"},
			ClientTrade{Timestamp: ts(2), SequenceID: 3, CurrencyPair: "EUR/USD", Side: Sell, Notional: d("200000"), Price: d("1.0990"), TradeID: "T2"},
			ClockTick{Timestamp: ts(3), SequenceID: 4, TickLabel: "EOD"},
		}
		out := make([]Event, len(order))
		for i, idx := range order {
			out[i] = all[idx]
		}
		return out
	}

	runWith := func(events []Event) []OutputRecord {
		sink := &SliceSink{}
		proc := NewProcessor(sink)
		_, err := proc.Run(NewEngineState("USD", cfg), SliceSource(events))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return sink.Records
	}

	inOrder := runWith(build([]int{0, 1, 2, 3}))
	shuffled := runWith(build([]int{3, 1, 0, 2}))

	if len(inOrder) != len(shuffled) {
		t.Fatalf("record counts differ: %d vs %d", len(inOrder), len(shuffled))
	}
	for i := range inOrder {
		if inOrder[i].RecordType != shuffled[i].RecordType {
			t.Fatalf("record %d type differs: %s vs %s", i, inOrder[i].RecordType, shuffled[i].RecordType)
		}
		if !inOrder[i].Timestamp.Equal(shuffled[i].Timestamp) {
			t.Fatalf("record %d timestamp differs: %s vs %s", i, inOrder[i].Timestamp, shuffled[i].Timestamp)
		}
	}
}

func TestProcessorDetectsDuplicateOrderingKey(t *testing.T) {
	initial := NewEngineState("USD", DefaultLotConfig())
	sink := &SliceSink{}
	proc := NewProcessor(sink)

	events := SliceSource{
		MarketUpdate{Timestamp: ts(0), SequenceID: 1, CurrencyPair: "EUR/USD", Mid: d("1.1000")},
		MarketUpdate{Timestamp: ts(0), SequenceID: 1, CurrencyPair: "GBP/USD", Mid: d("1.2900")},
	}

	_, err := proc.Run(initial, events)
	if err == nil {
		t.Fatal("expected an error for a duplicate ordering key")
	}
	if len(recordsOfType(sink.Records, RecordFatalError)) != 1 {
		t.Fatalf("fatal_error records = %d, want 1", len(recordsOfType(sink.Records, RecordFatalError)))
	}
}

func TestProcessorRejectsUnknownEventKind(t *testing.T) {
	initial := NewEngineState("USD", DefaultLotConfig())
	sink := &SliceSink{}
	proc := NewProcessor(sink)

	_, err := proc.Run(initial, SliceSource{unknownEvent{}})
	if err == nil {
		t.Fatal("expected an error for an unregistered event kind")
	}
}

type unknownEvent struct{}

func (unknownEvent) Kind() EventKind  { return "unknown" }
func (unknownEvent) Key() OrderingKey { return OrderingKey{ts(99), 1} }

// TestProcessorConvertsHandlerPanicToFatalError covers spec §4.6/§7: a
// malformed currency_pair reaching ApplyTrade panics on a broken invariant,
// but Run must still surface a fatal_error record and a returned error
// rather than letting the panic escape to the caller.
func TestProcessorConvertsHandlerPanicToFatalError(t *testing.T) {
	initial := NewEngineState("USD", DefaultLotConfig())
	sink := &SliceSink{}
	proc := NewProcessor(sink)

	events := SliceSource{
		ClientTrade{Timestamp: ts(0), SequenceID: 1, CurrencyPair: "NOTAPAIR", Side: Buy, Notional: d("1000000"), Price: d("1.1000"), TradeID: "T1"},
	}

	_, err := proc.Run(initial, events)
	if err == nil {
		t.Fatal("expected an error for a malformed currency pair")
	}
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("error = %v, want wrapping ErrFatal", err)
	}
	if len(recordsOfType(sink.Records, RecordFatalError)) != 1 {
		t.Fatalf("fatal_error records = %d, want 1", len(recordsOfType(sink.Records, RecordFatalError)))
	}
}

// TestHandleClientTradeRejectsDisallowedTradePair covers engine.lotconfig's
// IsTradePair allowlist: when trade_pairs is non-empty, a ClientTrade in a
// pair outside it downgrades to lot_tracking_error instead of decomposing.
func TestHandleClientTradeRejectsDisallowedTradePair(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD"}, TradePairs: []string{"EUR/USD"}}
	initial := NewEngineState("USD", cfg)
	sink := &SliceSink{}
	proc := NewProcessor(sink)

	events := SliceSource{
		ClientTrade{Timestamp: ts(0), SequenceID: 1, CurrencyPair: "GBP/USD", Side: Buy, Notional: d("1000000"), Price: d("1.25"), TradeID: "T1"},
	}

	final, err := proc.Run(initial, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recordsOfType(sink.Records, RecordLotTrackingError)) != 1 {
		t.Fatalf("lot_tracking_error records = %d, want 1", len(recordsOfType(sink.Records, RecordLotTrackingError)))
	}
	if len(recordsOfType(sink.Records, RecordLotCreated)) != 0 {
		t.Fatalf("lot_created records = %d, want 0 (trade pair disallowed)", len(recordsOfType(sink.Records, RecordLotCreated)))
	}
	// Cash/position accounting still applies: the allowlist only gates lot tracking.
	if !final.Position("GBP/USD").Equal(d("-1000000")) {
		t.Fatalf("position = %s, want -1000000", final.Position("GBP/USD"))
	}
}

// TestHandleHedgeFillRejectsDisallowedHedgePair mirrors
// TestHandleClientTradeRejectsDisallowedTradePair for HedgeFill against
// hedge_pairs.
func TestHandleHedgeFillRejectsDisallowedHedgePair(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD", "GBP/USD"}, HedgePairs: []string{"GBP/USD"}, HedgeFillsFeedLots: true}
	initial := NewEngineState("USD", cfg)
	sink := &SliceSink{}
	proc := NewProcessor(sink)

	events := SliceSource{
		HedgeFill{Timestamp: ts(0), SequenceID: 1, OrderID: "O1", CurrencyPair: "EUR/USD", Side: Buy, Notional: d("1000000"), FillPrice: d("1.1000")},
	}

	_, err := proc.Run(initial, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recordsOfType(sink.Records, RecordLotCreated)) != 0 {
		t.Fatalf("lot_created records = %d, want 0 (EUR/USD is not in hedge_pairs)", len(recordsOfType(sink.Records, RecordLotCreated)))
	}
}
