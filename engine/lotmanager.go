package engine

import (
	"slices"

	"github.com/shopspring/decimal"
)

// LotManager owns the per-risk-pair lot queues and the single monotonic
// lot-id counter (spec §3.4 L3, §4.4 "Determinism requirements"). Every
// mutating method returns a new *LotManager; the counter and queues are
// never shared after a mutation, matching EngineState's value semantics
// (spec §5 "Shared resources").
type LotManager struct {
	Config    LotConfig
	nextLotID uint64
	queues    map[string]LotQueue
}

// NewLotManager creates an empty lot manager for the given configuration.
func NewLotManager(cfg LotConfig) *LotManager {
	return &LotManager{Config: cfg, queues: map[string]LotQueue{}}
}

func (m *LotManager) clone() *LotManager {
	n := &LotManager{Config: m.Config, nextLotID: m.nextLotID, queues: make(map[string]LotQueue, len(m.queues))}
	for k, q := range m.queues {
		openCopy := make([]Lot, len(q.Open))
		copy(openCopy, q.Open)
		closedCopy := make([]Lot, len(q.Closed))
		copy(closedCopy, q.Closed)
		n.queues[k] = LotQueue{Open: openCopy, Closed: closedCopy}
	}
	return n
}

// Queue returns a risk pair's lot queue (zero value if none yet).
func (m *LotManager) Queue(riskPair string) LotQueue { return m.queues[riskPair] }

// RiskPairs returns the risk pairs with at least one lot (open or
// closed), sorted, for deterministic iteration at snapshot time.
func (m *LotManager) RiskPairs() []string {
	keys := make([]string, 0, len(m.queues))
	for k := range m.queues {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// NetPosition returns the signed open quantity for a risk pair (T3).
func (m *LotManager) NetPosition(riskPair string) decimal.Decimal {
	return m.queues[riskPair].netPosition()
}

// UnrealizedPnL returns the mark-to-market P&L of open lots in riskPair
// at mid.
func (m *LotManager) UnrealizedPnL(riskPair string, mid decimal.Decimal) decimal.Decimal {
	return m.queues[riskPair].unrealizedPnL(mid)
}

// OpenLotCount and ClosedLotCount support the snapshot's derived
// open/closed lot counts (spec §4.5 ClockTick).
func (m *LotManager) OpenLotCount(riskPair string) int   { return len(m.queues[riskPair].Open) }
func (m *LotManager) ClosedLotCount(riskPair string) int { return len(m.queues[riskPair].Closed) }

// OpenLots returns a risk pair's open lots in FIFO order (oldest first).
func (m *LotManager) OpenLots(riskPair string) []Lot {
	q := m.queues[riskPair]
	out := make([]Lot, len(q.Open))
	copy(out, q.Open)
	return out
}

// legRecord is the information needed to build a lot_created/lot_match
// OutputRecord; ProcessLeg returns these rather than pre-built
// OutputRecords so handlers stay in control of timestamp/trade correlation
// fields shared across every record a single event produces.
type legRecord struct {
	created *Lot
	matched *matchResult
}

type matchResult struct {
	MatchedLotID uint64
	RiskPair     string
	Quantity     decimal.Decimal
	RealizedPnL  decimal.Decimal
}

// ProcessLeg applies the matching algorithm of spec §4.4 for a single leg
// against its risk pair's queue, at event time on, originating from trade
// tradeID, leg index legIdx of origin pair originPair. It returns the new
// LotManager and the ordered list of lot_created/lot_match facts produced.
func (m *LotManager) ProcessLeg(leg Leg, on Timestamp, tradeID string, legIdx int, originPair string) (*LotManager, []legRecord) {
	n := m.clone()
	var records []legRecord

	q := n.queues[leg.RiskPair]
	remaining := leg.Quantity
	side := leg.Side

	// Step 1: empty queue, or every open lot already on our side: no
	// matching is possible, open a new lot for the full quantity.
	if len(q.Open) == 0 || q.sameSideOrEmpty(side) {
		lot := n.openLot(leg, on, tradeID, legIdx, originPair, remaining)
		q.Open = append(q.Open, lot)
		n.queues[leg.RiskPair] = q
		records = append(records, legRecord{created: &lot})
		return n, records
	}

	// Step 2: match FIFO against the opposite-side open lots.
	for len(q.Open) > 0 && remaining.IsPositive() {
		head := q.Open[0]
		if head.Side == side {
			// The opposite-side lots are exhausted; any leftover opens a
			// new lot of our side (step 3, position has flipped).
			break
		}
		matchQty := head.Quantity.Min(remaining)
		pnl := head.realizedPnL(leg.ReferencePrice, matchQty)

		reduced := head.reduced(matchQty)
		if reduced.Quantity.IsZero() {
			q.Open = q.Open[1:]
			q.Closed = append(q.Closed, reduced)
		} else {
			q.Open[0] = reduced
		}
		remaining = remaining.Sub(matchQty)

		records = append(records, legRecord{matched: &matchResult{
			MatchedLotID: head.LotID,
			RiskPair:     leg.RiskPair,
			Quantity:     matchQty,
			RealizedPnL:  pnl,
		}})
	}
	n.queues[leg.RiskPair] = q

	// Step 3: any leftover quantity opens a new lot on our side.
	if remaining.IsPositive() {
		lot := n.openLot(leg, on, tradeID, legIdx, originPair, remaining)
		q.Open = append(q.Open, lot)
		n.queues[leg.RiskPair] = q
		records = append(records, legRecord{created: &lot})
	}

	return n, records
}

// openLot assigns the next lot id (dispatch-order monotonic, spec O3) and
// constructs a new open Lot of quantity qty.
func (m *LotManager) openLot(leg Leg, on Timestamp, tradeID string, legIdx int, originPair string, qty decimal.Decimal) Lot {
	id := m.nextLotID
	m.nextLotID++
	return Lot{
		LotID:          id,
		RiskPair:       leg.RiskPair,
		Side:           leg.Side,
		Quantity:       qty,
		TradePrice:     leg.ReferencePrice,
		OpenTimestamp:  on,
		OriginTradeID:  tradeID,
		OriginLegIndex: legIdx,
		OriginPair:     originPair,
	}
}
