package engine

import (
	"fmt"
	"slices"
)

// LotConfig is the lot-tracking surface of spec §6.4 / §3.5.
type LotConfig struct {
	Enabled bool
	// MatchingRule is only ever "FIFO"; the field exists so a config file
	// can name the rule explicitly, the way the teacher's CostBasisMethod
	// is spelled out even though only FIFO is implemented by this engine.
	MatchingRule string
	RiskPairs    []string
	TradePairs   []string
	HedgePairs   []string
	// HedgeFillsFeedLots resolves spec §9's open question: HedgeFill feeds
	// the lot manager identically to ClientTrade by default.
	HedgeFillsFeedLots bool
}

// DefaultLotConfig returns lot tracking disabled, the safe zero state.
func DefaultLotConfig() LotConfig {
	return LotConfig{MatchingRule: "FIFO", HedgeFillsFeedLots: true}
}

func (c LotConfig) IsRiskPair(pair string) bool  { return slices.Contains(c.RiskPairs, pair) }
func (c LotConfig) IsTradePair(pair string) bool { return slices.Contains(c.TradePairs, pair) }
func (c LotConfig) IsHedgePair(pair string) bool { return slices.Contains(c.HedgePairs, pair) }

// Validate checks the disjoint-by-purpose pair sets of spec §3.5: every
// risk pair must be quoted against the reporting currency, and hedge_pairs
// must be a subset of risk_pairs. This is a startup-time configuration
// check, distinct from the per-event error kinds of §7.
func (c LotConfig) Validate(reportingCurrency string) error {
	if !c.Enabled {
		return nil
	}
	if c.MatchingRule != "" && c.MatchingRule != "FIFO" {
		return fmt.Errorf("unsupported matching_rule %q: only \"FIFO\" is defined", c.MatchingRule)
	}
	for _, pair := range c.RiskPairs {
		base, quote, err := SplitPair(pair)
		if err != nil {
			return fmt.Errorf("risk pair: %w", err)
		}
		if base != reportingCurrency && quote != reportingCurrency {
			return fmt.Errorf("risk pair %q is not quoted against reporting currency %q", pair, reportingCurrency)
		}
	}
	for _, pair := range c.HedgePairs {
		if !c.IsRiskPair(pair) {
			return fmt.Errorf("hedge pair %q is not a subset of risk_pairs", pair)
		}
	}
	return nil
}
