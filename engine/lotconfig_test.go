package engine

import "testing"

func TestLotConfigValidateRejectsRiskPairNotAgainstReporting(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/GBP"}}
	if err := cfg.Validate("USD"); err == nil {
		t.Fatal("expected an error: EUR/GBP does not involve USD")
	}
}

func TestLotConfigValidateAcceptsEitherLegAsReporting(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD", "USD/JPY"}}
	if err := cfg.Validate("USD"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLotConfigValidateRejectsHedgePairOutsideRiskPairs(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD"}, HedgePairs: []string{"GBP/USD"}}
	if err := cfg.Validate("USD"); err == nil {
		t.Fatal("expected an error: GBP/USD is not a risk pair")
	}
}

func TestLotConfigValidateSkippedWhenDisabled(t *testing.T) {
	cfg := LotConfig{Enabled: false, RiskPairs: []string{"EUR/GBP"}}
	if err := cfg.Validate("USD"); err != nil {
		t.Fatalf("disabled lot config should never fail validation: %v", err)
	}
}

func TestLotConfigValidateRejectsUnknownMatchingRule(t *testing.T) {
	cfg := LotConfig{Enabled: true, MatchingRule: "LIFO", RiskPairs: []string{"EUR/USD"}}
	if err := cfg.Validate("USD"); err == nil {
		t.Fatal("expected an error: only FIFO is defined")
	}
}
