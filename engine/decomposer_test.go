package engine

import (
	"errors"
	"testing"
)

func TestDecomposeDirectRiskPairIsSingleLeg(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD"}}
	s := NewEngineState("USD", cfg)

	legs, err := NewDecomposer(cfg).Decompose(s, "EUR/USD", Buy, d("1000000"), d("1.1000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("legs = %d, want 1", len(legs))
	}
	leg := legs[0]
	if leg.RiskPair != "EUR/USD" || leg.Side != Sell || !leg.Quantity.Equal(d("1000000")) || !leg.ReferencePrice.Equal(d("1.1000")) {
		t.Fatalf("leg = %+v", leg)
	}
}

// TestDecomposeCrossPair reproduces the worked EUR/GBP cross example: a
// client buys EUR/GBP against a USD reporting currency triangulated
// through EUR/USD and GBP/USD risk pairs.
func TestDecomposeCrossPair(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD", "GBP/USD"}}
	s := NewEngineState("USD", cfg)
	s = s.WithMarketRate("EUR/USD", MarketRate{Mid: d("1.1000")})
	s = s.WithMarketRate("GBP/USD", MarketRate{Mid: d("1.2941")})

	legs, err := NewDecomposer(cfg).Decompose(s, "EUR/GBP", Buy, d("1000000"), d("0.85"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(legs))
	}

	legA, legB := legs[0], legs[1]
	if legA.RiskPair != "EUR/USD" || legA.Side != Sell || !legA.Quantity.Equal(d("1000000")) || !legA.ReferencePrice.Equal(d("1.1000")) {
		t.Fatalf("leg A = %+v", legA)
	}
	if legB.RiskPair != "GBP/USD" || legB.Side != Buy || !legB.Quantity.Equal(d("850000")) || !legB.ReferencePrice.Equal(d("1.2941")) {
		t.Fatalf("leg B = %+v", legB)
	}
}

func TestDecomposeCrossPairMissingRateIsErrMissingRate(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD", "GBP/USD"}}
	s := NewEngineState("USD", cfg)
	s = s.WithMarketRate("EUR/USD", MarketRate{Mid: d("1.1000")})
	// GBP/USD intentionally left unquoted.

	_, err := NewDecomposer(cfg).Decompose(s, "EUR/GBP", Buy, d("1000000"), d("0.85"))
	if err == nil {
		t.Fatal("expected an error for an unresolvable leg rate")
	}
	if !errors.Is(err, ErrMissingRate) {
		t.Fatalf("error = %v, want wrapping ErrMissingRate", err)
	}
}

func TestDecomposeClientSellInvertsLegSides(t *testing.T) {
	cfg := LotConfig{Enabled: true, RiskPairs: []string{"EUR/USD", "GBP/USD"}}
	s := NewEngineState("USD", cfg)
	s = s.WithMarketRate("EUR/USD", MarketRate{Mid: d("1.1000")})
	s = s.WithMarketRate("GBP/USD", MarketRate{Mid: d("1.2941")})

	legs, err := NewDecomposer(cfg).Decompose(s, "EUR/GBP", Sell, d("1000000"), d("0.85"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if legs[0].Side != Buy || legs[1].Side != Sell {
		t.Fatalf("sides = %v/%v, want BUY/SELL", legs[0].Side, legs[1].Side)
	}
}
