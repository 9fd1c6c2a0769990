package engine

import (
	"errors"
	"testing"
)

func TestConverterRateIdentity(t *testing.T) {
	s := NewEngineState("USD", DefaultLotConfig())
	rate, err := NewConverter(s).Rate("USD", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(d("1")) {
		t.Fatalf("identity rate = %s, want 1", rate)
	}
}

func TestConverterRateDirect(t *testing.T) {
	s := NewEngineState("USD", DefaultLotConfig())
	s = s.WithMarketRate("EUR/USD", MarketRate{Bid: d("1.0999"), Ask: d("1.1001"), Mid: d("1.1000")})

	rate, err := NewConverter(s).Rate("EUR", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(d("1.1000")) {
		t.Fatalf("rate = %s, want 1.1000", rate)
	}
}

func TestConverterRateInverse(t *testing.T) {
	s := NewEngineState("USD", DefaultLotConfig())
	s = s.WithMarketRate("EUR/USD", MarketRate{Bid: d("1.0999"), Ask: d("1.1001"), Mid: d("1.1000")})

	rate, err := NewConverter(s).Rate("USD", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := d("1").DivRound(d("1.1000"), 28)
	if !rate.Equal(want) {
		t.Fatalf("inverse rate = %s, want %s", rate, want)
	}
}

// TestConverterRateInversePrecisionExceedsDefault guards against a
// regression to plain Div, which silently truncates to shopspring's
// default DivisionPrecision (16) well short of spec §3.1's no-fixed-scale
// guarantee for inverse-rate resolution.
func TestConverterRateInversePrecisionExceedsDefault(t *testing.T) {
	s := NewEngineState("USD", DefaultLotConfig())
	s = s.WithMarketRate("EUR/USD", MarketRate{Bid: d("2.9999"), Ask: d("3.0001"), Mid: d("3")})

	rate, err := NewConverter(s).Rate("USD", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	truncated := d("1").Div(d("3"))
	if rate.Equal(truncated) {
		t.Fatalf("rate = %s, expected more precision than the default-precision Div result %s", rate, truncated)
	}
	full := d("1").DivRound(d("3"), 28)
	if !rate.Equal(full) {
		t.Fatalf("rate = %s, want %s", rate, full)
	}
}

func TestConverterRateMissingIsErrMissingRate(t *testing.T) {
	s := NewEngineState("USD", DefaultLotConfig())
	_, err := NewConverter(s).Rate("EUR", "USD")
	if err == nil {
		t.Fatal("expected an error for an unresolvable rate")
	}
	if !errors.Is(err, ErrMissingRate) {
		t.Fatalf("error = %v, want wrapping ErrMissingRate", err)
	}
}
