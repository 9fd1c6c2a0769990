package config

import (
	"strings"
	"testing"
)

const baseDoc = `{
  "reporting_currency": "USD",
  "lot_tracking": {
    "enabled": true,
    "matching_rule": "FIFO",
    "risk_pairs": ["EUR/USD", "GBP/USD"],
    "trade_pairs": ["EUR/USD", "GBP/USD", "EUR/GBP"],
    "hedge_pairs": ["EUR/USD"]
  }
}`

func TestLoadDecodesBaseDocument(t *testing.T) {
	cfg, err := Load(strings.NewReader(baseDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ReportingCurrency != "USD" {
		t.Fatalf("reporting currency = %q, want USD", cfg.ReportingCurrency)
	}
	if !cfg.LotTracking.Enabled || len(cfg.LotTracking.RiskPairs) != 2 {
		t.Fatalf("lot tracking = %+v", cfg.LotTracking)
	}
}

func TestConfigValidatePassesWellFormedConfig(t *testing.T) {
	cfg, err := Load(strings.NewReader(baseDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestApplyOverridesSetsScalarField(t *testing.T) {
	cfg, err := Load(strings.NewReader(baseDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := ApplyOverrides(cfg, []Override{{Path: "$.reporting_currency", Value: "EUR"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ReportingCurrency != "EUR" {
		t.Fatalf("reporting currency = %q, want EUR", updated.ReportingCurrency)
	}
}

func TestApplyOverridesSetsNestedField(t *testing.T) {
	cfg, err := Load(strings.NewReader(baseDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := ApplyOverrides(cfg, []Override{{Path: "$.lot_tracking.enabled", Value: false}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.LotTracking.Enabled {
		t.Fatal("lot_tracking.enabled should be false after override")
	}
}

func TestApplyOverridesSetsArrayElement(t *testing.T) {
	cfg, err := Load(strings.NewReader(baseDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := ApplyOverrides(cfg, []Override{{Path: "$.lot_tracking.risk_pairs[1]", Value: "JPY/USD"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.LotTracking.RiskPairs[1] != "JPY/USD" {
		t.Fatalf("risk_pairs = %v, want [EUR/USD JPY/USD]", updated.LotTracking.RiskPairs)
	}
}

func TestApplyOverridesRejectsUnresolvablePath(t *testing.T) {
	cfg, err := Load(strings.NewReader(baseDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = ApplyOverrides(cfg, []Override{{Path: "$.nonexistent.field", Value: 1}})
	if err == nil {
		t.Fatal("expected an error for a path into a nonexistent object")
	}
}

func TestLotConfigDefaultsHedgeFillsFeedLotsTrue(t *testing.T) {
	cfg, err := Load(strings.NewReader(baseDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.LotConfig().HedgeFillsFeedLots {
		t.Fatal("HedgeFillsFeedLots should default to true when absent from JSON")
	}
}
