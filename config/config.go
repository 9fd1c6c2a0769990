// Package config loads the engine's startup configuration surface (spec
// §6.4): the reporting currency and the lot-tracking configuration. A base
// JSON document is decoded directly into Config; a second, optional layer of
// path-addressed overrides (e.g. from a CLI flag or a per-run scenario file)
// is applied on top, each override path checked with
// github.com/PaesslerAG/jsonpath, the same library
// the teacher uses to pull values out of an arbitrary decoded JSON document
// in its tradegate.go quote fetcher.
package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"

	"github.com/etnz/fxdesk/engine"
)

// LotTracking mirrors the JSON shape of spec §6.4's lot_tracking object.
type LotTracking struct {
	Enabled            bool     `json:"enabled"`
	MatchingRule       string   `json:"matching_rule"`
	RiskPairs          []string `json:"risk_pairs"`
	TradePairs         []string `json:"trade_pairs"`
	HedgePairs         []string `json:"hedge_pairs"`
	HedgeFillsFeedLots *bool    `json:"hedge_fills_feed_lots,omitempty"`
}

// Config is the decoded configuration surface of spec §6.4.
type Config struct {
	ReportingCurrency string      `json:"reporting_currency"`
	LotTracking       LotTracking `json:"lot_tracking"`
}

// Load decodes a base configuration document from r.
func Load(r io.Reader) (Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Override is a single jsonpath-addressed value to layer onto a base Config,
// e.g. {Path: "$.lot_tracking.enabled", Value: true}. Overrides are applied
// in order; a later override addressing the same path wins.
type Override struct {
	Path  string
	Value any
}

// ApplyOverrides re-encodes cfg to a generic document, applies each override
// by path, and decodes the result back into a Config. The write itself is
// done by this package's own minimal path walker (setPath), since jsonpath
// is read-only; jsonpath.Get is then called on the updated document to
// confirm the path resolves (the same constraint the teacher works around
// in tradegate.go by only ever reading, never writing, through jsonpath).
func ApplyOverrides(cfg Config, overrides []Override) (Config, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: re-encode: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Config{}, fmt.Errorf("config: decode to document: %w", err)
	}

	for _, ov := range overrides {
		if err := setPath(doc, ov.Path, ov.Value); err != nil {
			return Config{}, fmt.Errorf("config: override %q: %w", ov.Path, err)
		}
		// jsonpath.Get validates the path resolves against the document
		// produced so far, catching a typo'd path eagerly rather than
		// silently no-op'ing.
		if _, err := jsonpath.Get(ov.Path, doc); err != nil {
			return Config{}, fmt.Errorf("config: override %q does not resolve: %w", ov.Path, err)
		}
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return Config{}, fmt.Errorf("config: re-encode merged document: %w", err)
	}
	var out Config
	if err := json.Unmarshal(merged, &out); err != nil {
		return Config{}, fmt.Errorf("config: decode merged document: %w", err)
	}
	return out, nil
}

// LotConfig converts the decoded JSON shape into an engine.LotConfig.
func (c Config) LotConfig() engine.LotConfig {
	feedLots := true
	if c.LotTracking.HedgeFillsFeedLots != nil {
		feedLots = *c.LotTracking.HedgeFillsFeedLots
	}
	return engine.LotConfig{
		Enabled:            c.LotTracking.Enabled,
		MatchingRule:       c.LotTracking.MatchingRule,
		RiskPairs:          c.LotTracking.RiskPairs,
		TradePairs:         c.LotTracking.TradePairs,
		HedgePairs:         c.LotTracking.HedgePairs,
		HedgeFillsFeedLots: feedLots,
	}
}

// Validate checks the decoded configuration against the engine's own
// startup invariants (spec §3.5), in addition to the engine.LotConfig
// check it delegates to.
func (c Config) Validate() error {
	if c.ReportingCurrency == "" {
		return fmt.Errorf("config: reporting_currency is required")
	}
	return c.LotConfig().Validate(c.ReportingCurrency)
}
