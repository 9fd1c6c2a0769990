// Package report renders engine output records as markdown, using
// text/template the way the teacher's renderer package builds its
// markdown (renderer.go, deleted) and charmbracelet/glamour to style it
// for a terminal, the way the teacher's cmd/app.go printMarkdown does.
package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/etnz/fxdesk/engine"
)

const snapshotTemplate = `# Snapshot: {{.TickLabel}}

**Reporting currency:** {{.ReportingCurrency}}
**Total equity:** {{.TotalEquity}}
**Total unrealized P&L:** {{.TotalUnrealizedPnL}}

## Exposures

{{range .Exposures}}- {{.Currency}}: {{.Amount}}
{{end}}
## Positions

{{range .Positions}}- {{.Pair}}: {{.Quantity}}
{{end}}
## Lots by risk pair

{{range .Lots}}- {{.RiskPair}}: net {{.NetPosition}}, unrealized {{.UnrealizedPnL}}, {{.OpenLotCount}} open / {{.ClosedLotCount}} closed
{{end}}`

type exposureRow struct {
	Currency string
	Amount   string
}

type positionRow struct {
	Pair     string
	Quantity decimal.Decimal
}

type lotRow struct {
	RiskPair       string
	NetPosition    decimal.Decimal
	UnrealizedPnL  decimal.Decimal
	OpenLotCount   int
	ClosedLotCount int
}

type snapshotView struct {
	TickLabel          string
	ReportingCurrency  string
	TotalEquity        string
	TotalUnrealizedPnL string
	Exposures          []exposureRow
	Positions          []positionRow
	Lots               []lotRow
}

// RenderSnapshotMarkdown turns a RecordSnapshot's Fields (engine/snapshot.go's
// buildSnapshot output) into a markdown document. It returns an error if
// data is missing an expected field, rather than silently rendering a
// partial report.
func RenderSnapshotMarkdown(data *engine.Fields) (string, error) {
	view, err := snapshotViewFrom(data)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("snapshot").Parse(snapshotTemplate)
	if err != nil {
		return "", fmt.Errorf("report: parse template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("report: execute template: %w", err)
	}
	return b.String(), nil
}

// RenderSnapshotTerminal renders the snapshot markdown through glamour for
// a styled terminal display, falling back to the raw markdown if glamour
// itself fails to construct a renderer (the same fallback the teacher's
// printMarkdown in cmd/app.go applies).
func RenderSnapshotTerminal(data *engine.Fields) (string, error) {
	md, err := RenderSnapshotMarkdown(data)
	if err != nil {
		return "", err
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		return md, nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md, nil
	}
	return out, nil
}

func snapshotViewFrom(data *engine.Fields) (snapshotView, error) {
	tickLabel, err := getString(data, "tick_label")
	if err != nil {
		return snapshotView{}, err
	}
	reporting, err := getString(data, "reporting_currency")
	if err != nil {
		return snapshotView{}, err
	}
	totalEquity, err := getDecimal(data, "total_equity")
	if err != nil {
		return snapshotView{}, err
	}
	totalUnrealized, err := getDecimal(data, "total_unrealized_pnl")
	if err != nil {
		return snapshotView{}, err
	}

	exposuresVal, err := getFields(data, "exposures")
	if err != nil {
		return snapshotView{}, err
	}
	var exposures []exposureRow
	for _, ccy := range exposuresVal.Keys() {
		v, _ := exposuresVal.Get(ccy)
		amt, ok := v.(decimal.Decimal)
		if !ok {
			return snapshotView{}, fmt.Errorf("report: exposures.%s is not a decimal", ccy)
		}
		exposures = append(exposures, exposureRow{Currency: ccy, Amount: engine.Mny(amt, ccy).Display()})
	}

	positionsVal, err := getFields(data, "positions")
	if err != nil {
		return snapshotView{}, err
	}
	var positions []positionRow
	for _, pair := range positionsVal.Keys() {
		v, _ := positionsVal.Get(pair)
		qty, ok := v.(decimal.Decimal)
		if !ok {
			return snapshotView{}, fmt.Errorf("report: positions.%s is not a decimal", pair)
		}
		positions = append(positions, positionRow{Pair: pair, Quantity: qty})
	}

	lotsVal, err := getFields(data, "lots")
	if err != nil {
		return snapshotView{}, err
	}
	var lots []lotRow
	for _, pair := range lotsVal.Keys() {
		v, _ := lotsVal.Get(pair)
		pairFields, ok := v.(*engine.Fields)
		if !ok {
			return snapshotView{}, fmt.Errorf("report: lots.%s is not an object", pair)
		}
		net, err := getDecimal(pairFields, "net_position")
		if err != nil {
			return snapshotView{}, err
		}
		unrealized, err := getDecimal(pairFields, "unrealized_pnl")
		if err != nil {
			return snapshotView{}, err
		}
		openCount, _ := pairFields.Get("open_lot_count")
		closedCount, _ := pairFields.Get("closed_lot_count")
		lots = append(lots, lotRow{
			RiskPair:       pair,
			NetPosition:    net,
			UnrealizedPnL:  unrealized,
			OpenLotCount:   toInt(openCount),
			ClosedLotCount: toInt(closedCount),
		})
	}

	return snapshotView{
		TickLabel:          tickLabel,
		ReportingCurrency:  reporting,
		TotalEquity:        engine.Mny(totalEquity, reporting).Display(),
		TotalUnrealizedPnL: engine.Mny(totalUnrealized, reporting).Display(),
		Exposures:          exposures,
		Positions:          positions,
		Lots:               lots,
	}, nil
}

func getString(f *engine.Fields, key string) (string, error) {
	v, ok := f.Get(key)
	if !ok {
		return "", fmt.Errorf("report: missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("report: field %q is not a string", key)
	}
	return s, nil
}

func getDecimal(f *engine.Fields, key string) (decimal.Decimal, error) {
	v, ok := f.Get(key)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("report: missing field %q", key)
	}
	d, ok := v.(decimal.Decimal)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("report: field %q is not a decimal", key)
	}
	return d, nil
}

func getFields(f *engine.Fields, key string) (*engine.Fields, error) {
	v, ok := f.Get(key)
	if !ok {
		return nil, fmt.Errorf("report: missing field %q", key)
	}
	nested, ok := v.(*engine.Fields)
	if !ok {
		return nil, fmt.Errorf("report: field %q is not an object", key)
	}
	return nested, nil
}

func toInt(v any) int {
	n, _ := v.(int)
	return n
}
