// Package csv reads engine events from a columnar CSV file, the "external
// collaborator" input format named in the spec's scope note. It is built on
// encoding/csv directly, matching the teacher's own insee/insee.go, which
// never reaches for a third-party CSV library either.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/etnz/fxdesk/engine"
)

// Source adapts a CSV reader to engine.Source. Each row's first column is
// the event kind discriminator; the remaining columns are kind-specific,
// documented on parseRow below. A header row is always expected and skipped.
type Source struct {
	r *csv.Reader
}

// New wraps r as a csv event Source.
func New(r io.Reader) *Source {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row shape varies by event kind
	return &Source{r: cr}
}

// Pull reads every remaining row and converts it to an engine.Event.
func (s *Source) Pull() ([]engine.Event, error) {
	rows, err := s.r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rows = rows[1:] // drop header

	var events []engine.Event
	var errs error
	for i, row := range rows {
		ev, err := parseRow(row)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("csv: row %d: %w", i+2, err))
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}

// parseRow dispatches on row[0], the event kind, per the column layouts:
//
//	market_update: kind,timestamp,seq,pair,bid,ask,mid
//	client_trade:  kind,timestamp,seq,pair,side,notional,price,client_id,trade_id
//	hedge_order:   kind,timestamp,seq,order_id,pair,side,notional,limit_price
//	hedge_fill:    kind,timestamp,seq,order_id,pair,side,notional,limit_price,fill_price,slippage
//	config_update: kind,timestamp,seq,config_key,config_value
//	clock_tick:    kind,timestamp,seq,tick_label
func parseRow(row []string) (engine.Event, error) {
	if len(row) < 3 {
		return nil, fmt.Errorf("too few columns: %d", len(row))
	}
	ts, err := engine.ParseTimestamp(row[1])
	if err != nil {
		return nil, err
	}
	seq, err := parseUint(row[2])
	if err != nil {
		return nil, fmt.Errorf("sequence_id: %w", err)
	}

	switch row[0] {
	case "market_update":
		if len(row) < 7 {
			return nil, fmt.Errorf("market_update wants 7 columns, got %d", len(row))
		}
		bid, ask, mid, err := parseDecimals(row[4], row[5], row[6])
		if err != nil {
			return nil, err
		}
		return engine.MarketUpdate{Timestamp: ts, SequenceID: seq, CurrencyPair: row[3], Bid: bid, Ask: ask, Mid: mid}, nil

	case "client_trade":
		if len(row) < 9 {
			return nil, fmt.Errorf("client_trade wants 9 columns, got %d", len(row))
		}
		side, err := engine.ParseSide(row[4])
		if err != nil {
			return nil, err
		}
		notional, price, err := parseTwoDecimals(row[5], row[6])
		if err != nil {
			return nil, err
		}
		return engine.ClientTrade{
			Timestamp: ts, SequenceID: seq, CurrencyPair: row[3], Side: side,
			Notional: notional, Price: price, ClientID: row[7], TradeID: row[8],
		}, nil

	case "hedge_order":
		if len(row) < 8 {
			return nil, fmt.Errorf("hedge_order wants 8 columns, got %d", len(row))
		}
		side, err := engine.ParseSide(row[5])
		if err != nil {
			return nil, err
		}
		notional, limit, err := parseTwoDecimals(row[6], row[7])
		if err != nil {
			return nil, err
		}
		return engine.HedgeOrder{
			Timestamp: ts, SequenceID: seq, OrderID: row[3], CurrencyPair: row[4], Side: side,
			Notional: notional, LimitPrice: limit,
		}, nil

	case "hedge_fill":
		if len(row) < 10 {
			return nil, fmt.Errorf("hedge_fill wants 10 columns, got %d", len(row))
		}
		side, err := engine.ParseSide(row[5])
		if err != nil {
			return nil, err
		}
		notional, limit, err := parseTwoDecimals(row[6], row[7])
		if err != nil {
			return nil, err
		}
		fill, slippage, err := parseTwoDecimals(row[8], row[9])
		if err != nil {
			return nil, err
		}
		return engine.HedgeFill{
			Timestamp: ts, SequenceID: seq, OrderID: row[3], CurrencyPair: row[4], Side: side,
			Notional: notional, LimitPrice: limit, FillPrice: fill, Slippage: slippage,
		}, nil

	case "config_update":
		if len(row) < 5 {
			return nil, fmt.Errorf("config_update wants 5 columns, got %d", len(row))
		}
		return engine.ConfigUpdate{Timestamp: ts, SequenceID: seq, ConfigKey: row[3], ConfigValue: row[4]}, nil

	case "clock_tick":
		if len(row) < 4 {
			return nil, fmt.Errorf("clock_tick wants 4 columns, got %d", len(row))
		}
		return engine.ClockTick{Timestamp: ts, SequenceID: seq, TickLabel: row[3]}, nil

	default:
		return nil, fmt.Errorf("unknown event kind %q", row[0])
	}
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func parseDecimals(a, b, c string) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	da, err := decimal.NewFromString(a)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	db, err := decimal.NewFromString(b)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	dc, err := decimal.NewFromString(c)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	return da, db, dc, nil
}

func parseTwoDecimals(a, b string) (decimal.Decimal, decimal.Decimal, error) {
	da, err := decimal.NewFromString(a)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	db, err := decimal.NewFromString(b)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return da, db, nil
}
