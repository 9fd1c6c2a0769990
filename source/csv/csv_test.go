package csv

import (
	"strings"
	"testing"

	"github.com/etnz/fxdesk/engine"
)

func TestSourceParsesEachEventKind(t *testing.T) {
	doc := strings.Join([]string{
		"kind,timestamp,seq,a,b,c,d,e,f,g",
		"market_update,2025-01-01T09:00:00.000000+00:00,1,EUR/USD,1.0999,1.1001,1.1000,,,",
		"client_trade,2025-01-01T09:00:01.000000+00:00,2,EUR/USD,BUY,1000000,1.1000,C1,T1,",
		"hedge_order,2025-01-01T09:00:02.000000+00:00,3,O1,EUR/USD,SELL,500000,1.1005,,",
		"hedge_fill,2025-01-01T09:00:03.000000+00:00,4,O1,EUR/USD,SELL,500000,1.1005,1.1006,0.0001",
		"config_update,2025-01-01T09:00:04.000000+00:00,5,reporting_currency,USD,,,,,",
		"clock_tick,2025-01-01T09:00:05.000000+00:00,6,EOD,,,,,,",
	}, "\n") + "\n"

	src := New(strings.NewReader(doc))
	events, err := src.Pull()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 6 {
		t.Fatalf("events = %d, want 6", len(events))
	}

	wantKinds := []engine.EventKind{
		engine.KindMarketUpdate, engine.KindClientTrade, engine.KindHedgeOrder,
		engine.KindHedgeFill, engine.KindConfigUpdate, engine.KindClockTick,
	}
	for i, want := range wantKinds {
		if events[i].Kind() != want {
			t.Fatalf("event %d kind = %s, want %s", i, events[i].Kind(), want)
		}
	}

	trade := events[1].(engine.ClientTrade)
	if trade.TradeID != "T1" || trade.Side != engine.Buy {
		t.Fatalf("client_trade = %+v", trade)
	}
}

func TestSourceRejectsUnknownKind(t *testing.T) {
	doc := "kind,timestamp,seq\nbogus,2025-01-01T09:00:00.000000+00:00,1\n"
	src := New(strings.NewReader(doc))
	_, err := src.Pull()
	if err == nil {
		t.Fatal("expected an error for an unknown event kind")
	}
}
