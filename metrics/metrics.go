// Package metrics exposes Prometheus counters and gauges driven by the
// engine's Processor observer hook (engine.WithObserver). It never
// influences EngineState: the counters and the equity gauge come from the
// event and the records the processor has already decided to emit, and the
// open-lot gauge only reads the resulting state's lot manager, following the same
// "observability never changes behavior" boundary the teacher's agent/
// recommendations (deleted) kept from altering ledger state, generalized
// from the chidi150c-coinbase bot's metrics.go, which is the only repo in
// the retrieval pack that imports github.com/prometheus/client_golang.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/etnz/fxdesk/engine"
	"github.com/etnz/fxdesk/runid"
)

// Collector owns the run's Prometheus metrics. Unlike the teacher's
// package-level vars registered in init(), Collector is constructed
// per-run so two simulations in the same process (e.g. in tests) don't
// collide on prometheus's global default registry.
type Collector struct {
	registry *prometheus.Registry

	eventsTotal  *prometheus.CounterVec
	recordsTotal *prometheus.CounterVec
	totalEquity  prometheus.Gauge
	lotsOpen     *prometheus.GaugeVec
}

// NewCollector creates a Collector registered against a fresh registry. id
// is attached as a constant "run_id" label on every metric so that samples
// from concurrent or successive runs in the same Prometheus backend can be
// told apart (SPEC_FULL §11's "attached ... to ... Prometheus labels").
func NewCollector(id runid.RunID) *Collector {
	labels := prometheus.Labels{"run_id": id.String()}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "fxdesk_events_total", Help: "Events dispatched, by kind.", ConstLabels: labels},
			[]string{"kind"},
		),
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "fxdesk_records_total", Help: "Output records emitted, by type.", ConstLabels: labels},
			[]string{"record_type"},
		),
		totalEquity: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "fxdesk_total_equity", Help: "Most recent snapshot's total_equity, in reporting currency.", ConstLabels: labels},
		),
		lotsOpen: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "fxdesk_open_lots", Help: "Open lot count, by risk pair.", ConstLabels: labels},
			[]string{"risk_pair"},
		),
	}
	c.registry.MustRegister(c.eventsTotal, c.recordsTotal, c.totalEquity)
	c.registry.MustRegister(c.lotsOpen)
	return c
}

// Registry returns the collector's registry, for wiring into an HTTP
// /metrics handler the way the teacher's cmd/ wires its own handlers.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Observe is an engine.Processor observer: it updates counters/gauges from
// the event just dispatched and the records it produced (taking
// total_equity from a snapshot record), then, after every event, sets the
// per-risk-pair open lot counts from the resulting state's lot manager.
func (c *Collector) Observe(ev engine.Event, state engine.EngineState, records []engine.OutputRecord) {
	c.eventsTotal.WithLabelValues(string(ev.Kind())).Inc()
	for _, r := range records {
		c.recordsTotal.WithLabelValues(string(r.RecordType)).Inc()
		if r.RecordType == engine.RecordSnapshot {
			if v, ok := r.Data.Get("total_equity"); ok {
				if equity, ok := v.(decimal.Decimal); ok {
					f, _ := equity.Float64()
					c.totalEquity.Set(f)
				}
			}
		}
	}

	if mgr := state.LotManager(); mgr != nil {
		for _, pair := range mgr.RiskPairs() {
			c.lotsOpen.WithLabelValues(pair).Set(float64(mgr.OpenLotCount(pair)))
		}
	}
}

// Option returns an engine.Option wiring this collector as the processor's
// observer.
func (c *Collector) Option() engine.Option {
	return engine.WithObserver(c.Observe)
}
