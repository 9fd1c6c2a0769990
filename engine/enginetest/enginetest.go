// Package enginetest provides small scenario-building helpers for tests
// that exercise the engine from outside its own package, grounded on the
// teacher's deleted test_helper.go (which built a throwaway in-memory
// ledger for each test table). It builds the engine equivalent: an initial
// EngineState plus a SliceSource of events, and a SliceSink to inspect
// after a Processor.Run.
package enginetest

import (
	"time"

	"github.com/etnz/fxdesk/engine"
)

// At returns a deterministic Timestamp: a fixed reference instant plus n
// microseconds, so scenario tests never need to spell out a time.Date.
func At(n int) engine.Timestamp {
	base := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	return engine.NewTimestamp(base.Add(time.Duration(n) * time.Microsecond))
}

// Scenario accumulates events for a single Processor.Run call.
type Scenario struct {
	events []engine.Event
	seq    uint64
}

// NewScenario creates an empty scenario; sequence IDs are assigned
// automatically in Add call order, starting at 1.
func NewScenario() *Scenario { return &Scenario{} }

// Add appends an event, assigning it the scenario's next sequence id. The
// caller still supplies Timestamp; only SequenceID is managed here, since a
// scenario's events are usually added in intended dispatch order but must
// still exercise real sequence ids rather than all being zero.
func (s *Scenario) Add(build func(seq uint64) engine.Event) *Scenario {
	s.seq++
	s.events = append(s.events, build(s.seq))
	return s
}

// Source returns the accumulated events as an engine.Source.
func (s *Scenario) Source() engine.Source { return engine.SliceSource(s.events) }

// Run drives a fresh Processor against the scenario's events and the given
// initial state, returning the final state and the full ordered record log.
func (s *Scenario) Run(initial engine.EngineState) (engine.EngineState, []engine.OutputRecord, error) {
	sink := &engine.SliceSink{}
	proc := engine.NewProcessor(sink)
	final, err := proc.Run(initial, s.Source())
	return final, sink.Records, err
}
