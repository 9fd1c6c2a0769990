// Package engine is a deterministic, event-driven simulation core for an
// FX dealing desk. It consumes a finite stream of timestamped events
// (client trades, market quote updates, hedge orders and fills,
// configuration changes, clock ticks) and computes cash balances per
// currency, net positions per pair, reporting-currency exposures, and
// per-lot profit-and-loss with FIFO matching.
//
// The defining requirement is reproducibility: for a fixed input stream
// the engine emits byte-identical output records on every run. This is
// achieved by keeping every component — EngineState, Converter,
// Decomposer, LotManager, and the event handlers — a pure function of its
// inputs, with no wall-clock reads, no randomized iteration order, and no
// aliasing across a handler's state-transition boundary.
//
// Everything outside this boundary — loading events from a file, writing
// records to an audit log, rendering a report — is a collaborator that
// talks to the engine only through Source and Sink.
package engine
