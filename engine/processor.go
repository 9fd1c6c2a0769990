package engine

import (
	"fmt"
	"log"
	"sort"
)

// Processor merges one or more Sources into a single globally-ordered
// event sequence and dispatches each event to its handler, forwarding the
// resulting records to a Sink (spec §4.6).
type Processor struct {
	sink     Sink
	handlers map[EventKind]Handler
	logger   *log.Logger

	// observe, if set, is called once per dispatched event after its
	// handler returns. It exists purely for the metrics collaborator
	// package (SPEC_FULL §11) and never influences dispatch or output.
	observe func(Event, EngineState, []OutputRecord)
}

// Option configures a Processor at construction time.
type Option func(*Processor)

// WithLogger attaches a logger for recoverable-but-noteworthy conditions.
// The logger is never consulted for anything that affects the output
// record stream (SPEC_FULL §10.2).
func WithLogger(l *log.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// WithObserver attaches a side-channel callback invoked after every
// dispatch, for purely observational collaborators (metrics, tracing).
func WithObserver(fn func(Event, EngineState, []OutputRecord)) Option {
	return func(p *Processor) { p.observe = fn }
}

// NewProcessor creates a Processor that writes to sink using the standard
// dispatch table (spec §4.6, §9 "Handler composition").
func NewProcessor(sink Sink, opts ...Option) *Processor {
	p := &Processor{sink: sink, handlers: handlers()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run merges all sources, sorts the combined event sequence, and dispatches
// it against initial, returning the final state. A duplicate ordering key
// across any two sources, or a handler panicking on a broken invariant, is
// reported as a fatal_error record and surfaced as a returned error (spec
// §5 "Cancellation / timeout", §7 "fatal-error").
func (p *Processor) Run(initial EngineState, sources ...Source) (state EngineState, err error) {
	state = initial

	var all []Event
	for _, src := range sources {
		events, perr := src.Pull()
		if perr != nil {
			return state, fmt.Errorf("%w: pulling events from source: %v", ErrFatal, perr)
		}
		all = append(all, events...)
	}

	if dupKey, ok := findDuplicateKey(all); ok {
		return state, p.fatal(state, fmt.Errorf("%w: duplicate ordering key %s across input sources", ErrFatal, dupKey))
	}

	// Stable sort: spec §4.6 requires duplicate-arrival-order events that
	// happen to share a key to retain their relative order — which cannot
	// happen given the uniqueness check above, but a stable sort is also
	// what guarantees identical output regardless of how the caller
	// partitioned the input across sources (spec §8 "Order invariance
	// under source partition").
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Key().Less(all[j].Key())
	})

	for dispatchIndex, ev := range all {
		handler, ok := p.handlers[ev.Kind()]
		if !ok {
			return state, p.fatal(state, fmt.Errorf("%w: no handler registered for event kind %q at dispatch index %d", ErrFatal, ev.Kind(), dispatchIndex))
		}

		newState, records, perr := p.dispatch(handler, state, ev)
		if perr != nil {
			return state, p.fatal(state, fmt.Errorf("%w: handler for event kind %q at dispatch index %d: %v", ErrFatal, ev.Kind(), dispatchIndex, perr))
		}
		for _, r := range records {
			if emitErr := p.sink.Emit(r); emitErr != nil {
				return state, p.fatal(state, fmt.Errorf("%w: sink rejected record at dispatch index %d: %v", ErrFatal, dispatchIndex, emitErr))
			}
		}
		state = newState

		if p.observe != nil {
			p.observe(ev, state, records)
		}
	}

	return state, nil
}

// dispatch invokes handler and converts a panic (a handler hitting a broken
// invariant, e.g. ApplyTrade on a malformed currency pair) into an error
// instead of letting it unwind past Run, so every failure mode reaches the
// caller through the same fatal_error path (spec §4.6, §7 "fatal-error").
func (p *Processor) dispatch(handler Handler, state EngineState, ev Event) (newState EngineState, records []OutputRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	newState, records = handler(state, ev)
	return newState, records, nil
}

// fatal emits the final fatal_error record (best-effort: a sink failure
// while reporting the original fatal condition is logged, not chained)
// and returns the original error.
func (p *Processor) fatal(state EngineState, cause error) error {
	fields := NewFields().Set("reason", cause.Error())
	record := NewRecord(Timestamp{}, RecordFatalError, fields)
	if err := p.sink.Emit(record); err != nil && p.logger != nil {
		p.logger.Printf("engine: failed to emit fatal_error record: %v", err)
	}
	return cause
}

// findDuplicateKey reports the first ordering key shared by more than one
// event, detecting the condition spec §9's first open question resolves
// the processor as responsible for catching (spec §6.1 "Duplicate
// (timestamp, sequence_id) pairs across all sources are an error").
func findDuplicateKey(events []Event) (OrderingKey, bool) {
	seen := make(map[OrderingKey]struct{}, len(events))
	for _, ev := range events {
		k := ev.Key()
		if _, ok := seen[k]; ok {
			return k, true
		}
		seen[k] = struct{}{}
	}
	return OrderingKey{}, false
}
