// Package runid assigns a correlation identifier to one engine run, for
// tagging log lines and metrics samples so they can be grouped back
// together in an aggregation system. It is grounded on the same
// chidi150c-coinbase stack that motivated the metrics package: bots logging
// to a shared backend tag every line with a run or session id. Nothing in
// this package is read by engine; a RunID never participates in the
// dispatch loop or in any output record.
package runid

import "github.com/google/uuid"

// RunID identifies one Processor.Run invocation for observability purposes.
type RunID string

// New generates a fresh random run identifier.
func New() RunID {
	return RunID(uuid.NewString())
}

// String returns the identifier as a plain string, for use as a log field
// or a Prometheus label value.
func (id RunID) String() string { return string(id) }
