package engine

import "errors"

// The four error kinds defined by spec §7. Recoverable kinds are turned
// into output records by handlers and never propagate as Go errors; only
// ErrFatal is returned from Processor.Run.
var (
	// ErrValidation marks an event payload violating its own schema
	// (e.g. bid > ask). The event is rejected, state is unchanged.
	ErrValidation = errors.New("validation-error")

	// ErrMissingRate marks a rate the Converter could not resolve from
	// cached quotes (spec §4.1 rule 4).
	ErrMissingRate = errors.New("missing-rate")

	// ErrDecomposition marks any other failure to produce legs for a
	// trade (spec §4.3).
	ErrDecomposition = errors.New("decomposition-error")

	// ErrFatal marks a broken invariant. The processor reports it and
	// terminates the run abnormally (spec §7, §5 "Cancellation / timeout").
	ErrFatal = errors.New("fatal-error")
)
