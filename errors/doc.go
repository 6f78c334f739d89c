// Package errors provides the structured error types used throughout the
// runtime.
//
// Every error carries a Phase (where in dispatch it happened) and a Kind
// (what went wrong), so callers can match with errors.Is without string
// comparison:
//
//	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseEnqueue, Kind: errors.KindCapacity}) {
//	    // blocking queue was full
//	}
//
// The taxonomy is deliberately small. Enqueue-capacity errors and resolution
// errors are the recoverable categories; contract violations (double
// resolution, reading an unconstructed value, dropping a reference past
// zero) are programming defects and panic instead of returning an error.
package errors
