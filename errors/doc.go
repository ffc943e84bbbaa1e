// Package errors defines the fault record produced by the binary module decoders.
//
// A decode call either succeeds or returns exactly one *Error describing the
// first fault found. The record carries the module offset where the fault was
// detected, a Code from a closed taxonomy, an optional Selectable payload
// (offending byte, resolved versus declared counts, a second offset), and the
// primitive scan code when a LEB128 or length scan failed:
//
//	_, err := format.Decode(data)
//	if errors.Is(err, &errors.Error{Code: errors.CodeDuplicateSection}) {
//	    ...
//	}
//	if stderrors.Is(err, errors.ErrEndOfFile) {
//	    // truncated module
//	}
//
// Explain produces a presentation-neutral Report for front ends.
package errors
