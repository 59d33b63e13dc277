// Package errors provides structured error types for the jsbridge module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the value path, the Go type involved, the observed JS
// value type and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseUnmarshal, errors.KindUnexpectedValue).
//		Path("user", "age").
//		GoType("int32").
//		JSType("string").
//		Detail("expected a number").
//		Build()
//
// Or use convenience constructors, one per error kind:
//
//	err := errors.Overflow(errors.PhaseUnmarshal, path, "18446744073709551616", "uint64")
//	err := errors.ClobberedTag(path, "main.Shape", "type")
//
// All errors implement the standard error interface and support errors.Is/As.
// errors.Is matches on Phase and Kind; a target with an empty Phase matches
// the Kind in any phase.
package errors
