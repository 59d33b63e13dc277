// Package host wraps a goja runtime with the handful of primitives the
// marshalling engine needs: cached intrinsic constructors, typed-array
// creation and detection, BigInt word conversion, value type names for
// error messages and exception capture.
//
// A Scope belongs to a single goja.Runtime and, like the runtime, must not
// be used from more than one goroutine at a time.
package host
