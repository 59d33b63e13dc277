// Package types defines Go values that have no direct counterpart in the
// language but do in the JavaScript value model, plus the descriptors the
// shape compiler reads to classify user types.
//
// # Scalars
//
// Char is a single Unicode scalar value and marshals as a one-codepoint
// string. Int128 and Uint128 carry 128-bit integers as two 64-bit words and
// marshal as BigInt.
//
// # Containers
//
// Optional[T] is a nullable value without pointer indirection; absence maps
// to null. Set[T] is an unordered collection backed by golang-set and
// marshals as a JS Set. A struct that embeds Tuple marshals positionally
// into an Array.
//
// # Enums
//
// Integer types implement Enum to describe their variants; interface types
// are registered as tagged unions with shape.RegisterUnion using the same
// EnumDef descriptor.
package types
