package types

// Char is a single Unicode scalar value.
type Char rune

// Tuple marks a struct as positional. Embed it as the first field:
//
//	type Pair struct {
//		types.Tuple
//		Key   string
//		Value int32
//	}
type Tuple struct{}

// Defaulter is implemented by types whose unset fields can be filled from
// declared defaults during unmarshalling. JSDefaults is called on a fresh
// zero value.
type Defaulter interface {
	JSDefaults()
}
