// Package cursor provides the read and write views the marshalling engine
// walks.
//
// Peek pairs a reflect.Value with its shape and offers typed accessors for
// every shape kind: fields, elements, map entries, set items, optionals,
// pointees and enum variants.
//
// Partial builds a value of a shape incrementally. It keeps a stack of
// frames, one per nested value under construction:
//
//	p := cursor.New(pointShape)
//	_ = p.BeginField("x")
//	_ = p.Set(int32(3))
//	_ = p.End()
//	_ = p.BeginField("y")
//	_ = p.Set(int32(4))
//	_ = p.End()
//	v, err := p.Build()
//
// Every misuse is reported as an *errors.Error with PhaseBuild. A partial
// that is abandoned releases its value and rejects further operations.
package cursor
