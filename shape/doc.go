// Package shape describes Go types for the marshalling engine.
//
// A Shape is compiled once per reflect.Type and cached. It records the coarse
// Kind the engine dispatches on, the scalar type for primitives, element and
// key shapes for containers, the field list for structs and tuples, and the
// variant table for enums.
//
// # Struct Tags
//
// Fields are read from exported struct fields. The js tag renames a field
// and sets options:
//
//	type Sample struct {
//		ID      uint64    `js:"id"`
//		Samples []float32 `js:"samples,typed_array"`
//		Note    string    `js:",default"`
//		Debug   bool      `js:"-"`
//	}
//
// Without a tag the JS name is the Go name with its first letter lowered.
//
// # Enums and Unions
//
// Integer types implementing types.Enum become unit-only enums. Interface
// types become tagged unions once registered:
//
//	shape.RegisterUnion[Shape](types.EnumDef{
//		Variants: []types.Variant{
//			types.VariantOf[Circle]("Circle", 0),
//			types.VariantOf[Square]("Square", 1),
//		},
//	})
//
// # Thread Safety
//
// Compiler is safe for concurrent use. Shapes are immutable after Compile
// returns.
package shape
