// Package jsbridge converts values between Go and a goja JavaScript runtime.
//
// Conversion is driven by shapes: a reflect.Type is compiled once into a
// shape.Shape describing how the type maps onto JS values, and the marshal
// package walks a value and its shape together.
//
// # Architecture Overview
//
//	jsbridge/            Root package with the top-level API and type aliases
//	├── shape/           Type descriptors compiled from reflect.Type
//	├── cursor/          Read-only Peek and incremental Partial construction
//	├── marshal/         Go to JS and JS to Go conversion, constructor registry
//	├── host/            goja helpers: collections, typed arrays, BigInt
//	├── types/           Optional, Set, Char, Int128 and enum definitions
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
//	rt := goja.New()
//
//	type Point struct {
//	    X int32 `js:"x"`
//	    Y int32 `js:"y"`
//	}
//
//	v, err := jsbridge.ToJS(rt, Point{X: 1, Y: 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rt.Set("p", v) // {x: 1, y: 2}
//
//	back, err := jsbridge.FromJS[Point](rt, rt.Get("p"))
//
// # Value Mapping
//
//   - bool, strings, chars: boolean, string
//   - 8 to 32 bit integers, floats: number
//   - 64 and 128 bit integers, big.Int: BigInt
//   - slices and arrays: Array, or a TypedArray with the `js:",typed_array"` flag
//   - maps: Map; Set and map[T]struct{}: Set
//   - structs: plain objects, or objects built by a registered constructor
//   - Optional and nil pointers: null
//   - registered unions: objects carrying a tag field
//
// Pointers are shared: marshalling the same *T twice yields the same JS
// object, so cyclic structures round-trip into cyclic JS graphs.
//
// # Constructors
//
// Struct and enum types can be created through a JS prototype, a constructor
// function, a template object or a Go callback:
//
//	ctors := jsbridge.NewConstructors()
//	marshal.RegisterConstructor[Point](ctors, rt.Get("Point"))
//	v, err := jsbridge.ToJSWithConstructors(rt, Point{1, 2}, ctors)
package jsbridge
