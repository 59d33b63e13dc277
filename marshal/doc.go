// Package marshal converts Go values to goja values and back.
//
// The engine is driven by shapes from the shape package. Marshalling walks a
// cursor.Peek over the Go value and builds live JavaScript values in the
// target runtime; unmarshalling walks a JavaScript value and drives a
// cursor.Partial that assembles the Go value.
//
// # Value Mapping
//
//	Go                               JavaScript
//	──────────────────────────────────────────────────────────
//	bool                             boolean
//	int8..int32, uint8..uint32       number
//	int64, uint64, int, uint         BigInt
//	types.Int128, types.Uint128      BigInt
//	*big.Int                         BigInt
//	float32, float64                 number
//	string                           string
//	types.Char                       one-codepoint string
//	struct{}                         null
//	netip.Addr, netip.AddrPort       string
//	net.IP, uuid.UUID                string
//	[]T, [N]T                        Array (or TypedArray with typed_array)
//	map[K]V                          Map
//	map[T]struct{}, types.Set[T]     Set
//	struct                           object
//	struct embedding types.Tuple     Array
//	types.Optional[T], *T            null or the element
//	types.Enum integer               tag (string or number)
//	registered union interface       tag, or object {tag, ...payload}
//
// # Identity
//
// Pointers whose pointee becomes an object are marshalled once per call:
// every pointer to the same value yields the same JavaScript object, and
// cyclic graphs terminate.
//
// # Construction
//
// Objects are plain objects, Arrays, Maps and Sets unless a Constructors
// table supplies a prototype, constructor function, template object or
// custom callback for the Go type.
package marshal
