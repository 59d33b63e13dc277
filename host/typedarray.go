package host

import (
	"github.com/dop251/goja"
)

// TypedArrayKind identifies a TypedArray constructor.
type TypedArrayKind uint8

const (
	Int8Array TypedArrayKind = iota
	Uint8Array
	Uint8ClampedArray
	Int16Array
	Uint16Array
	Int32Array
	Uint32Array
	Float32Array
	Float64Array
	BigInt64Array
	BigUint64Array
	numTypedArrayKinds
)

var typedArrayNames = [...]string{
	Int8Array:         "Int8Array",
	Uint8Array:        "Uint8Array",
	Uint8ClampedArray: "Uint8ClampedArray",
	Int16Array:        "Int16Array",
	Uint16Array:       "Uint16Array",
	Int32Array:        "Int32Array",
	Uint32Array:       "Uint32Array",
	Float32Array:      "Float32Array",
	Float64Array:      "Float64Array",
	BigInt64Array:     "BigInt64Array",
	BigUint64Array:    "BigUint64Array",
}

var typedArrayWidths = [...]int{
	Int8Array:         1,
	Uint8Array:        1,
	Uint8ClampedArray: 1,
	Int16Array:        2,
	Uint16Array:       2,
	Int32Array:        4,
	Uint32Array:       4,
	Float32Array:      4,
	Float64Array:      8,
	BigInt64Array:     8,
	BigUint64Array:    8,
}

func (k TypedArrayKind) String() string {
	if int(k) < len(typedArrayNames) {
		return typedArrayNames[k]
	}
	return "unknown"
}

// Width returns the element size in bytes.
func (k TypedArrayKind) Width() int {
	if int(k) < len(typedArrayWidths) {
		return typedArrayWidths[k]
	}
	return 0
}

// NewTypedArray creates a typed array of kind over a new ArrayBuffer that
// takes ownership of data. len(data) must be a multiple of the width.
func (s *Scope) NewTypedArray(kind TypedArrayKind, data []byte) (*goja.Object, error) {
	buf := s.rt.NewArrayBuffer(data)
	return s.rt.New(s.typed[kind], s.rt.ToValue(buf))
}

// TypedArrayOf reports the kind of v when it is a typed array.
func (s *Scope) TypedArrayOf(v goja.Value) (TypedArrayKind, bool) {
	if _, ok := v.(*goja.Object); !ok {
		return 0, false
	}
	for k, ctor := range s.typed {
		if ctor != nil && s.rt.InstanceOf(v, ctor) {
			return TypedArrayKind(k), true
		}
	}
	return 0, false
}

// TypedArrayBytes returns the bytes viewed by a typed array. The slice
// aliases the array's buffer.
func (s *Scope) TypedArrayBytes(v goja.Value) ([]byte, error) {
	var b []byte
	if err := s.rt.ExportTo(v, &b); err != nil {
		return nil, err
	}
	return b, nil
}
