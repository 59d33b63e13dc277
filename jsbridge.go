package jsbridge

import (
	"github.com/dop251/goja"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/marshal"
	"github.com/wippyai/jsbridge/shape"
	"github.com/wippyai/jsbridge/types"
)

type (
	Constructors = marshal.Constructors
	Partial      = cursor.Partial
	Peek         = cursor.Peek
	Shape        = shape.Shape
	EnumDef      = types.EnumDef
	Variant      = types.Variant
	Char         = types.Char
	Int128       = types.Int128
	Uint128      = types.Uint128
	Tuple        = types.Tuple
)

// Optional is a value that may be absent. It marshals to null when empty.
type Optional[T any] = types.Optional[T]

// Set marshals to a JS Set.
type Set[T comparable] = types.Set[T]

var (
	defaultMarshaler   = marshal.NewMarshaler()
	defaultUnmarshaler = marshal.NewUnmarshaler()
)

// ToJS marshals v into rt without any registered constructors.
func ToJS(rt *goja.Runtime, v any) (goja.Value, error) {
	return defaultMarshaler.ToJS(rt, v, nil)
}

// ToJSWithConstructors marshals v into rt. Any value that marshals as an
// object (struct, payload enum, list, array, tuple, map or set) and whose
// type is registered in c is created through its registered constructor.
func ToJSWithConstructors(rt *goja.Runtime, v any, c *Constructors) (goja.Value, error) {
	return defaultMarshaler.ToJS(rt, v, c)
}

// FromJS unmarshals v into a new T. On failure the partially built value is
// discarded.
func FromJS[T any](rt *goja.Runtime, v goja.Value) (T, error) {
	return marshal.Decode[T](defaultUnmarshaler, rt, v)
}

// FromJSPartial fills the innermost open frame of p from v. The caller owns p
// and decides whether to continue building or abandon it after an error.
func FromJSPartial(rt *goja.Runtime, v goja.Value, p *Partial) error {
	return defaultUnmarshaler.FromJS(rt, v, p)
}

// NewConstructors returns an empty constructor registry.
func NewConstructors() *Constructors {
	return marshal.NewConstructors()
}

// NewPartial starts building a value of type T.
func NewPartial[T any]() (*Partial, error) {
	s, err := shape.Of[T]()
	if err != nil {
		return nil, err
	}
	return cursor.New(s), nil
}

// RegisterUnion registers interface type I as a tagged union. Values of the
// variant types listed in def marshal as tagged objects.
func RegisterUnion[I any](def EnumDef) error {
	return shape.RegisterUnion[I](def)
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] { return types.Some(v) }

// None returns an empty Optional.
func None[T any]() Optional[T] { return types.None[T]() }

// NewSet returns a set holding items.
func NewSet[T comparable](items ...T) Set[T] { return types.NewSet(items...) }
