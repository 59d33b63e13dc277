package marshal

import (
	"reflect"

	"github.com/dop251/goja"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/host"
	"github.com/wippyai/jsbridge/shape"
)

// Marshaler converts Go values into values of a goja runtime.
type Marshaler struct {
	compiler *shape.Compiler
}

// NewMarshaler returns a marshaler using the default shape compiler.
func NewMarshaler() *Marshaler {
	return &Marshaler{compiler: shape.Default()}
}

// NewMarshalerWithCompiler returns a marshaler that compiles shapes with c.
func NewMarshalerWithCompiler(c *shape.Compiler) *Marshaler {
	return &Marshaler{compiler: c}
}

// ToJS marshals v into rt. ctors may be nil.
func (m *Marshaler) ToJS(rt *goja.Runtime, v any, ctors *Constructors) (goja.Value, error) {
	if v == nil {
		return goja.Null(), nil
	}
	rv := reflect.ValueOf(v)
	s, err := m.compiler.Compile(rv.Type())
	if err != nil {
		return nil, err
	}
	return m.Peek(rt, cursor.NewPeek(s, rv), ctors)
}

// Peek marshals the value under p into rt. ctors may be nil.
func (m *Marshaler) Peek(rt *goja.Runtime, p cursor.Peek, ctors *Constructors) (goja.Value, error) {
	if ctors == nil {
		ctors = emptyConstructors
	}
	st := getState(errors.PhaseMarshal, host.NewScope(rt), m.compiler, ctors)
	defer putState(st)

	var (
		out goja.Value
		err error
	)
	if ex := st.scope.Try(func() { out, err = st.marshalValue(p, nil) }); ex != nil {
		return nil, st.exception(ex)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Unmarshaler drives a cursor.Partial from goja values.
type Unmarshaler struct {
	compiler *shape.Compiler
}

// NewUnmarshaler returns an unmarshaler using the default shape compiler.
func NewUnmarshaler() *Unmarshaler {
	return &Unmarshaler{compiler: shape.Default()}
}

// NewUnmarshalerWithCompiler returns an unmarshaler that compiles shapes with c.
func NewUnmarshalerWithCompiler(c *shape.Compiler) *Unmarshaler {
	return &Unmarshaler{compiler: c}
}

// FromJS fills the innermost frame of p from v. On error p is left as it
// was when the error occurred; the caller decides whether to abandon it.
func (u *Unmarshaler) FromJS(rt *goja.Runtime, v goja.Value, p *cursor.Partial) (err error) {
	st := getState(errors.PhaseUnmarshal, host.NewScope(rt), u.compiler, emptyConstructors)
	defer putState(st)

	if ex := st.scope.Try(func() { err = st.unmarshalValue(v, p) }); ex != nil {
		return st.exception(ex)
	}
	return err
}

// Decode unmarshals v into a new value of type T.
func Decode[T any](u *Unmarshaler, rt *goja.Runtime, v goja.Value) (T, error) {
	var zero T
	s, err := u.compiler.Compile(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	p := cursor.New(s)
	if err := u.FromJS(rt, v, p); err != nil {
		p.Abandon()
		return zero, err
	}
	out, err := cursor.BuildAs[T](p)
	if err != nil {
		p.Abandon()
		return zero, err
	}
	return out, nil
}
