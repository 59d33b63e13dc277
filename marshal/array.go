package marshal

import (
	"encoding/binary"
	"math"
	"reflect"
	"unsafe"

	"github.com/dop251/goja"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/host"
	"github.com/wippyai/jsbridge/shape"
)

// typedArrayKinds maps element scalars to the typed array that holds them.
var typedArrayKinds = map[shape.ScalarType]host.TypedArrayKind{
	shape.ScalarInt8:    host.Int8Array,
	shape.ScalarUint8:   host.Uint8Array,
	shape.ScalarInt16:   host.Int16Array,
	shape.ScalarUint16:  host.Uint16Array,
	shape.ScalarInt32:   host.Int32Array,
	shape.ScalarUint32:  host.Uint32Array,
	shape.ScalarFloat32: host.Float32Array,
	shape.ScalarFloat64: host.Float64Array,
}

// predeclared holds the element types whose slices share memory layout with
// the typed array of the same kind.
var predeclared = map[host.TypedArrayKind]reflect.Type{
	host.Int8Array:         reflect.TypeFor[int8](),
	host.Uint8Array:        reflect.TypeFor[uint8](),
	host.Uint8ClampedArray: reflect.TypeFor[uint8](),
	host.Int16Array:        reflect.TypeFor[int16](),
	host.Uint16Array:       reflect.TypeFor[uint16](),
	host.Int32Array:        reflect.TypeFor[int32](),
	host.Uint32Array:       reflect.TypeFor[uint32](),
	host.Float32Array:      reflect.TypeFor[float32](),
	host.Float64Array:      reflect.TypeFor[float64](),
}

// bulkCopyable reports whether s is a slice whose backing array can be
// copied byte for byte into or out of a typed array of kind.
func bulkCopyable(s *shape.Shape, kind host.TypedArrayKind) bool {
	return s.Kind == shape.KindList && s.Elem.Type == predeclared[kind]
}

// marshalTypedArray encodes a numeric list or array as a typed array over a
// fresh buffer. Elements are written in native byte order.
func (st *state) marshalTypedArray(p cursor.Peek) (*goja.Object, error) {
	s := p.Shape()
	kind, ok := typedArrayKinds[s.Elem.Scalar]
	if !ok || s.Elem.Kind != shape.KindScalar {
		return nil, st.reflectErr(s, "typed_array requires fixed-width numeric elements")
	}

	n, width := p.Len(), kind.Width()
	data := make([]byte, n*width)
	if n > 0 {
		if bulkCopyable(s, kind) {
			copy(data, unsafe.Slice((*byte)(p.Value().UnsafePointer()), n*width))
		} else {
			encodeElements(data, p.Value(), kind)
		}
	}

	arr, err := st.scope.NewTypedArray(kind, data)
	if err != nil {
		return nil, st.exception(err)
	}
	return arr, nil
}

func encodeElements(dst []byte, v reflect.Value, kind host.TypedArrayKind) {
	order := binary.NativeEndian
	for i := range v.Len() {
		e := v.Index(i)
		switch kind {
		case host.Int8Array:
			dst[i] = byte(e.Int())
		case host.Uint8Array:
			dst[i] = byte(e.Uint())
		case host.Int16Array:
			order.PutUint16(dst[i*2:], uint16(e.Int()))
		case host.Uint16Array:
			order.PutUint16(dst[i*2:], uint16(e.Uint()))
		case host.Int32Array:
			order.PutUint32(dst[i*4:], uint32(e.Int()))
		case host.Uint32Array:
			order.PutUint32(dst[i*4:], uint32(e.Uint()))
		case host.Float32Array:
			order.PutUint32(dst[i*4:], math.Float32bits(float32(e.Float())))
		case host.Float64Array:
			order.PutUint64(dst[i*8:], math.Float64bits(e.Float()))
		}
	}
}

func (st *state) populateList(obj *goja.Object, p cursor.Peek) error {
	for i := range p.Len() {
		st.pushIndex(i)
		v, err := st.marshalValue(p.Index(i), nil)
		if err != nil {
			return err
		}
		if err := st.scope.SetIndex(obj, i, v); err != nil {
			return st.exception(err)
		}
		st.pop()
	}
	return nil
}

// populateTuple writes tuple fields by position.
func (st *state) populateTuple(obj *goja.Object, p cursor.Peek) error {
	fields := p.Shape().Fields
	for i := range fields {
		st.pushIndex(i)
		v, err := st.marshalValue(p.Field(i), &fields[i])
		if err != nil {
			return err
		}
		if err := st.scope.SetIndex(obj, i, v); err != nil {
			return st.exception(err)
		}
		st.pop()
	}
	return nil
}

func (st *state) unmarshalList(v goja.Value, p *cursor.Partial) error {
	s := p.Shape()
	obj, ok := v.(*goja.Object)
	if !ok {
		return st.unexpected(s, v)
	}
	if kind, ok := st.scope.TypedArrayOf(obj); ok {
		return st.unmarshalTypedArray(obj, kind, p)
	}
	if !st.scope.IsArray(obj) {
		return st.unexpected(s, v)
	}

	n := st.scope.Length(obj)
	if err := st.checkArrayLen(s, n); err != nil {
		return err
	}
	for i := range n {
		st.pushIndex(i)
		if err := st.child(st.scope.Index(obj, i), p, p.BeginListItem); err != nil {
			return err
		}
		st.pop()
	}
	return nil
}

// unmarshalTypedArray copies the buffer when the target is a slice of the
// matching predeclared type and converts element by element otherwise.
func (st *state) unmarshalTypedArray(obj *goja.Object, kind host.TypedArrayKind, p *cursor.Partial) error {
	s := p.Shape()
	if bulkCopyable(s, kind) {
		data, err := st.scope.TypedArrayBytes(obj)
		if err != nil {
			return st.exception(err)
		}
		n := len(data) / kind.Width()
		out := reflect.MakeSlice(s.Type, n, n)
		if n > 0 {
			copy(unsafe.Slice((*byte)(out.UnsafePointer()), len(data)), data)
		}
		return p.SetValue(out)
	}

	n := st.scope.Length(obj)
	if err := st.checkArrayLen(s, n); err != nil {
		return err
	}
	for i := range n {
		st.pushIndex(i)
		if err := st.child(st.scope.Index(obj, i), p, p.BeginListItem); err != nil {
			return err
		}
		st.pop()
	}
	return nil
}

func (st *state) checkArrayLen(s *shape.Shape, n int) error {
	if s.Kind != shape.KindArray || n == s.Len {
		return nil
	}
	return errors.New(st.phase, errors.KindUnexpectedValue).
		Path(st.where()...).
		GoType(s.String()).
		JSType("Array").
		Value(n).
		Detail("expected %d elements, got %d", s.Len, n).
		Build()
}

// unmarshalTuple reads an Array of exactly the tuple's arity.
func (st *state) unmarshalTuple(v goja.Value, p *cursor.Partial) error {
	s := p.Shape()
	obj, ok := v.(*goja.Object)
	if !ok || !st.scope.IsArray(obj) {
		return st.unexpected(s, v)
	}

	n := st.scope.Length(obj)
	if n != len(s.Fields) {
		return errors.New(st.phase, errors.KindUnexpectedValue).
			Path(st.where()...).
			GoType(s.String()).
			JSType("Array").
			Value(n).
			Detail("tuple has %d elements, got %d", len(s.Fields), n).
			Build()
	}
	for i := range n {
		st.pushIndex(i)
		if err := st.child(st.scope.Index(obj, i), p, func() error { return p.BeginNthField(i) }); err != nil {
			return err
		}
		st.pop()
	}
	return nil
}
