package marshal

import (
	"reflect"

	"github.com/dop251/goja"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/host"
	"github.com/wippyai/jsbridge/shape"
)

var gojaValueType = reflect.TypeFor[goja.Value]()

// unmarshalValue fills the innermost frame of p from v. The dispatch order
// mirrors marshalValue.
func (st *state) unmarshalValue(v goja.Value, p *cursor.Partial) error {
	s := p.Shape()
	if err := st.enter(s); err != nil {
		return err
	}
	defer st.leave()

	switch s.Kind {
	case shape.KindScalar:
		return st.unmarshalScalar(v, p)

	case shape.KindOption, shape.KindPointer:
		if host.IsNullish(v) {
			return p.SetNone()
		}
		if s.Kind == shape.KindPointer {
			return st.child(v, p, p.BeginPointee)
		}
		return st.child(v, p, p.BeginSome)

	case shape.KindDynamic:
		return st.unmarshalDynamic(v, p)
	case shape.KindWeak:
		return st.unsupported(s, "weak pointers cannot be deserialized")
	case shape.KindRawPointer:
		return st.unsupported(s, "cannot deserialize raw pointers")
	case shape.KindFunc:
		return st.unsupported(s, "cannot deserialize function pointers")
	case shape.KindUnsupported:
		return st.unsupported(s, "unsupported type for deserialization")

	case shape.KindEnum:
		return st.unmarshalEnum(v, p)
	case shape.KindMap:
		return st.unmarshalMap(v, p)
	case shape.KindSet:
		return st.unmarshalSet(v, p)
	case shape.KindList, shape.KindArray:
		return st.unmarshalList(v, p)
	case shape.KindTuple:
		return st.unmarshalTuple(v, p)
	case shape.KindStruct:
		return st.unmarshalStruct(v, p)
	}
	return st.reflectErr(s, "unknown shape kind")
}

// unmarshalDynamic stores the exported form of v in an interface.
func (st *state) unmarshalDynamic(v goja.Value, p *cursor.Partial) error {
	s := p.Shape()
	if host.IsNullish(v) {
		return p.SetNone()
	}
	if s.Type == gojaValueType {
		return p.SetValue(reflect.ValueOf(&v).Elem())
	}
	if s.Type.NumMethod() > 0 {
		exported := v.Export()
		if exported == nil || !reflect.TypeOf(exported).AssignableTo(s.Type) {
			return st.unsupported(s, "cannot deserialize into a non-empty interface")
		}
		return p.Set(exported)
	}
	return p.Set(v.Export())
}

// child opens a frame with begin, fills it from v and closes it.
func (st *state) child(v goja.Value, p *cursor.Partial, begin func() error) error {
	if err := begin(); err != nil {
		return err
	}
	if err := st.unmarshalValue(v, p); err != nil {
		return err
	}
	return p.End()
}
