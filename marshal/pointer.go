package marshal

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/shape"
)

// marshalPointer resolves a strong pointer. A pointee that becomes an object
// is created once per call and shared by every pointer to it; other
// pointees are marshalled by value.
func (st *state) marshalPointer(p cursor.Peek, field *shape.Field) (goja.Value, error) {
	inner, ok := p.Pointee()
	if !ok {
		return goja.Null(), nil
	}

	is := inner.Shape()
	if !is.WillMarshalAsObject() || is.Kind == shape.KindOption || is.Kind == shape.KindPointer {
		return st.marshalValue(inner, field)
	}

	key := ptrKey{addr: p.Addr(), typ: is.Type}
	if obj, ok := st.seen[key]; ok {
		Logger().Debug("reusing marshalled pointee",
			zap.Stringer("type", is.Type),
			zap.Uintptr("addr", key.addr))
		return obj, nil
	}
	return st.marshalObject(inner, field, &key)
}

// marshalDynamic marshals the concrete value held by an interface.
func (st *state) marshalDynamic(p cursor.Peek, field *shape.Field) (goja.Value, error) {
	v, ok := p.Dynamic()
	if !ok {
		return goja.Null(), nil
	}
	if gv, ok := v.Interface().(goja.Value); ok {
		return gv, nil
	}

	s, err := st.compiler.Compile(v.Type())
	if err != nil {
		return nil, err
	}
	return st.marshalValue(cursor.NewPeek(s, v), field)
}
