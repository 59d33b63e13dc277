package marshal

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/shape"
)

// marshalValue converts the value under p. field is the struct field the
// value is stored in, nil elsewhere.
func (st *state) marshalValue(p cursor.Peek, field *shape.Field) (goja.Value, error) {
	s := p.Shape()
	if err := st.enter(s); err != nil {
		return nil, err
	}
	defer st.leave()

	switch s.Kind {
	case shape.KindScalar:
		return st.marshalScalar(p)

	case shape.KindOption:
		inner, ok := p.Option()
		if !ok {
			return goja.Null(), nil
		}
		return st.marshalValue(inner, field)

	case shape.KindPointer:
		return st.marshalPointer(p, field)
	case shape.KindDynamic:
		return st.marshalDynamic(p, field)
	case shape.KindWeak:
		return nil, st.unsupported(s, "weak pointers cannot be serialized")
	case shape.KindRawPointer:
		return nil, st.unsupported(s, "cannot serialize raw pointers")
	case shape.KindFunc:
		return nil, st.unsupported(s, "cannot serialize function pointers")
	case shape.KindUnsupported:
		return nil, st.unsupported(s, "unsupported type for serialization")

	case shape.KindEnum:
		if s.Enum.UnitOnly() {
			return st.marshalUnitEnum(p)
		}
	}
	return st.marshalObject(p, field, nil)
}

// marshalObject builds the JS object for an object-like shape. When key is
// set, the object is recorded in the identity table before it is populated
// so that cycles back to it resolve to the same object.
func (st *state) marshalObject(p cursor.Peek, field *shape.Field, key *ptrKey) (goja.Value, error) {
	s := p.Shape()

	var (
		variant *shape.Variant
		payload cursor.Peek
	)
	if s.Kind == shape.KindEnum {
		var ok bool
		variant, payload, ok = p.Variant()
		if !ok {
			if s.Enum.Union && p.Value().IsNil() {
				return goja.Null(), nil
			}
			return nil, errors.Variant(st.phase, st.where(), s.String(), p.Value().Interface())
		}
	}

	// A union variant held as *T is a shared pointer too.
	var variantKey *ptrKey
	if variant != nil && variant.Indirect {
		k := ptrKey{addr: p.Value().Elem().Pointer(), typ: variant.Type}
		if obj, ok := st.seen[k]; ok {
			Logger().Debug("reusing marshalled variant",
				zap.Stringer("type", variant.Type),
				zap.Uintptr("addr", k.addr))
			return obj, nil
		}
		variantKey = &k
	}

	if field.Has(shape.FlagTypedArray) && !st.ctors.has(s.Type) {
		arr, err := st.marshalTypedArray(p)
		if err != nil {
			return nil, err
		}
		st.remember(key, arr)
		return arr, nil
	}

	obj, err := st.construct(p, field)
	if err != nil {
		return nil, err
	}
	st.remember(key, obj)
	st.remember(variantKey, obj)

	switch s.Kind {
	case shape.KindMap:
		err = st.populateMap(obj, p)
	case shape.KindSet:
		err = st.populateSet(obj, p)
	case shape.KindList, shape.KindArray:
		err = st.populateList(obj, p)
	case shape.KindTuple:
		err = st.populateTuple(obj, p)
	case shape.KindEnum:
		err = st.populateEnum(obj, s, variant, payload)
	case shape.KindStruct:
		err = st.populateStruct(obj, p)
	default:
		err = st.reflectErr(s, "shape does not marshal as an object")
	}
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (st *state) remember(key *ptrKey, obj *goja.Object) {
	if key != nil {
		st.seen[*key] = obj
	}
}
