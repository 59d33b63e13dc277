package marshal

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/shape"
)

func (st *state) populateMap(obj *goja.Object, p cursor.Peek) error {
	for _, e := range p.Entries() {
		st.push("[" + fmt.Sprint(e.Key.Value().Interface()) + "]")
		k, err := st.marshalValue(e.Key, nil)
		if err != nil {
			return err
		}
		v, err := st.marshalValue(e.Value, nil)
		if err != nil {
			return err
		}
		if err := st.scope.MapSet(obj, k, v); err != nil {
			return st.exception(err)
		}
		st.pop()
	}
	return nil
}

func (st *state) populateSet(obj *goja.Object, p cursor.Peek) error {
	for i, item := range p.Items() {
		st.pushIndex(i)
		v, err := st.marshalValue(item, nil)
		if err != nil {
			return err
		}
		if err := st.scope.SetAdd(obj, v); err != nil {
			return st.exception(err)
		}
		st.pop()
	}
	return nil
}

// unmarshalMap reads a Map. Maps with string keys also accept a plain
// object, read by its own enumerable keys.
func (st *state) unmarshalMap(v goja.Value, p *cursor.Partial) error {
	s := p.Shape()
	obj, ok := v.(*goja.Object)
	if !ok {
		return st.unexpected(s, v)
	}

	if st.scope.IsMap(obj) {
		return st.scope.Entries(obj, func(key, value goja.Value) error {
			return st.entry(key, value, p)
		})
	}

	if s.Key.Kind != shape.KindScalar || s.Key.Scalar != shape.ScalarString ||
		st.scope.IsArray(obj) || st.scope.IsSet(obj) {
		return st.unexpected(s, v)
	}
	rt := st.rt()
	for _, key := range obj.Keys() {
		if err := st.entry(rt.ToValue(key), obj.Get(key), p); err != nil {
			return err
		}
	}
	return nil
}

func (st *state) entry(key, value goja.Value, p *cursor.Partial) error {
	st.push("[" + key.String() + "]")
	if err := st.child(key, p, p.BeginKey); err != nil {
		return err
	}
	if err := st.child(value, p, p.BeginValue); err != nil {
		return err
	}
	st.pop()
	return nil
}

// unmarshalSet reads a Set or an Array.
func (st *state) unmarshalSet(v goja.Value, p *cursor.Partial) error {
	s := p.Shape()
	obj, ok := v.(*goja.Object)
	if !ok || !(st.scope.IsSet(obj) || st.scope.IsArray(obj)) {
		return st.unexpected(s, v)
	}

	i := 0
	return st.scope.Each(obj, func(item goja.Value) error {
		st.pushIndex(i)
		if err := st.child(item, p, p.BeginSetItem); err != nil {
			return err
		}
		st.pop()
		i++
		return nil
	})
}
