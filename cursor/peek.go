package cursor

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/wippyai/jsbridge/shape"
)

// Peek is a read-only view of a Go value and its shape.
type Peek struct {
	shape *shape.Shape
	value reflect.Value
}

// Entry is one key/value pair of a map.
type Entry struct {
	Key   Peek
	Value Peek
}

// NewPeek pairs v with its shape. v must have type s.Type.
func NewPeek(s *shape.Shape, v reflect.Value) Peek {
	return Peek{shape: s, value: v}
}

func (p Peek) Shape() *shape.Shape  { return p.shape }
func (p Peek) Value() reflect.Value { return p.value }

// IsZero reports whether the value is the zero value of its type.
func (p Peek) IsZero() bool { return p.value.IsZero() }

// Field returns the i-th field of a struct or tuple shape.
func (p Peek) Field(i int) Peek {
	f := &p.shape.Fields[i]
	return Peek{shape: f.Shape, value: p.value.Field(f.Index)}
}

// Len returns the element count of a list or array.
func (p Peek) Len() int { return p.value.Len() }

// Index returns the i-th element of a list or array.
func (p Peek) Index(i int) Peek {
	return Peek{shape: p.shape.Elem, value: p.value.Index(i)}
}

// Option returns the contained value of an optional and whether it is set.
func (p Peek) Option() (Peek, bool) {
	if !p.value.Field(1).Bool() {
		return Peek{}, false
	}
	return Peek{shape: p.shape.Elem, value: p.value.Field(0)}, true
}

// Pointee dereferences a pointer, reporting false for nil.
func (p Peek) Pointee() (Peek, bool) {
	if p.value.IsNil() {
		return Peek{}, false
	}
	return Peek{shape: p.shape.Elem, value: p.value.Elem()}, true
}

// Addr returns the address a pointer refers to.
func (p Peek) Addr() uintptr { return p.value.Pointer() }

// Dynamic returns the value held by an interface, or false when it is nil.
func (p Peek) Dynamic() (reflect.Value, bool) {
	if p.value.IsNil() {
		return reflect.Value{}, false
	}
	return p.value.Elem(), true
}

// Entries returns the pairs of a map, ordered by key when keys are ordered.
func (p Peek) Entries() []Entry {
	keys := p.value.MapKeys()
	sortValues(keys)
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{
			Key:   Peek{shape: p.shape.Key, value: k},
			Value: Peek{shape: p.shape.Elem, value: p.value.MapIndex(k)},
		}
	}
	return entries
}

// Items returns the elements of a set, ordered when elements are ordered.
func (p Peek) Items() []Peek {
	var items []reflect.Value
	if p.value.Kind() == reflect.Map {
		items = p.value.MapKeys()
	} else {
		slice := p.value.MethodByName("Items").Call(nil)[0]
		items = make([]reflect.Value, slice.Len())
		for i := range items {
			items[i] = slice.Index(i)
		}
	}
	sortValues(items)
	peeks := make([]Peek, len(items))
	for i, v := range items {
		peeks[i] = Peek{shape: p.shape.Elem, value: v}
	}
	return peeks
}

// Variant returns the active variant of an enum and, for payload variants,
// a peek at the payload struct. It reports false when the value matches no
// declared variant or a union interface is nil.
func (p Peek) Variant() (*shape.Variant, Peek, bool) {
	info := p.shape.Enum
	if !info.Union {
		var disc int64
		if p.value.CanInt() {
			disc = p.value.Int()
		} else {
			disc = int64(p.value.Uint())
		}
		v, ok := info.ByDiscriminant(disc)
		return v, Peek{}, ok
	}

	if p.value.IsNil() {
		return nil, Peek{}, false
	}
	concrete := p.value.Elem()
	v, ok := info.ByType(concrete.Type())
	if !ok {
		return nil, Peek{}, false
	}
	if v.Payload == nil {
		return v, Peek{}, true
	}
	if v.Indirect {
		if concrete.IsNil() {
			return nil, Peek{}, false
		}
		concrete = concrete.Elem()
	}
	return v, Peek{shape: v.Payload, value: concrete}, true
}

// sortValues orders values of basic kinds; other kinds keep their order.
func sortValues(vs []reflect.Value) {
	if len(vs) < 2 {
		return
	}
	switch vs[0].Kind() {
	case reflect.String:
		slices.SortFunc(vs, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(vs, func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		slices.SortFunc(vs, func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) })
	case reflect.Float32, reflect.Float64:
		slices.SortFunc(vs, func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) })
	}
}
