package host

import (
	"strconv"

	"github.com/dop251/goja"
)

// Scope caches the intrinsics of a runtime.
type Scope struct {
	rt *goja.Runtime

	object   *goja.Object
	array    *goja.Object
	mapCtor  *goja.Object
	setCtor  *goja.Object
	function *goja.Object

	mapSet goja.Callable
	setAdd goja.Callable

	typed [numTypedArrayKinds]*goja.Object
}

// NewScope captures the intrinsic constructors of rt. They are read once so
// that later changes to the global object do not affect marshalling.
func NewScope(rt *goja.Runtime) *Scope {
	s := &Scope{
		rt:       rt,
		object:   global(rt, "Object"),
		array:    global(rt, "Array"),
		mapCtor:  global(rt, "Map"),
		setCtor:  global(rt, "Set"),
		function: global(rt, "Function"),
	}
	s.mapSet = method(s.mapCtor, "set")
	s.setAdd = method(s.setCtor, "add")
	for k := range s.typed {
		s.typed[k] = global(rt, TypedArrayKind(k).String())
	}
	return s
}

func global(rt *goja.Runtime, name string) *goja.Object {
	obj, _ := rt.Get(name).(*goja.Object)
	return obj
}

func method(ctor *goja.Object, name string) goja.Callable {
	if ctor == nil {
		return nil
	}
	proto, _ := ctor.Get("prototype").(*goja.Object)
	if proto == nil {
		return nil
	}
	fn, _ := goja.AssertFunction(proto.Get(name))
	return fn
}

// Runtime returns the runtime the scope was created for.
func (s *Scope) Runtime() *goja.Runtime { return s.rt }

// Try runs fn and returns any JavaScript exception it throws.
func (s *Scope) Try(fn func()) error {
	if ex := s.rt.Try(fn); ex != nil {
		return ex
	}
	return nil
}

// NewObject returns a plain object.
func (s *Scope) NewObject() *goja.Object { return s.rt.NewObject() }

// Create returns a fresh object whose prototype is proto.
func (s *Scope) Create(proto *goja.Object) *goja.Object {
	return s.rt.CreateObject(proto)
}

// Clone returns a fresh object with the prototype of tmpl and a copy of its
// own enumerable string-keyed properties.
func (s *Scope) Clone(tmpl *goja.Object) (*goja.Object, error) {
	obj := s.rt.CreateObject(tmpl.Prototype())
	err := s.Try(func() {
		for _, key := range tmpl.Keys() {
			if err := obj.Set(key, tmpl.Get(key)); err != nil {
				panic(err)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Construct invokes ctor with new.
func (s *Scope) Construct(ctor goja.Value, args ...goja.Value) (*goja.Object, error) {
	return s.rt.New(ctor, args...)
}

// NewArray returns new Array(n).
func (s *Scope) NewArray(n int) (*goja.Object, error) {
	return s.rt.New(s.array, s.rt.ToValue(n))
}

// NewMap returns new Map().
func (s *Scope) NewMap() (*goja.Object, error) { return s.rt.New(s.mapCtor) }

// NewSet returns new Set().
func (s *Scope) NewSet() (*goja.Object, error) { return s.rt.New(s.setCtor) }

// SetIndex assigns obj[i] = v.
func (s *Scope) SetIndex(obj *goja.Object, i int, v goja.Value) error {
	return obj.Set(strconv.Itoa(i), v)
}

// MapSet calls Map.prototype.set on m.
func (s *Scope) MapSet(m *goja.Object, key, value goja.Value) error {
	_, err := s.mapSet(m, key, value)
	return err
}

// SetAdd calls Set.prototype.add on set.
func (s *Scope) SetAdd(set *goja.Object, item goja.Value) error {
	_, err := s.setAdd(set, item)
	return err
}

// IsArray reports whether v is an Array instance.
func (s *Scope) IsArray(v goja.Value) bool { return s.instanceOf(v, s.array) }

// IsMap reports whether v is a Map instance.
func (s *Scope) IsMap(v goja.Value) bool { return s.instanceOf(v, s.mapCtor) }

// IsSet reports whether v is a Set instance.
func (s *Scope) IsSet(v goja.Value) bool { return s.instanceOf(v, s.setCtor) }

func (s *Scope) instanceOf(v goja.Value, ctor *goja.Object) bool {
	if _, ok := v.(*goja.Object); !ok || ctor == nil {
		return false
	}
	return s.rt.InstanceOf(v, ctor)
}

// Length reads the length property of an array-like object.
func (s *Scope) Length(obj *goja.Object) int {
	return int(obj.Get("length").ToInteger())
}

// Index reads obj[i].
func (s *Scope) Index(obj *goja.Object, i int) goja.Value {
	return obj.Get(strconv.Itoa(i))
}

// Each iterates an iterable, stopping early when step returns an error.
func (s *Scope) Each(iterable goja.Value, step func(goja.Value) error) error {
	var stepErr error
	err := s.Try(func() {
		s.rt.ForOf(iterable, func(v goja.Value) bool {
			stepErr = step(v)
			return stepErr == nil
		})
	})
	if stepErr != nil {
		return stepErr
	}
	return err
}

// Entries iterates the [key, value] pairs of a Map.
func (s *Scope) Entries(m *goja.Object, step func(key, value goja.Value) error) error {
	return s.Each(m, func(entry goja.Value) error {
		pair := entry.ToObject(s.rt)
		return step(pair.Get("0"), pair.Get("1"))
	})
}
