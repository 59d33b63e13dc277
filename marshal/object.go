package marshal

import (
	"reflect"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/shape"
)

// CustomConstructor creates the object for a value. field is the struct
// field holding the value, or nil. The engine populates the returned
// object afterwards.
type CustomConstructor func(rt *goja.Runtime, p cursor.Peek, field *shape.Field) (*goja.Object, error)

type strategy uint8

const (
	strategyPrototype strategy = iota
	strategyConstructor
	strategyTemplate
	strategyCustom
)

var strategyNames = [...]string{
	strategyPrototype:   "prototype",
	strategyConstructor: "constructor",
	strategyTemplate:    "template",
	strategyCustom:      "custom",
}

func (s strategy) String() string { return strategyNames[s] }

type constructor struct {
	object   *goja.Object
	fn       goja.Value
	custom   CustomConstructor
	strategy strategy
}

// Constructors maps Go types to the way their JS objects are created. A
// Constructors value is not safe for concurrent registration.
type Constructors struct {
	compiler *shape.Compiler
	entries  map[reflect.Type]constructor
}

var emptyConstructors = &Constructors{}

// NewConstructors returns an empty table validated against the default
// shape compiler.
func NewConstructors() *Constructors {
	return NewConstructorsWithCompiler(shape.Default())
}

// NewConstructorsWithCompiler returns an empty registry that validates
// registrations against shapes compiled by c.
func NewConstructorsWithCompiler(c *shape.Compiler) *Constructors {
	return &Constructors{
		compiler: c,
		entries:  make(map[reflect.Type]constructor),
	}
}

// WithPrototype creates values of t with Object.create(proto).
func (c *Constructors) WithPrototype(t reflect.Type, proto *goja.Object) error {
	return c.register(t, constructor{strategy: strategyPrototype, object: proto})
}

// WithConstructor creates values of t with new fn(), or new fn(length) for
// lists, arrays and tuples.
func (c *Constructors) WithConstructor(t reflect.Type, fn goja.Value) error {
	if _, ok := goja.AssertConstructor(fn); !ok {
		return errors.New(errors.PhaseRegister, errors.KindReflect).
			GoType(typeString(t)).
			Detail("value is not a constructor").
			Build()
	}
	return c.register(t, constructor{strategy: strategyConstructor, fn: fn})
}

// WithTemplate creates values of t as copies of tmpl: same prototype, same
// own enumerable properties.
func (c *Constructors) WithTemplate(t reflect.Type, tmpl *goja.Object) error {
	return c.register(t, constructor{strategy: strategyTemplate, object: tmpl})
}

// WithCustom creates values of t with fn.
func (c *Constructors) WithCustom(t reflect.Type, fn CustomConstructor) error {
	return c.register(t, constructor{strategy: strategyCustom, custom: fn})
}

// RegisterPrototype is WithPrototype for T.
func RegisterPrototype[T any](c *Constructors, proto *goja.Object) error {
	return c.WithPrototype(reflect.TypeFor[T](), proto)
}

// RegisterConstructor is WithConstructor for T.
func RegisterConstructor[T any](c *Constructors, fn goja.Value) error {
	return c.WithConstructor(reflect.TypeFor[T](), fn)
}

// RegisterTemplate is WithTemplate for T.
func RegisterTemplate[T any](c *Constructors, tmpl *goja.Object) error {
	return c.WithTemplate(reflect.TypeFor[T](), tmpl)
}

// RegisterCustom is WithCustom for T.
func RegisterCustom[T any](c *Constructors, fn CustomConstructor) error {
	return c.WithCustom(reflect.TypeFor[T](), fn)
}

// register validates that t becomes an object and stores the entry under
// the object type behind any option or pointer wrappers. A later
// registration for the same type replaces the earlier one.
func (c *Constructors) register(t reflect.Type, ctor constructor) error {
	if c.entries == nil {
		return errors.New(errors.PhaseRegister, errors.KindReflect).
			GoType(typeString(t)).
			Detail("constructors table was not created with NewConstructors").
			Build()
	}
	s, err := c.compiler.Compile(t)
	if err != nil {
		return err
	}
	if !s.WillMarshalAsObject() {
		return errors.Reflect(errors.PhaseRegister, nil, s.String(),
			"type does not marshal as an object; no constructor can apply")
	}
	for s.Kind == shape.KindOption || s.Kind == shape.KindPointer {
		s = s.Elem
	}

	c.entries[s.Type] = ctor
	Logger().Debug("registered constructor",
		zap.Stringer("type", s.Type),
		zap.Stringer("strategy", ctor.strategy))
	return nil
}

func (c *Constructors) lookup(t reflect.Type) (constructor, bool) {
	ctor, ok := c.entries[t]
	return ctor, ok
}

func (c *Constructors) has(t reflect.Type) bool {
	_, ok := c.entries[t]
	return ok
}

// Len returns the number of registered types.
func (c *Constructors) Len() int { return len(c.entries) }

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// construct creates the empty JS object for p.
func (st *state) construct(p cursor.Peek, field *shape.Field) (*goja.Object, error) {
	s := p.Shape()
	if ctor, ok := st.ctors.lookup(s.Type); ok {
		return st.build(ctor, p, field)
	}

	var (
		obj *goja.Object
		err error
	)
	switch s.Kind {
	case shape.KindMap:
		obj, err = st.scope.NewMap()
	case shape.KindSet:
		obj, err = st.scope.NewSet()
	case shape.KindList, shape.KindArray:
		obj, err = st.scope.NewArray(p.Len())
	case shape.KindTuple:
		obj, err = st.scope.NewArray(len(s.Fields))
	default:
		obj = st.scope.NewObject()
	}
	if err != nil {
		return nil, st.exception(err)
	}
	return obj, nil
}

func (st *state) build(ctor constructor, p cursor.Peek, field *shape.Field) (*goja.Object, error) {
	s := p.Shape()
	var (
		obj *goja.Object
		err error
	)
	switch ctor.strategy {
	case strategyPrototype:
		obj = st.scope.Create(ctor.object)
	case strategyTemplate:
		obj, err = st.scope.Clone(ctor.object)
	case strategyConstructor:
		switch s.Kind {
		case shape.KindList, shape.KindArray:
			obj, err = st.scope.Construct(ctor.fn, st.rt().ToValue(p.Len()))
		case shape.KindTuple:
			obj, err = st.scope.Construct(ctor.fn, st.rt().ToValue(len(s.Fields)))
		default:
			obj, err = st.scope.Construct(ctor.fn)
		}
	case strategyCustom:
		obj, err = ctor.custom(st.rt(), p, field)
		if err == nil && obj == nil {
			return nil, st.reflectErr(s, "custom constructor returned no object")
		}
	}
	if err != nil {
		return nil, errors.New(st.phase, errors.KindException).
			Path(st.where()...).
			GoType(s.String()).
			Detail("%s constructor failed", ctor.strategy).
			Cause(err).
			Build()
	}
	return obj, nil
}

// populateStruct sets one property per field, in declaration order.
func (st *state) populateStruct(obj *goja.Object, p cursor.Peek) error {
	fields := p.Shape().Fields
	for i := range fields {
		f := &fields[i]
		fv := p.Field(i)
		if f.Has(shape.FlagOmitEmpty) && fv.IsZero() {
			continue
		}
		st.push(f.Name)
		v, err := st.marshalValue(fv, f)
		if err != nil {
			return err
		}
		if err := obj.Set(f.Name, v); err != nil {
			return st.exception(err)
		}
		st.pop()
	}
	return nil
}

// unmarshalStruct reads the object's own enumerable keys. Unknown keys are
// ignored; fields without a key are filled from defaults where possible.
func (st *state) unmarshalStruct(v goja.Value, p *cursor.Partial) error {
	obj, ok := v.(*goja.Object)
	if !ok {
		return st.unexpected(p.Shape(), v)
	}

	for _, key := range obj.Keys() {
		idx := p.FieldIndex(key)
		if idx < 0 {
			continue
		}
		st.push(key)
		if err := st.child(obj.Get(key), p, func() error { return p.BeginNthField(idx) }); err != nil {
			return err
		}
		st.pop()
	}
	return p.FillUnsetFromDefaults()
}
