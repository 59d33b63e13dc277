package marshal

import (
	"github.com/dop251/goja"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/host"
	"github.com/wippyai/jsbridge/shape"
	"github.com/wippyai/jsbridge/types"
)

// tagValue renders the tag of v per the enum's representation.
func (st *state) tagValue(info *shape.EnumInfo, v *shape.Variant) goja.Value {
	if info.Repr == types.ReprNumber {
		return st.rt().ToValue(v.Discriminant)
	}
	return st.rt().ToValue(v.Name)
}

// marshalUnitEnum writes a unit-only enum as its bare tag.
func (st *state) marshalUnitEnum(p cursor.Peek) (goja.Value, error) {
	s := p.Shape()
	v, _, ok := p.Variant()
	if !ok {
		if s.Enum.Union && p.Value().IsNil() {
			return goja.Null(), nil
		}
		return nil, errors.Variant(st.phase, st.where(), s.String(), p.Value().Interface())
	}
	return st.tagValue(s.Enum, v), nil
}

// populateEnum writes the tag first and then the payload. Payload keys may
// not collide with the tag.
func (st *state) populateEnum(obj *goja.Object, s *shape.Shape, v *shape.Variant, payload cursor.Peek) error {
	tag := s.Enum.Tag
	if err := obj.Set(tag, st.tagValue(s.Enum, v)); err != nil {
		return st.exception(err)
	}

	fields := v.Fields()
	for i := range fields {
		f := &fields[i]
		if f.Name == tag {
			return errors.ClobberedTag(append(st.where(), v.Name), s.String(), tag)
		}
		st.push(f.Name)
		fv := payload.Field(i)
		if f.Has(shape.FlagOmitEmpty) && fv.IsZero() {
			st.pop()
			continue
		}
		val, err := st.marshalValue(fv, f)
		if err != nil {
			return err
		}
		if err := obj.Set(f.Name, val); err != nil {
			return st.exception(err)
		}
		st.pop()
	}
	return nil
}

// unmarshalEnum accepts a bare tag or an object carrying the tag property.
// In the object form integer keys address tuple payload positions; the tag
// key and unknown keys are ignored.
func (st *state) unmarshalEnum(v goja.Value, p *cursor.Partial) error {
	s := p.Shape()
	info := s.Enum

	if host.IsNullish(v) {
		if info.Union {
			return p.SetNone()
		}
		return st.unexpected(s, v)
	}

	obj, isObject := v.(*goja.Object)
	if !isObject {
		if err := st.selectVariant(s, v, p); err != nil {
			return err
		}
		return st.fillPayload(p)
	}

	tagged := obj.Get(info.Tag)
	if tagged == nil || goja.IsUndefined(tagged) {
		return errors.New(st.phase, errors.KindReflect).
			Path(st.where()...).
			GoType(s.String()).
			JSType(st.scope.TypeOf(v)).
			Detail("enum object must have a %q field", info.Tag).
			Build()
	}
	if err := st.selectVariant(s, tagged, p); err != nil {
		return err
	}

	if p.Variant().Payload != nil {
		for _, key := range obj.Keys() {
			if key == info.Tag {
				continue
			}
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
	}
	return st.fillPayload(p)
}

func (st *state) fillPayload(p *cursor.Partial) error {
	if v := p.Variant(); v == nil || v.Payload == nil {
		return nil
	}
	return p.FillUnsetFromDefaults()
}

// selectVariant picks the variant named by a string tag or numbered by a
// numeric one.
func (st *state) selectVariant(s *shape.Shape, tag goja.Value, p *cursor.Partial) error {
	switch {
	case goja.IsString(tag):
		name := tag.String()
		if _, ok := s.Enum.ByName(name); !ok {
			return errors.Variant(st.phase, st.where(), s.String(), name)
		}
		return p.SelectVariantNamed(name)

	case goja.IsNumber(tag), goja.IsBigInt(tag):
		n, err := st.integer(s, tag)
		if err != nil {
			return err
		}
		if !n.IsInt64() {
			return errors.Variant(st.phase, st.where(), s.String(), n.String())
		}
		disc := n.Int64()
		if _, ok := s.Enum.ByDiscriminant(disc); !ok {
			return errors.Variant(st.phase, st.where(), s.String(), disc)
		}
		return p.SelectVariant(disc)
	}
	return st.unexpected(s, tag)
}
