package shape

import (
	"reflect"

	"github.com/wippyai/jsbridge/types"
)

// Flag is a per-field attribute read from the js struct tag.
type Flag uint8

const (
	FlagTypedArray Flag = 1 << iota // render as a fixed-width typed array
	FlagDefault                     // may be absent; filled from defaults
	FlagOmitEmpty                   // skip zero values when marshalling
)

// Field is a struct or tuple member.
type Field struct {
	Shape  *Shape
	Name   string // JS property name
	GoName string
	Index  int
	Flags  Flag
}

// Has reports whether the field carries flag.
func (f *Field) Has(flag Flag) bool {
	return f != nil && f.Flags&flag != 0
}

// VariantKind describes the payload of an enum variant.
type VariantKind uint8

const (
	VariantUnit VariantKind = iota
	VariantTuple
	VariantStruct
)

// Variant is one alternative of an enum shape.
type Variant struct {
	// Type is the concrete type held by a union interface; nil for
	// integer-backed enums.
	Type reflect.Type
	// Payload is the struct or tuple shape of the variant; nil for unit
	// variants.
	Payload      *Shape
	Name         string
	Discriminant int64
	Kind         VariantKind
	// Indirect is set when Type is a pointer to the payload struct.
	Indirect bool
}

// Fields returns the payload fields, empty for unit variants.
func (v *Variant) Fields() []Field {
	if v.Payload == nil {
		return nil
	}
	return v.Payload.Fields
}

// EnumInfo carries the variant table and tag convention of an enum shape.
type EnumInfo struct {
	Tag      string
	Variants []Variant
	Repr     types.TagRepr
	// Union is set for interface-backed enums.
	Union bool
}

// UnitOnly reports whether no variant carries a payload.
func (e *EnumInfo) UnitOnly() bool {
	for i := range e.Variants {
		if e.Variants[i].Kind != VariantUnit {
			return false
		}
	}
	return true
}

// ByName finds a variant by name.
func (e *EnumInfo) ByName(name string) (*Variant, bool) {
	for i := range e.Variants {
		if e.Variants[i].Name == name {
			return &e.Variants[i], true
		}
	}
	return nil, false
}

// ByDiscriminant finds a variant by discriminant.
func (e *EnumInfo) ByDiscriminant(d int64) (*Variant, bool) {
	for i := range e.Variants {
		if e.Variants[i].Discriminant == d {
			return &e.Variants[i], true
		}
	}
	return nil, false
}

// ByType finds the union variant held as concrete type t.
func (e *EnumInfo) ByType(t reflect.Type) (*Variant, bool) {
	for i := range e.Variants {
		if e.Variants[i].Type == t {
			return &e.Variants[i], true
		}
	}
	return nil, false
}

// Shape describes a Go type for the marshalling engine. Shapes are
// immutable once returned by a Compiler and may reference each other
// cyclically.
type Shape struct {
	Type   reflect.Type
	Elem   *Shape
	Key    *Shape
	Enum   *EnumInfo
	Fields []Field
	Len    int
	Kind   Kind
	Scalar ScalarType
	// HasDefault is set when *Type implements types.Defaulter.
	HasDefault bool
}

func (s *Shape) String() string {
	if s == nil || s.Type == nil {
		return "<nil>"
	}
	return s.Type.String()
}

// FieldIndex returns the position of the field with JS name, or -1.
func (s *Shape) FieldIndex(name string) int {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// IsUnitOnlyEnum reports whether the shape marshals as a bare tag.
func (s *Shape) IsUnitOnlyEnum() bool {
	return s.Kind == KindEnum && s.Enum.UnitOnly()
}

// maxIndirections bounds the walk through option and pointer wrappers so
// that self-referential pointer types terminate.
const maxIndirections = 32

// WillMarshalAsObject reports whether values of this shape become JS
// objects. The answer depends only on the shape and is shared by both
// directions and by constructor registration.
func (s *Shape) WillMarshalAsObject() bool {
	for range maxIndirections {
		switch s.Kind {
		case KindOption, KindPointer:
			s = s.Elem
		case KindList, KindArray, KindMap, KindSet, KindStruct, KindTuple:
			return true
		case KindEnum:
			return !s.Enum.UnitOnly()
		default:
			return false
		}
	}
	return false
}
