package types

import "reflect"

// DefaultTag is the property that carries the variant of a payload enum.
const DefaultTag = "type"

// TagRepr selects how a variant tag is written.
type TagRepr uint8

const (
	ReprString TagRepr = iota // variant name
	ReprNumber                // variant discriminant
)

func (r TagRepr) String() string {
	if r == ReprNumber {
		return "number"
	}
	return "string"
}

// Variant describes one alternative of an enum.
//
// For integer-backed enums Type is nil and Discriminant is the integer value.
// For unions Type is the concrete type stored in the interface: a zero-field
// struct is a unit variant, a struct embedding Tuple is positional, any other
// struct has named fields.
type Variant struct {
	Type         reflect.Type
	Name         string
	Discriminant int64
}

// EnumDef configures how an enum marshals.
type EnumDef struct {
	// Tag names the tag property. Empty means DefaultTag.
	Tag      string
	Variants []Variant
	Repr     TagRepr
}

// TagName returns the effective tag property name.
func (d EnumDef) TagName() string {
	if d.Tag == "" {
		return DefaultTag
	}
	return d.Tag
}

// Enum is implemented by integer types that act as unit-only enums.
//
//	type Color uint8
//
//	func (Color) JSEnum() types.EnumDef {
//		return types.EnumDef{Variants: []types.Variant{
//			{Name: "Red", Discriminant: 0},
//			{Name: "Green", Discriminant: 1},
//		}}
//	}
type Enum interface {
	JSEnum() EnumDef
}

// Unit declares a variant without a Go payload type, for integer-backed enums.
func Unit(name string, discriminant int64) Variant {
	return Variant{Name: name, Discriminant: discriminant}
}

// VariantOf declares a union variant carried by values of type V.
func VariantOf[V any](name string, discriminant int64) Variant {
	return Variant{Name: name, Discriminant: discriminant, Type: reflect.TypeFor[V]()}
}
