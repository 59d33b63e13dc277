package types

import "reflect"

// Optional represents an optional value without pointer indirection.
type Optional[T any] struct {
	Value T
	Has   bool
}

// Nullable is implemented by every Optional instantiation.
type Nullable interface {
	IsSome() bool
	ElemType() reflect.Type
}

// Some returns an Optional containing a value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Has: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr converts a pointer to an Optional.
func FromPtr[T any](v *T) Optional[T] {
	if v == nil {
		return None[T]()
	}
	return Some(*v)
}

// IsSome reports whether the optional contains a value.
func (o Optional[T]) IsSome() bool { return o.Has }

// Get returns the contained value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.Value, o.Has }

// UnwrapOr returns the contained value or a default.
func (o Optional[T]) UnwrapOr(defaultValue T) T {
	if o.Has {
		return o.Value
	}
	return defaultValue
}

// ElemType returns the reflect type of the contained value.
func (Optional[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }
