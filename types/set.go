package types

import (
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
)

// Set is an unordered collection of distinct values. The zero value is an
// empty set ready to use.
type Set[T comparable] struct {
	items mapset.Set[T]
}

// Collection is implemented by every Set instantiation.
type Collection interface {
	Len() int
	ElemType() reflect.Type
}

// NewSet returns a set holding items.
func NewSet[T comparable](items ...T) Set[T] {
	return Set[T]{items: mapset.NewThreadUnsafeSet(items...)}
}

// Add inserts v and reports whether it was absent.
func (s *Set[T]) Add(v T) bool {
	if s.items == nil {
		s.items = mapset.NewThreadUnsafeSet[T]()
	}
	return s.items.Add(v)
}

// Contains reports whether v is in the set.
func (s Set[T]) Contains(v T) bool {
	return s.items != nil && s.items.ContainsOne(v)
}

// Len returns the number of elements.
func (s Set[T]) Len() int {
	if s.items == nil {
		return 0
	}
	return s.items.Cardinality()
}

// Items returns the elements in unspecified order.
func (s Set[T]) Items() []T {
	if s.items == nil {
		return nil
	}
	return s.items.ToSlice()
}

// Equal reports whether both sets hold the same elements.
func (s Set[T]) Equal(other Set[T]) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s.Len() == 0 {
		return true
	}
	return s.items.Equal(other.items)
}

// ElemType returns the reflect type of the elements.
func (Set[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }
