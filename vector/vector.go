// Package vector implements a contiguous growable array whose growth and
// shifting strategy is chosen from the element class (see package traits),
// and an inline variant that keeps small contents inside the object itself.
//
// Pointers and slices obtained from a Vector (At, Front, Data, PushBack...)
// are invalidated by any later call which may reallocate or shift elements.
// A Vector is not safe for concurrent use.
package vector

import (
	"iter"
	"math"
	"unsafe"

	"github.com/cockroachdb/errors"

	"github.com/aglyzov/go-flat/traits"
)

// MaxCapacity is the largest number of elements a Vector can hold.
const MaxCapacity = math.MaxInt32

// ErrCapacityOverflow is returned when a buffer larger than MaxCapacity is
// requested. The vector is left unchanged.
var ErrCapacityOverflow = errors.New("vector: capacity overflow")

// Vector is a growable array. The zero value is an empty vector ready to use.
type Vector[T any] struct {
	memory   []T    // len(memory) == |capacity|
	count    uint32 // number of live elements
	capacity int32  // negative when memory is a static buffer which is never released
	static   []T    // inline buffer to fall back to after ClearAndShrink (InlineVector only)
	reallocs int    // re-allocations, the first allocation is not counted
	class    traits.Class
	classed  bool
}

// New returns a new Vector holding the given items.
func New[T any](items ...T) *Vector[T] {
	return Init(&Vector[T]{}, items...)
}

// Init (re)initializes a Vector in place with the given items.
func Init[T any](v *Vector[T], items ...T) *Vector[T] {
	*v = Vector[T]{}
	v.Append(items...)
	return v
}

func (v *Vector[T]) Len() int {
	return int(v.count)
}

func (v *Vector[T]) Empty() bool {
	return v.count == 0
}

// Cap returns the number of elements the current buffer can hold.
func (v *Vector[T]) Cap() int {
	if v.capacity < 0 {
		return int(-v.capacity)
	}
	return int(v.capacity)
}

// IsStaticBuffer reports whether the vector currently uses a buffer it does
// not own (the inline buffer of an InlineVector).
func (v *Vector[T]) IsStaticBuffer() bool {
	return v.capacity < 0
}

// Reallocs returns the number of buffer re-allocations so far.
func (v *Vector[T]) Reallocs() int {
	return v.reallocs
}

// Class returns the element classification driving the algorithms.
func (v *Vector[T]) Class() traits.Class {
	if !v.classed {
		v.class = traits.Of[T]()
		v.classed = true
	}
	return v.class
}

// Data returns the live elements as a slice sharing the vector's buffer.
func (v *Vector[T]) Data() []T {
	return v.memory[:v.count:v.count]
}

// At returns a pointer to the i-th element. It panics when i is out of range.
func (v *Vector[T]) At(i int) *T {
	v.checkIndex(i)
	return &v.memory[i]
}

// Get returns a copy of the i-th element.
func (v *Vector[T]) Get(i int) T {
	v.checkIndex(i)
	return v.memory[i]
}

// Set replaces the i-th element.
func (v *Vector[T]) Set(i int, val T) {
	v.checkIndex(i)
	v.memory[i] = val
}

func (v *Vector[T]) Front() *T {
	return v.At(0)
}

func (v *Vector[T]) Back() *T {
	return v.At(int(v.count) - 1)
}

// ForEach calls fn for every element in order. Returning true from fn stops
// the iteration.
func (v *Vector[T]) ForEach(fn func(i int, val *T) bool) {
	for i := 0; i < int(v.count); i++ {
		if fn(i, &v.memory[i]) {
			return
		}
	}
}

// All returns an iterator over (index, element pointer) pairs.
func (v *Vector[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < int(v.count); i++ {
			if !yield(i, &v.memory[i]) {
				return
			}
		}
	}
}

// Backward returns an iterator over the elements from back to front.
func (v *Vector[T]) Backward() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := int(v.count) - 1; i >= 0; i-- {
			if !yield(i, &v.memory[i]) {
				return
			}
		}
	}
}

// Equal reports whether two vectors hold equal elements in the same order.
func Equal[T comparable](a, b *Vector[T]) bool {
	if a.count != b.count {
		return false
	}
	for i, x := range a.Data() {
		if x != b.memory[i] {
			return false
		}
	}
	return true
}

// EqualFunc is like Equal with a custom element comparison.
func EqualFunc[T any](a, b *Vector[T], eq func(x, y *T) bool) bool {
	if a.count != b.count {
		return false
	}
	for i := 0; i < int(a.count); i++ {
		if !eq(&a.memory[i], &b.memory[i]) {
			return false
		}
	}
	return true
}

func (v *Vector[T]) checkIndex(i int) {
	if i < 0 || i >= int(v.count) {
		panic(errors.AssertionFailedf("vector: index %d out of range [0:%d)", i, v.count))
	}
}

// elementWidth is the byte width used by the growth policy.
func elementWidth[T any]() uintptr {
	var zero T
	if w := unsafe.Sizeof(zero); w > 0 {
		return w
	}
	return 1
}
