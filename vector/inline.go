package vector

import (
	"reflect"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// InlineVector is a Vector with an inline buffer of B, which must be an
// array type [N]T with N > 0. Up to N elements live inside the object; once
// the content outgrows the buffer it moves to the heap and only comes back
// after ClearAndShrink.
//
// An InlineVector must be created with NewInline or InitInline and must not
// be copied afterwards.
type InlineVector[T any, B any] struct {
	Vector[T]
	buf B
}

// NewInline returns an InlineVector holding the given items.
func NewInline[T any, B any](items ...T) *InlineVector[T, B] {
	return InitInline(&InlineVector[T, B]{}, items...)
}

// InitInline (re)initializes an InlineVector in place with the given items.
func InitInline[T any, B any](v *InlineVector[T, B], items ...T) *InlineVector[T, B] {
	n := inlineSlots[T, B]()

	*v = InlineVector[T, B]{}
	InitBuffer(&v.Vector, unsafe.Slice((*T)(unsafe.Pointer(&v.buf)), n), items...)

	return v
}

// InitBuffer (re)initializes v over buf, which then serves as its inline
// buffer: v keeps up to len(buf) elements there, moves to the heap when it
// outgrows it and comes back after ClearAndShrink. buf must be non-empty
// and must not be used by anything else afterwards.
func InitBuffer[T any](v *Vector[T], buf []T, items ...T) *Vector[T] {
	switch n := len(buf); {
	case n == 0:
		panic(errors.AssertionFailedf("vector: empty inline buffer"))
	case n > MaxCapacity:
		panic(errors.Wrapf(ErrCapacityOverflow, "inline buffer of %d elements", n))
	}

	buf = buf[:len(buf):len(buf)]
	clear(buf)

	*v = Vector[T]{}
	v.static = buf
	v.memory = buf
	v.capacity = -int32(len(buf))

	v.Append(items...)
	return v
}

// InlineCap returns the capacity of the inline buffer.
func (v *InlineVector[T, B]) InlineCap() int {
	return len(v.static)
}

// inlineSlots validates B against T and returns its length.
func inlineSlots[T any, B any]() int {
	var (
		typ  = reflect.TypeFor[B]()
		elem = reflect.TypeFor[T]()
	)

	if typ.Kind() != reflect.Array || typ.Elem() != elem || typ.Len() == 0 {
		panic(errors.AssertionFailedf("vector: inline buffer %v is not a non-empty array of %v", typ, elem))
	}
	if typ.Len() > MaxCapacity {
		panic(errors.Wrapf(ErrCapacityOverflow, "inline buffer of %d elements", typ.Len()))
	}
	return typ.Len()
}
