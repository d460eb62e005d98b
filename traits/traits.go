// Package traits classifies element types so that containers can pick the
// cheapest way to grow, shift and release their storage.
//
// Go values can always be relocated with a plain memory copy, so a type only
// loses that property when it asks for a MoveFrom hook. The hooks are:
//
//   - Destroyer  - Destroy() is called when an element leaves a container;
//   - Mover[T]   - MoveFrom(src) replaces the plain copy on relocation;
//   - Copier[T]  - CopyFrom(src) replaces the plain copy on duplication.
//
// A type with none of the hooks is Trivial. A type with a MoveFrom hook may
// still declare itself relocatable (or destructible after a move) with the
// marker interfaces, or answer the whole question with a Classifier.
package traits

import (
	"reflect"
	"sync"
)

// Class is the classification of an element type.
type Class struct {
	// Trivial types have no lifecycle hooks at all.
	Trivial bool
	// TriviallyRelocatable types may be moved with a bulk copy, skipping
	// both MoveFrom and Destroy on the vacated source.
	TriviallyRelocatable bool
	// TriviallyDestructibleAfterMove types need no Destroy call on a
	// moved-from source.
	TriviallyDestructibleAfterMove bool
	// HasPointers is set when the type holds references the GC must see,
	// in which case vacated slots are zeroed.
	HasPointers bool
}

type Destroyer interface {
	Destroy()
}

type Mover[T any] interface {
	MoveFrom(src *T)
}

type Copier[T any] interface {
	CopyFrom(src *T)
}

// Relocatable is an opt-in marker for hook-carrying types.
type Relocatable interface {
	TriviallyRelocatable() bool
}

// DestructibleAfterMove is an opt-in marker for hook-carrying types whose
// moved-from state owns nothing.
type DestructibleAfterMove interface {
	TriviallyDestructibleAfterMove() bool
}

// Classifier overrides the classification entirely. It is called on a
// pointer to the zero value.
type Classifier interface {
	Classify() Class
}

var classes sync.Map // reflect.Type -> Class

// Of returns the (cached) classification of T.
func Of[T any]() Class {
	typ := reflect.TypeFor[T]()

	if c, ok := classes.Load(typ); ok {
		return c.(Class)
	}

	c := classify[T](typ)
	classes.Store(typ, c)

	return c
}

func classify[T any](typ reflect.Type) Class {
	var (
		zero T
		ptr  any = &zero
	)

	if c, ok := ptr.(Classifier); ok {
		return c.Classify()
	}

	_, destroy := ptr.(Destroyer)
	_, move := ptr.(Mover[T])
	_, dup := ptr.(Copier[T])

	c := Class{
		Trivial:     !destroy && !move && !dup,
		HasPointers: HasPointers(typ),
	}
	c.TriviallyRelocatable = !move

	if r, ok := ptr.(Relocatable); ok && r.TriviallyRelocatable() {
		c.TriviallyRelocatable = true
	}

	c.TriviallyDestructibleAfterMove = c.TriviallyRelocatable || !destroy

	if d, ok := ptr.(DestructibleAfterMove); ok && d.TriviallyDestructibleAfterMove() {
		c.TriviallyDestructibleAfterMove = true
	}

	return c
}

// Pair combines the classes of the members of a composite element, the way
// a two-field struct inherits the properties of its fields.
func Pair(a, b Class) Class {
	return Class{
		Trivial:                        a.Trivial && b.Trivial,
		TriviallyRelocatable:           a.TriviallyRelocatable && b.TriviallyRelocatable,
		TriviallyDestructibleAfterMove: a.TriviallyDestructibleAfterMove && b.TriviallyDestructibleAfterMove,
		HasPointers:                    a.HasPointers || b.HasPointers,
	}
}

// HasPointers reports whether values of typ contain references.
func HasPointers(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typ.Len() > 0 && HasPointers(typ.Elem())
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			if HasPointers(typ.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// Move relocates *src into *dst, using MoveFrom when T provides it.
func Move[T any](dst, src *T) {
	if m, ok := any(dst).(Mover[T]); ok {
		m.MoveFrom(src)
		return
	}
	*dst = *src
}

// Copy duplicates *src into *dst, using CopyFrom when T provides it.
func Copy[T any](dst, src *T) {
	if c, ok := any(dst).(Copier[T]); ok {
		c.CopyFrom(src)
		return
	}
	*dst = *src
}

// Destroy runs the Destroy hook of *v if T has one.
func Destroy[T any](v *T) {
	if d, ok := any(v).(Destroyer); ok {
		d.Destroy()
	}
}
