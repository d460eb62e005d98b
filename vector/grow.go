package vector

import (
	"github.com/cockroachdb/errors"

	"github.com/aglyzov/go-flat/traits"
)

// nextCapacity implements the growth policy. A positive want is used as is,
// otherwise the first buffer is sized by element width and later buffers
// double.
func nextCapacity(old, want int, width uintptr) int {
	if want > 0 {
		return want
	}
	if old == 0 {
		switch {
		case width >= 48:
			return 1
		case width >= 16:
			return 2
		default:
			return int(32 / width)
		}
	}
	if old > MaxCapacity/2 {
		return MaxCapacity
	}
	return 2 * old
}

// reallocate moves the elements into a new heap buffer. want == 0 grows by
// the default policy. Requests not larger than the current capacity are
// no-ops. Only replacing a heap buffer counts as a re-allocation.
func (v *Vector[T]) reallocate(want int) error {
	var (
		old    = v.Cap()
		newCap = nextCapacity(old, want, elementWidth[T]())
	)

	if newCap <= old {
		return nil
	}
	if newCap > MaxCapacity {
		return errors.Wrapf(ErrCapacityOverflow, "requested %d elements", newCap)
	}

	buf := make([]T, newCap)
	v.relocate(buf, v.memory[:v.count])

	if v.IsStaticBuffer() {
		v.vacate(v.memory[:v.count])
	} else if old > 0 {
		v.reallocs++
	}

	v.memory = buf
	v.capacity = int32(newCap)

	return nil
}

// grow makes room for n more elements, panicking when it cannot.
func (v *Vector[T]) grow(n int) {
	need := int(v.count) + n
	if need <= v.Cap() {
		return
	}

	want := 0
	if nextCapacity(v.Cap(), 0, elementWidth[T]()) < need {
		want = need
	}

	if err := v.reallocate(want); err != nil {
		panic(err)
	}
	if need > v.Cap() {
		panic(errors.Wrapf(ErrCapacityOverflow, "requested %d elements", need))
	}
}

// relocate moves src into dst (which must not overlap). Moved-from source
// elements are destroyed unless the class says it is unnecessary.
func (v *Vector[T]) relocate(dst, src []T) {
	c := v.Class()

	if c.TriviallyRelocatable {
		copy(dst, src)
		return
	}
	for i := range src {
		traits.Move(&dst[i], &src[i])
	}
	if !c.TriviallyDestructibleAfterMove {
		destroyReverse(src)
	}
}

// vacate zeroes slots of a buffer that outlives its elements.
func (v *Vector[T]) vacate(s []T) {
	if c := v.Class(); c.HasPointers || !c.Trivial {
		clear(s)
	}
}

// shiftRight moves memory[pos:count] up by n slots. The buffer must have
// room for them. The moved-from slots are left for the caller to fill.
func (v *Vector[T]) shiftRight(pos, n int) {
	var (
		end = int(v.count)
		mem = v.memory
	)

	c := v.Class()
	if c.TriviallyRelocatable {
		copy(mem[pos+n:end+n], mem[pos:end])
		return
	}
	for i := end - 1; i >= pos; i-- {
		traits.Move(&mem[i+n], &mem[i])
	}
	if !c.TriviallyDestructibleAfterMove {
		destroyReverse(mem[pos:min(pos+n, end)])
	}
}

// shiftLeft moves memory[pos+n:count] down by n slots and zeroes the freed
// tail when needed.
func (v *Vector[T]) shiftLeft(pos, n int) {
	var (
		end = int(v.count)
		mem = v.memory
	)

	c := v.Class()
	if c.TriviallyRelocatable {
		copy(mem[pos:end-n], mem[pos+n:end])
	} else {
		for i := pos + n; i < end; i++ {
			traits.Move(&mem[i-n], &mem[i])
		}
		if !c.TriviallyDestructibleAfterMove {
			destroyReverse(mem[max(end-n, pos+n):end])
		}
	}

	v.vacate(mem[end-n : end])
}

// destroyReverse runs the Destroy hooks back to front.
func destroyReverse[T any](s []T) {
	for i := len(s) - 1; i >= 0; i-- {
		traits.Destroy(&s[i])
	}
}

// release destroys [from:count) back to front and shrinks the count.
func (v *Vector[T]) release(from int) {
	live := v.memory[from:v.count]

	if !v.Class().Trivial {
		destroyReverse(live)
	}
	v.vacate(live)

	v.count = uint32(from)
}

// Reserve makes sure the buffer can hold n elements without reallocation.
// It returns ErrCapacityOverflow (leaving the vector intact) when n exceeds
// MaxCapacity.
func (v *Vector[T]) Reserve(n int) error {
	if n <= v.Cap() {
		return nil
	}
	return v.reallocate(n)
}

// Clear destroys all elements back to front. The capacity is kept.
func (v *Vector[T]) Clear() {
	v.release(0)
}

// ClearAndShrink destroys all elements and releases the buffer. An
// InlineVector goes back to its inline buffer.
func (v *Vector[T]) ClearAndShrink() {
	v.release(0)
	v.resetStorage()
}

// ShrinkToFit reallocates the heap buffer to the exact size. Static buffers
// are left alone, and a heap vector never returns to its inline buffer.
func (v *Vector[T]) ShrinkToFit() {
	if v.IsStaticBuffer() || v.Cap() <= int(v.count) {
		return
	}

	if v.count == 0 {
		v.memory, v.capacity = nil, 0
		return
	}

	buf := make([]T, v.count)
	v.relocate(buf, v.memory[:v.count])
	v.memory = buf
	v.capacity = int32(len(buf))
}

// resetStorage drops the buffer (which must hold no live elements) and
// re-attaches the inline buffer if there is one.
func (v *Vector[T]) resetStorage() {
	v.count = 0

	if v.static != nil {
		v.memory = v.static
		v.capacity = -int32(len(v.static))
		return
	}

	v.memory, v.capacity = nil, 0
}
