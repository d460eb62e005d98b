package vector

import (
	"github.com/cockroachdb/errors"

	"github.com/aglyzov/go-flat/traits"
)

// PushBack appends val and returns a pointer to the stored element.
func (v *Vector[T]) PushBack(val T) *T {
	if int(v.count) == v.Cap() {
		v.grow(1)
	}
	p := &v.memory[v.count]
	*p = val
	v.count++
	return p
}

// EmplaceBack appends a zero value and returns a pointer to it so that the
// caller can construct the element in place.
func (v *Vector[T]) EmplaceBack() *T {
	if int(v.count) == v.Cap() {
		v.grow(1)
	}
	p := &v.memory[v.count]
	var zero T
	*p = zero
	v.count++
	return p
}

// PopBack destroys the last element. It panics on an empty vector.
func (v *Vector[T]) PopBack() {
	if v.count == 0 {
		panic(errors.AssertionFailedf("vector: PopBack on an empty vector"))
	}
	v.release(int(v.count) - 1)
}

// Append pushes all items at the back.
func (v *Vector[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	v.grow(len(items))
	copy(v.memory[v.count:], items)
	v.count += uint32(len(items))
}

// Assign replaces the content with items.
func (v *Vector[T]) Assign(items ...T) {
	v.Clear()
	v.Append(items...)
}

// Insert places val at position pos (0 <= pos <= Len) shifting the tail and
// returns a pointer to the new element.
func (v *Vector[T]) Insert(pos int, val T) *T {
	if pos < 0 || pos > int(v.count) {
		panic(errors.AssertionFailedf("vector: insert position %d out of range [0:%d]", pos, v.count))
	}
	if int(v.count) == v.Cap() {
		v.grow(1)
	}
	if pos < int(v.count) {
		v.shiftRight(pos, 1)
	}
	v.count++
	v.memory[pos] = val
	return &v.memory[pos]
}

// InsertSlice places items at position pos shifting the tail.
func (v *Vector[T]) InsertSlice(pos int, items ...T) {
	if pos < 0 || pos > int(v.count) {
		panic(errors.AssertionFailedf("vector: insert position %d out of range [0:%d]", pos, v.count))
	}
	n := len(items)
	if n == 0 {
		return
	}
	v.grow(n)
	if pos < int(v.count) {
		v.shiftRight(pos, n)
	}
	copy(v.memory[pos:pos+n], items)
	v.count += uint32(n)
}

// Erase removes the element at pos, keeping the order of the rest.
func (v *Vector[T]) Erase(pos int) {
	v.EraseRange(pos, pos+1)
}

// EraseRange removes the elements in [first:last).
func (v *Vector[T]) EraseRange(first, last int) {
	if first < 0 || last < first || last > int(v.count) {
		panic(errors.AssertionFailedf("vector: malformed erase range [%d:%d) of %d", first, last, v.count))
	}
	n := last - first
	if n == 0 {
		return
	}

	if !v.Class().Trivial {
		destroyReverse(v.memory[first:last])
	}
	v.shiftLeft(first, n)
	v.count -= uint32(n)
}

// Take removes the element at pos and returns it. Unlike Erase the element
// is moved out, not destroyed.
func (v *Vector[T]) Take(pos int) T {
	v.checkIndex(pos)

	var out T
	traits.Move(&out, &v.memory[pos])
	if !v.Class().TriviallyDestructibleAfterMove {
		traits.Destroy(&v.memory[pos])
	}
	v.shiftLeft(pos, 1)
	v.count--

	return out
}

// Resize changes the length. New elements are zero values, removed ones
// are destroyed back to front.
func (v *Vector[T]) Resize(n int) {
	if n <= int(v.count) {
		v.release(n)
		return
	}
	if n > v.Cap() {
		if err := v.reallocate(n); err != nil {
			panic(err)
		}
	}
	clear(v.memory[v.count:n])
	v.count = uint32(n)
}

// ResizeFill is like Resize but new elements are copies of fill.
func (v *Vector[T]) ResizeFill(n int, fill T) {
	from := int(v.count)
	v.Resize(n)
	for i := from; i < n; i++ {
		traits.Copy(&v.memory[i], &fill)
	}
}

// Swap exchanges the contents of two vectors. Heap buffers are swapped in
// O(1), a static buffer forces an element-wise exchange.
func (v *Vector[T]) Swap(other *Vector[T]) {
	if v == other {
		return
	}
	if !v.IsStaticBuffer() && !other.IsStaticBuffer() {
		v.memory, other.memory = other.memory, v.memory
		v.count, other.count = other.count, v.count
		v.capacity, other.capacity = other.capacity, v.capacity
		return
	}

	var tmp Vector[T]
	tmp.MoveFrom(v)
	v.MoveFrom(other)
	other.MoveFrom(&tmp)
}

// MoveFrom takes over the content of other leaving it empty. A heap buffer
// is stolen in O(1); a static buffer cannot change hands and is moved
// element by element.
func (v *Vector[T]) MoveFrom(other *Vector[T]) {
	if v == other {
		return
	}

	if !other.IsStaticBuffer() && (v.static == nil || int(other.count) > len(v.static)) {
		v.ClearAndShrink()
		v.memory, v.count, v.capacity = other.memory, other.count, other.capacity
		other.resetStorage()
		return
	}

	v.Clear()
	if err := v.Reserve(int(other.count)); err != nil {
		panic(err)
	}

	n := int(other.count)
	v.relocate(v.memory[:n], other.memory[:n])
	other.vacate(other.memory[:n])
	v.count = uint32(n)
	other.count = 0
}

// CopyFrom replaces the content with copies of the elements of other.
func (v *Vector[T]) CopyFrom(other *Vector[T]) {
	if v == other {
		return
	}

	v.Clear()
	if err := v.Reserve(int(other.count)); err != nil {
		panic(err)
	}

	if v.Class().Trivial {
		copy(v.memory, other.Data())
	} else {
		for i := 0; i < int(other.count); i++ {
			traits.Copy(&v.memory[i], &other.memory[i])
		}
	}
	v.count = other.count
}

// Clone returns a heap vector holding copies of the elements.
func (v *Vector[T]) Clone() *Vector[T] {
	c := &Vector[T]{}
	c.CopyFrom(v)
	return c
}
