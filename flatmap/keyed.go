package flatmap

import (
	"github.com/cockroachdb/errors"

	"github.com/aglyzov/go-flat/vector"
)

// keyed is the storage shared by all containers: an element array and, when
// hashing is on, a column of reduced hashes kept in lock-step with it.
type keyed[E any] struct {
	elems  vector.Vector[E]
	hashes vector.Vector[uint32]
	hashed bool
	inline int // slots of the inline buffers, 0 for none
}

// seat gives both columns inline buffers of n slots. The buffers belong to
// the container for life: it moves to the heap when it outgrows them and
// comes back after ClearAndShrink.
func (s *keyed[E]) seat(n int) {
	switch {
	case n < 0:
		panic(errors.AssertionFailedf("flatmap: negative inline size %d", n))
	case n == 0:
		return
	}

	s.inline = n
	vector.InitBuffer(&s.elems, make([]E, n))
	if s.hashed {
		vector.InitBuffer(&s.hashes, make([]uint32, n))
	}
}

// inlined reports whether the elements still live in the inline buffer.
func (s *keyed[E]) inlined() bool {
	return s.inline > 0 && s.elems.IsStaticBuffer()
}

func (s *keyed[E]) Len() int {
	return s.elems.Len()
}

func (s *keyed[E]) Empty() bool {
	return s.elems.Empty()
}

func (s *keyed[E]) at(i int) *E {
	return s.elems.At(i)
}

func (s *keyed[E]) data() []E {
	return s.elems.Data()
}

func (s *keyed[E]) hashAt(i int) uint32 {
	return s.hashes.Get(i)
}

func (s *keyed[E]) reserve(n int) error {
	if err := s.elems.Reserve(n); err != nil {
		return err
	}
	if s.hashed {
		return s.hashes.Reserve(n)
	}
	return nil
}

// push appends e with its hash (ignored when hashing is off).
func (s *keyed[E]) push(e E, h uint32) *E {
	if s.hashed {
		s.hashes.PushBack(h)
	}
	return s.elems.PushBack(e)
}

func (s *keyed[E]) eraseAt(pos int) {
	s.elems.Erase(pos)
	if s.hashed {
		s.hashes.Erase(pos)
	}
}

// takeAt removes the element at pos and returns it with its hash.
func (s *keyed[E]) takeAt(pos int) (E, uint32) {
	var h uint32
	if s.hashed {
		h = s.hashes.Take(pos)
	}
	return s.elems.Take(pos), h
}

func (s *keyed[E]) clear() {
	s.elems.Clear()
	s.hashes.Clear()
}

func (s *keyed[E]) clearAndShrink() {
	s.elems.ClearAndShrink()
	s.hashes.ClearAndShrink()
}

func (s *keyed[E]) shrinkToFit() {
	s.elems.ShrinkToFit()
	s.hashes.ShrinkToFit()
}

func (s *keyed[E]) swap(other *keyed[E]) {
	s.elems.Swap(&other.elems)
	s.hashes.Swap(&other.hashes)
}

// moveFrom steals the content of other, which must use the same hashing.
func (s *keyed[E]) moveFrom(other *keyed[E]) {
	s.elems.MoveFrom(&other.elems)
	s.hashes.MoveFrom(&other.hashes)
}

func (s *keyed[E]) copyFrom(other *keyed[E]) {
	s.elems.CopyFrom(&other.elems)
	s.hashes.CopyFrom(&other.hashes)
}

func (s *keyed[E]) forEach(fn func(i int, e *E) bool) {
	s.elems.ForEach(fn)
}
