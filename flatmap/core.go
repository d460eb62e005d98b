package flatmap

import (
	"iter"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/aglyzov/go-flat/traits"
)

// table is a search strategy over keyed storage.
type table[K, E any] interface {
	Len() int
	Empty() bool
	at(i int) *E
	data() []E
	// locate returns the position of key, or where to place it when it is
	// missing, along with its reduced hash.
	locate(key K) (pos int, found bool, h uint32)
	place(pos int, e E, h uint32) *E
	eraseAt(pos int)
	takeAt(pos int) (E, uint32)
	reserve(n int) error
	clear()
	clearAndShrink()
	shrinkToFit()
	forEach(fn func(i int, e *E) bool)
	inlined() bool
}

func checkPos(pos, n int) {
	if pos < 0 || pos >= n {
		panic(errors.AssertionFailedf("flatmap: position %d out of range [0:%d)", pos, n))
	}
}

// mapCore implements the map operations common to all entry tables.
type mapCore[K, V any, T table[K, Entry[K, V]]] struct {
	t T
}

func (m *mapCore[K, V, T]) Len() int {
	return m.t.Len()
}

func (m *mapCore[K, V, T]) Empty() bool {
	return m.t.Empty()
}

// Inlined reports whether the entries still live in the inline buffer of a
// map made with one of the NewInline functions.
func (m *mapCore[K, V, T]) Inlined() bool {
	return m.t.inlined()
}

// Reserve makes room for n entries.
func (m *mapCore[K, V, T]) Reserve(n int) error {
	return m.t.reserve(n)
}

func (m *mapCore[K, V, T]) Clear() {
	m.t.clear()
}

// ClearAndShrink removes all entries and releases the storage.
func (m *mapCore[K, V, T]) ClearAndShrink() {
	m.t.clearAndShrink()
}

func (m *mapCore[K, V, T]) ShrinkToFit() {
	m.t.shrinkToFit()
}

// Find returns a pointer to the value of key or nil.
func (m *mapCore[K, V, T]) Find(key K) *V {
	if pos, ok, _ := m.t.locate(key); ok {
		return &m.t.at(pos).Val
	}
	return nil
}

func (m *mapCore[K, V, T]) Get(key K) (val V, ok bool) {
	if p := m.Find(key); p != nil {
		return *p, true
	}
	return
}

func (m *mapCore[K, V, T]) Contains(key K) bool {
	_, ok, _ := m.t.locate(key)
	return ok
}

func (m *mapCore[K, V, T]) Count(key K) int {
	if m.Contains(key) {
		return 1
	}
	return 0
}

// Search returns the position of key or -1.
func (m *mapCore[K, V, T]) Search(key K) int {
	if pos, ok, _ := m.t.locate(key); ok {
		return pos
	}
	return -1
}

// At returns a pointer to the value of key. It panics when key is missing.
func (m *mapCore[K, V, T]) At(key K) *V {
	if p := m.Find(key); p != nil {
		return p
	}
	panic(errors.AssertionFailedf("flatmap: key %v not found", key))
}

// Index returns a pointer to the value of key, inserting a zero value when
// key is missing.
func (m *mapCore[K, V, T]) Index(key K) *V {
	p, _ := m.Emplace(key)
	return p
}

// Insert adds key with val unless key is present. It returns a pointer to
// the stored value and whether an insertion took place.
func (m *mapCore[K, V, T]) Insert(key K, val V) (*V, bool) {
	return m.TryEmplace(key, func() V { return val })
}

// InsertOrAssign is like Insert but overwrites the value of a present key.
func (m *mapCore[K, V, T]) InsertOrAssign(key K, val V) (*V, bool) {
	p, inserted := m.Insert(key, val)
	if !inserted {
		traits.Destroy(p)
		*p = val
	}
	return p, inserted
}

// Emplace inserts a zero value for a missing key and returns a pointer for
// in-place construction.
func (m *mapCore[K, V, T]) Emplace(key K) (*V, bool) {
	var zero V
	return m.Insert(key, zero)
}

// EmplaceOrAssign constructs the value of key in place with init. A present
// value is destroyed and reset first.
func (m *mapCore[K, V, T]) EmplaceOrAssign(key K, init func(val *V)) (*V, bool) {
	p, inserted := m.Emplace(key)
	if !inserted {
		var zero V
		traits.Destroy(p)
		*p = zero
	}
	init(p)
	return p, inserted
}

// TryEmplace calls ctor only when key is missing.
func (m *mapCore[K, V, T]) TryEmplace(key K, ctor func() V) (*V, bool) {
	pos, ok, h := m.t.locate(key)
	if ok {
		return &m.t.at(pos).Val, false
	}
	return &m.t.place(pos, Entry[K, V]{Key: key, Val: ctor()}, h).Val, true
}

// Erase removes key and returns the number of removed entries.
func (m *mapCore[K, V, T]) Erase(key K) int {
	pos, ok, _ := m.t.locate(key)
	if !ok {
		return 0
	}
	m.t.eraseAt(pos)
	return 1
}

// EraseAt removes the entry at pos.
func (m *mapCore[K, V, T]) EraseAt(pos int) {
	checkPos(pos, m.t.Len())
	m.t.eraseAt(pos)
}

// EntryAt returns the entry at pos. Its key must not be modified.
func (m *mapCore[K, V, T]) EntryAt(pos int) *Entry[K, V] {
	checkPos(pos, m.t.Len())
	return m.t.at(pos)
}

func (m *mapCore[K, V, T]) Front() *Entry[K, V] {
	return m.EntryAt(0)
}

func (m *mapCore[K, V, T]) Back() *Entry[K, V] {
	return m.EntryAt(m.t.Len() - 1)
}

func (m *mapCore[K, V, T]) Keys() []K {
	keys := make([]K, 0, m.t.Len())
	for _, e := range m.t.data() {
		keys = append(keys, e.Key)
	}
	return keys
}

func (m *mapCore[K, V, T]) Values() []V {
	vals := make([]V, 0, m.t.Len())
	for _, e := range m.t.data() {
		vals = append(vals, e.Val)
	}
	return vals
}

// ForEach calls fn for every entry in storage order. Returning true from fn
// stops the iteration.
func (m *mapCore[K, V, T]) ForEach(fn func(key K, val *V) bool) {
	m.t.forEach(func(_ int, e *Entry[K, V]) bool {
		return fn(e.Key, &e.Val)
	})
}

func (m *mapCore[K, V, T]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		m.ForEach(func(key K, val *V) bool {
			return !yield(key, val)
		})
	}
}

// setCore implements the set operations common to all key tables.
type setCore[K any, T table[K, K]] struct {
	t T
}

func (s *setCore[K, T]) Len() int {
	return s.t.Len()
}

func (s *setCore[K, T]) Empty() bool {
	return s.t.Empty()
}

// Inlined reports whether the keys still live in the inline buffer.
func (s *setCore[K, T]) Inlined() bool {
	return s.t.inlined()
}

func (s *setCore[K, T]) Reserve(n int) error {
	return s.t.reserve(n)
}

func (s *setCore[K, T]) Clear() {
	s.t.clear()
}

func (s *setCore[K, T]) ClearAndShrink() {
	s.t.clearAndShrink()
}

func (s *setCore[K, T]) ShrinkToFit() {
	s.t.shrinkToFit()
}

// Insert adds key and returns its position and whether it was missing.
func (s *setCore[K, T]) Insert(key K) (int, bool) {
	pos, ok, h := s.t.locate(key)
	if !ok {
		s.t.place(pos, key, h)
	}
	return pos, !ok
}

func (s *setCore[K, T]) Contains(key K) bool {
	_, ok, _ := s.t.locate(key)
	return ok
}

func (s *setCore[K, T]) Count(key K) int {
	if s.Contains(key) {
		return 1
	}
	return 0
}

// Search returns the position of key or -1.
func (s *setCore[K, T]) Search(key K) int {
	if pos, ok, _ := s.t.locate(key); ok {
		return pos
	}
	return -1
}

// Erase removes key and returns the number of removed keys.
func (s *setCore[K, T]) Erase(key K) int {
	pos, ok, _ := s.t.locate(key)
	if !ok {
		return 0
	}
	s.t.eraseAt(pos)
	return 1
}

func (s *setCore[K, T]) EraseAt(pos int) {
	checkPos(pos, s.t.Len())
	s.t.eraseAt(pos)
}

// At returns the key at pos.
func (s *setCore[K, T]) At(pos int) K {
	checkPos(pos, s.t.Len())
	return *s.t.at(pos)
}

func (s *setCore[K, T]) Front() K {
	return s.At(0)
}

func (s *setCore[K, T]) Back() K {
	return s.At(s.t.Len() - 1)
}

func (s *setCore[K, T]) Keys() []K {
	return slices.Clone(s.t.data())
}

// ForEach calls fn for every key in storage order until fn returns true.
func (s *setCore[K, T]) ForEach(fn func(key K) bool) {
	s.t.forEach(func(_ int, k *K) bool {
		return fn(*k)
	})
}

func (s *setCore[K, T]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		s.ForEach(func(key K) bool {
			return !yield(key)
		})
	}
}
