package flatmap

import (
	"cmp"
	"slices"
)

// sorted keeps the elements ordered by key and finds them by binary search.
type sorted[K, E any] struct {
	keyed[E]
	cmp   func(a, b K) int
	keyOf func(e *E) K
}

func newSorted[K, E any](compare func(a, b K) int, keyOf func(e *E) K) *sorted[K, E] {
	return &sorted[K, E]{cmp: compare, keyOf: keyOf}
}

func (s *sorted[K, E]) locate(key K) (int, bool, uint32) {
	pos, ok := slices.BinarySearchFunc(s.elems.Data(), key, func(e E, k K) int {
		return s.cmp(s.keyOf(&e), k)
	})
	return pos, ok, 0
}

func (s *sorted[K, E]) place(pos int, e E, _ uint32) *E {
	return s.elems.Insert(pos, e)
}

// merge moves the elements of other missing in s, walking other back to
// front. Colliding elements stay in other.
func (s *sorted[K, E]) merge(other *sorted[K, E]) {
	if s == other {
		return
	}
	for i := other.Len() - 1; i >= 0; i-- {
		pos, ok, _ := s.locate(other.keyOf(other.at(i)))
		if ok {
			continue
		}
		e, _ := other.takeAt(i)
		s.place(pos, e, 0)
	}
}

func (s *sorted[K, E]) clone() *sorted[K, E] {
	c := newSorted(s.cmp, s.keyOf)
	c.seat(s.inline)
	c.copyFrom(&s.keyed)
	return c
}

func (s *sorted[K, E]) equal(other *sorted[K, E], eq func(a, b *E) bool) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		a, b := s.at(i), other.at(i)
		if s.cmp(s.keyOf(a), other.keyOf(b)) != 0 || (eq != nil && !eq(a, b)) {
			return false
		}
	}
	return true
}

func entryKey[K, V any](e *Entry[K, V]) K {
	return e.Key
}

func setKey[K any](k *K) K {
	return *k
}

// OrderedMap is a map stored as an array of entries sorted by key. Lookups
// are O(log n), insertions and erasures shift the tail.
type OrderedMap[K, V any] struct {
	mapCore[K, V, *sorted[K, Entry[K, V]]]
}

// NewOrderedMap returns an OrderedMap of keys ordered by cmp.Compare.
func NewOrderedMap[K cmp.Ordered, V any](entries ...Entry[K, V]) *OrderedMap[K, V] {
	return NewOrderedMapFunc(cmp.Compare[K], entries...)
}

// NewOrderedMapFunc returns an OrderedMap of keys ordered by a three-way
// compare function.
func NewOrderedMapFunc[K, V any](compare func(a, b K) int, entries ...Entry[K, V]) *OrderedMap[K, V] {
	return newOrderedMap(compare, 0, entries)
}

// NewInlineOrderedMap is like NewOrderedMap but keeps up to n entries in an
// inline buffer set up once with the map.
func NewInlineOrderedMap[K cmp.Ordered, V any](n int, entries ...Entry[K, V]) *OrderedMap[K, V] {
	return newOrderedMap(cmp.Compare[K], n, entries)
}

func NewInlineOrderedMapFunc[K, V any](compare func(a, b K) int, n int, entries ...Entry[K, V]) *OrderedMap[K, V] {
	return newOrderedMap(compare, n, entries)
}

func newOrderedMap[K, V any](compare func(a, b K) int, inline int, entries []Entry[K, V]) *OrderedMap[K, V] {
	m := &OrderedMap[K, V]{}
	m.t = newSorted(compare, entryKey[K, V])
	m.t.seat(inline)

	for _, e := range entries {
		m.Insert(e.Key, e.Val)
	}
	return m
}

// Merge moves the entries of other whose keys are missing in m. Entries
// with colliding keys stay in other.
func (m *OrderedMap[K, V]) Merge(other *OrderedMap[K, V]) {
	m.t.merge(other.t)
}

func (m *OrderedMap[K, V]) Swap(other *OrderedMap[K, V]) {
	m.t, other.t = other.t, m.t
}

func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{mapCore[K, V, *sorted[K, Entry[K, V]]]{t: m.t.clone()}}
}

// Equal reports whether both maps hold the same keys with values equal by eq.
func (m *OrderedMap[K, V]) Equal(other *OrderedMap[K, V], eq func(a, b V) bool) bool {
	return m.t.equal(other.t, func(a, b *Entry[K, V]) bool {
		return eq(a.Val, b.Val)
	})
}

// OrderedSet is a set stored as a sorted array of keys.
type OrderedSet[K any] struct {
	setCore[K, *sorted[K, K]]
}

func NewOrderedSet[K cmp.Ordered](keys ...K) *OrderedSet[K] {
	return newOrderedSet(cmp.Compare[K], 0, keys)
}

func NewOrderedSetFunc[K any](compare func(a, b K) int, keys ...K) *OrderedSet[K] {
	return newOrderedSet(compare, 0, keys)
}

// NewInlineOrderedSet is like NewOrderedSet but keeps up to n keys in an
// inline buffer.
func NewInlineOrderedSet[K cmp.Ordered](n int, keys ...K) *OrderedSet[K] {
	return newOrderedSet(cmp.Compare[K], n, keys)
}

func newOrderedSet[K any](compare func(a, b K) int, inline int, keys []K) *OrderedSet[K] {
	s := &OrderedSet[K]{}
	s.t = newSorted(compare, setKey[K])
	s.t.seat(inline)

	for _, k := range keys {
		s.Insert(k)
	}
	return s
}

// Merge moves the keys of other missing in s.
func (s *OrderedSet[K]) Merge(other *OrderedSet[K]) {
	s.t.merge(other.t)
}

func (s *OrderedSet[K]) Swap(other *OrderedSet[K]) {
	s.t, other.t = other.t, s.t
}

func (s *OrderedSet[K]) Clone() *OrderedSet[K] {
	return &OrderedSet[K]{setCore[K, *sorted[K, K]]{t: s.t.clone()}}
}

func (s *OrderedSet[K]) Equal(other *OrderedSet[K]) bool {
	return s.t.equal(other.t, nil)
}
