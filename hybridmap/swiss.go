package hybridmap

import (
	"github.com/cockroachdb/swiss"
)

// SwissMap adapts a Swiss table to the Map interface. Values are boxed so
// that the pointers it returns survive rehashing.
type SwissMap[K comparable, V any] struct {
	m *swiss.Map[K, *V]
}

func NewSwissMap[K comparable, V any](capacity int) *SwissMap[K, V] {
	return &SwissMap[K, V]{m: swiss.New[K, *V](capacity)}
}

func (s *SwissMap[K, V]) Len() int {
	return s.m.Len()
}

func (s *SwissMap[K, V]) Find(key K) *V {
	p, _ := s.m.Get(key)
	return p
}

func (s *SwissMap[K, V]) Contains(key K) bool {
	_, ok := s.m.Get(key)
	return ok
}

func (s *SwissMap[K, V]) Index(key K) *V {
	p, _ := s.TryEmplace(key, func() V {
		var zero V
		return zero
	})
	return p
}

func (s *SwissMap[K, V]) Insert(key K, val V) (*V, bool) {
	return s.TryEmplace(key, func() V { return val })
}

func (s *SwissMap[K, V]) InsertOrAssign(key K, val V) (*V, bool) {
	if p, ok := s.m.Get(key); ok {
		*p = val
		return p, false
	}

	p := &val
	s.m.Put(key, p)

	return p, true
}

func (s *SwissMap[K, V]) TryEmplace(key K, ctor func() V) (*V, bool) {
	if p, ok := s.m.Get(key); ok {
		return p, false
	}

	p := new(V)
	*p = ctor()
	s.m.Put(key, p)

	return p, true
}

func (s *SwissMap[K, V]) Erase(key K) int {
	if _, ok := s.m.Get(key); !ok {
		return 0
	}
	s.m.Delete(key)
	return 1
}

func (s *SwissMap[K, V]) Clear() {
	s.m.Close()
	s.m = swiss.New[K, *V](0)
}

// Reserve rebuilds the table with room for n entries. It does nothing when n
// does not exceed the current size.
func (s *SwissMap[K, V]) Reserve(n int) error {
	if n <= s.m.Len() {
		return nil
	}

	m := swiss.New[K, *V](n)
	s.m.All(func(key K, val *V) bool {
		m.Put(key, val)
		return true
	})
	s.m.Close()
	s.m = m

	return nil
}

// ForEach calls fn for every entry in no particular order until fn returns
// true.
func (s *SwissMap[K, V]) ForEach(fn func(key K, val *V) bool) {
	s.m.All(func(key K, val *V) bool {
		return !fn(key, val)
	})
}

func (s *SwissMap[K, V]) Clone() *SwissMap[K, V] {
	dup := NewSwissMap[K, V](s.m.Len())

	s.m.All(func(key K, val *V) bool {
		v := *val
		dup.m.Put(key, &v)
		return true
	})

	return dup
}
