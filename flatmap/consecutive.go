package flatmap

import (
	"iter"
	"slices"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"

	"github.com/aglyzov/go-flat/traits"
)

// ConsecutiveKeyMap is a linear map of small integer keys. The keys are
// their own reduced hashes, so they live only in the hash column and the
// values get an array of their own (K-K-K... V-V-V... instead of K-V-K-V...).
type ConsecutiveKeyMap[K constraints.Integer, V any] struct {
	t *linear[K, V]
}

// NewConsecutiveKeyMap returns an empty map. It panics when K is wider than
// 32 bits.
func NewConsecutiveKeyMap[K constraints.Integer, V any]() *ConsecutiveKeyMap[K, V] {
	if !Reinterpretable[K]() {
		var zero K
		panic(errors.AssertionFailedf("flatmap: consecutive keys must fit into 32 bits, got %T", zero))
	}

	policy := DefaultKeyPolicy[K]()

	t := newLinear(policy, consecutiveKey[K, V])
	t.consecutive = true
	t.assign = func(dst, src *V) {
		traits.Destroy(dst)
		traits.Copy(dst, src)
	}

	return &ConsecutiveKeyMap[K, V]{t: t}
}

func consecutiveKey[K constraints.Integer, V any](s *keyed[V], i int) K {
	return K(s.hashAt(i))
}

func (m *ConsecutiveKeyMap[K, V]) Len() int {
	return m.t.Len()
}

func (m *ConsecutiveKeyMap[K, V]) Empty() bool {
	return m.t.Empty()
}

func (m *ConsecutiveKeyMap[K, V]) Reserve(n int) error {
	return m.t.reserve(n)
}

func (m *ConsecutiveKeyMap[K, V]) Clear() {
	m.t.clear()
}

func (m *ConsecutiveKeyMap[K, V]) ClearAndShrink() {
	m.t.clearAndShrink()
}

func (m *ConsecutiveKeyMap[K, V]) ShrinkToFit() {
	m.t.shrinkToFit()
}

func (m *ConsecutiveKeyMap[K, V]) Find(key K) *V {
	if pos, ok, _ := m.t.locate(key); ok {
		return m.t.at(pos)
	}
	return nil
}

func (m *ConsecutiveKeyMap[K, V]) Get(key K) (val V, ok bool) {
	if p := m.Find(key); p != nil {
		return *p, true
	}
	return
}

func (m *ConsecutiveKeyMap[K, V]) Contains(key K) bool {
	_, ok, _ := m.t.locate(key)
	return ok
}

func (m *ConsecutiveKeyMap[K, V]) Count(key K) int {
	if m.Contains(key) {
		return 1
	}
	return 0
}

func (m *ConsecutiveKeyMap[K, V]) Search(key K) int {
	if pos, ok, _ := m.t.locate(key); ok {
		return pos
	}
	return -1
}

// At returns a pointer to the value of key. It panics when key is missing.
func (m *ConsecutiveKeyMap[K, V]) At(key K) *V {
	if p := m.Find(key); p != nil {
		return p
	}
	panic(errors.AssertionFailedf("flatmap: key %d not found", key))
}

func (m *ConsecutiveKeyMap[K, V]) Index(key K) *V {
	p, _ := m.Emplace(key)
	return p
}

func (m *ConsecutiveKeyMap[K, V]) Insert(key K, val V) (*V, bool) {
	return m.TryEmplace(key, func() V { return val })
}

func (m *ConsecutiveKeyMap[K, V]) InsertOrAssign(key K, val V) (*V, bool) {
	p, inserted := m.Insert(key, val)
	if !inserted {
		traits.Destroy(p)
		*p = val
	}
	return p, inserted
}

func (m *ConsecutiveKeyMap[K, V]) Emplace(key K) (*V, bool) {
	var zero V
	return m.Insert(key, zero)
}

func (m *ConsecutiveKeyMap[K, V]) EmplaceOrAssign(key K, init func(val *V)) (*V, bool) {
	p, inserted := m.Emplace(key)
	if !inserted {
		var zero V
		traits.Destroy(p)
		*p = zero
	}
	init(p)
	return p, inserted
}

func (m *ConsecutiveKeyMap[K, V]) TryEmplace(key K, ctor func() V) (*V, bool) {
	pos, ok, h := m.t.locate(key)
	if ok {
		return m.t.at(pos), false
	}
	return m.t.place(pos, ctor(), h), true
}

func (m *ConsecutiveKeyMap[K, V]) Erase(key K) int {
	pos, ok, _ := m.t.locate(key)
	if !ok {
		return 0
	}
	m.t.eraseAt(pos)
	return 1
}

func (m *ConsecutiveKeyMap[K, V]) EraseAt(pos int) {
	checkPos(pos, m.t.Len())
	m.t.eraseAt(pos)
}

// EntryAt returns the key and a pointer to the value at pos.
func (m *ConsecutiveKeyMap[K, V]) EntryAt(pos int) (K, *V) {
	checkPos(pos, m.t.Len())
	return consecutiveKey[K](&m.t.keyed, pos), m.t.at(pos)
}

func (m *ConsecutiveKeyMap[K, V]) Front() (K, *V) {
	return m.EntryAt(0)
}

func (m *ConsecutiveKeyMap[K, V]) Back() (K, *V) {
	return m.EntryAt(m.t.Len() - 1)
}

func (m *ConsecutiveKeyMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.t.Len())
	for _, h := range m.t.hashes.Data() {
		keys = append(keys, K(h))
	}
	return keys
}

func (m *ConsecutiveKeyMap[K, V]) Values() []V {
	return slices.Clone(m.t.data())
}

// ForEach calls fn for every entry in insertion order until fn returns true.
func (m *ConsecutiveKeyMap[K, V]) ForEach(fn func(key K, val *V) bool) {
	m.t.forEach(func(i int, v *V) bool {
		return fn(consecutiveKey[K](&m.t.keyed, i), v)
	})
}

func (m *ConsecutiveKeyMap[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		m.ForEach(func(key K, val *V) bool {
			return !yield(key, val)
		})
	}
}

// Merge moves the entries of other whose keys are missing in m.
func (m *ConsecutiveKeyMap[K, V]) Merge(other *ConsecutiveKeyMap[K, V]) {
	m.t.merge(other.t)
}

func (m *ConsecutiveKeyMap[K, V]) Swap(other *ConsecutiveKeyMap[K, V]) {
	m.t, other.t = other.t, m.t
}

func (m *ConsecutiveKeyMap[K, V]) Clone() *ConsecutiveKeyMap[K, V] {
	return &ConsecutiveKeyMap[K, V]{t: m.t.clone()}
}

func (m *ConsecutiveKeyMap[K, V]) Equal(other *ConsecutiveKeyMap[K, V], eq func(a, b V) bool) bool {
	return m.t.equal(other.t, func(a, b *V) bool {
		return eq(*a, *b)
	})
}

// SetWideScan picks the chunked (on) or the plain hash scan.
func (m *ConsecutiveKeyMap[K, V]) SetWideScan(on bool) {
	m.t.scan = scanFor(on)
}
