package flatmap

import (
	"github.com/aglyzov/go-flat/traits"
)

// linear keeps the elements in insertion order and finds them by scanning,
// through the hash column when the policy provides a hash.
type linear[K comparable, E any] struct {
	keyed[E]
	policy KeyPolicy[K]
	keyOf  func(s *keyed[E], i int) K
	assign func(dst, src *E)
	eq     func(a, b K) bool
	eqHash func(a, b K) bool
	scan   scanFunc
	// consecutive tables store the key in the hash column only.
	consecutive bool
}

func newLinear[K comparable, E any](policy KeyPolicy[K], keyOf func(s *keyed[E], i int) K) *linear[K, E] {
	s := &linear[K, E]{
		policy: policy,
		keyOf:  keyOf,
		eq:     policy.equal(),
		eqHash: policy.equalWhenHashEqual(),
		scan:   defaultScan(),
	}
	s.hashed = policy.Hash != nil
	return s
}

func (s *linear[K, E]) locate(key K) (int, bool, uint32) {
	if !s.hashed {
		for i := 0; i < s.Len(); i++ {
			if s.eq(s.keyOf(&s.keyed, i), key) {
				return i, true, 0
			}
		}
		return s.Len(), false, 0
	}

	var (
		h     = s.policy.Hash(key)
		match = func(i int) bool { return s.eqHash(s.keyOf(&s.keyed, i), key) }
	)

	if s.consecutive {
		match = func(int) bool { return true }
	}

	if pos := s.scan(s.hashes.Data(), h, match); pos >= 0 {
		return pos, true, h
	}
	return s.Len(), false, h
}

// place appends e, linear tables ignore pos.
func (s *linear[K, E]) place(_ int, e E, h uint32) *E {
	return s.push(e, h)
}

// merge brings the keys of other missing in s. In splice mode they are moved
// out of other (colliding ones stay there); in assign mode other is left
// intact and present keys get their values assigned.
func (s *linear[K, E]) merge(other *linear[K, E]) {
	if s == other || other.Empty() {
		return
	}

	if s.policy.AssignExistingForMerge {
		for i := 0; i < other.Len(); i++ {
			pos, ok, h := s.locate(other.keyOf(&other.keyed, i))
			if ok {
				s.assign(s.at(pos), other.at(i))
				continue
			}
			var dup E
			traits.Copy(&dup, other.at(i))
			s.place(pos, dup, h)
		}
		return
	}

	if s.Empty() && s.hashed == other.hashed {
		s.moveFrom(&other.keyed)
		return
	}

	for i := 0; i < other.Len(); {
		pos, ok, h := s.locate(other.keyOf(&other.keyed, i))
		if ok {
			i++
			continue
		}
		e, _ := other.takeAt(i)
		s.place(pos, e, h)
	}
}

func (s *linear[K, E]) clone() *linear[K, E] {
	c := *s
	c.keyed = keyed[E]{hashed: s.hashed}
	c.seat(s.inline)
	c.copyFrom(&s.keyed)
	return &c
}

// equal compares the tables as sets since the order is not semantic.
func (s *linear[K, E]) equal(other *linear[K, E], eq func(a, b *E) bool) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		pos, ok, _ := other.locate(s.keyOf(&s.keyed, i))
		if !ok || (eq != nil && !eq(s.at(i), other.at(pos))) {
			return false
		}
	}
	return true
}

func linearEntryKey[K comparable, V any](s *keyed[Entry[K, V]], i int) K {
	return s.at(i).Key
}

func linearSetKey[K comparable](s *keyed[K], i int) K {
	return *s.at(i)
}

func assignVal[K comparable, V any](dst, src *Entry[K, V]) {
	traits.Destroy(&dst.Val)
	traits.Copy(&dst.Val, &src.Val)
}

// LinearMap is a map stored as an array of entries in insertion order.
// Lookups scan the reduced-hash column when the key policy hashes.
type LinearMap[K comparable, V any] struct {
	mapCore[K, V, *linear[K, Entry[K, V]]]
}

// NewLinearMap returns a LinearMap with the DefaultKeyPolicy.
func NewLinearMap[K comparable, V any](entries ...Entry[K, V]) *LinearMap[K, V] {
	return NewLinearMapPolicy(DefaultKeyPolicy[K](), entries...)
}

// NewLinearMapPolicy returns a LinearMap looking keys up with policy.
func NewLinearMapPolicy[K comparable, V any](policy KeyPolicy[K], entries ...Entry[K, V]) *LinearMap[K, V] {
	return newLinearMap(policy, 0, entries)
}

// NewInlineLinearMap is like NewLinearMap but keeps up to n entries in inline
// buffers set up once with the map. A small tier built this way does not
// allocate while it holds at most n entries.
func NewInlineLinearMap[K comparable, V any](n int, entries ...Entry[K, V]) *LinearMap[K, V] {
	return newLinearMap(DefaultKeyPolicy[K](), n, entries)
}

func NewInlineLinearMapPolicy[K comparable, V any](policy KeyPolicy[K], n int, entries ...Entry[K, V]) *LinearMap[K, V] {
	return newLinearMap(policy, n, entries)
}

func newLinearMap[K comparable, V any](policy KeyPolicy[K], inline int, entries []Entry[K, V]) *LinearMap[K, V] {
	t := newLinear(policy, linearEntryKey[K, V])
	t.assign = assignVal[K, V]
	t.seat(inline)

	m := &LinearMap[K, V]{}
	m.t = t

	for _, e := range entries {
		m.Insert(e.Key, e.Val)
	}
	return m
}

// Merge brings the entries of other whose keys are missing in m, appending
// them in the order of other. See KeyPolicy.AssignExistingForMerge. Both
// maps must use the same key policy.
func (m *LinearMap[K, V]) Merge(other *LinearMap[K, V]) {
	m.t.merge(other.t)
}

func (m *LinearMap[K, V]) Swap(other *LinearMap[K, V]) {
	m.t, other.t = other.t, m.t
}

func (m *LinearMap[K, V]) Clone() *LinearMap[K, V] {
	return &LinearMap[K, V]{mapCore[K, V, *linear[K, Entry[K, V]]]{t: m.t.clone()}}
}

// Equal reports whether both maps hold the same keys with values equal by
// eq, in any order.
func (m *LinearMap[K, V]) Equal(other *LinearMap[K, V], eq func(a, b V) bool) bool {
	return m.t.equal(other.t, func(a, b *Entry[K, V]) bool {
		return eq(a.Val, b.Val)
	})
}

// SetWideScan picks the chunked (on) or the plain hash scan. By default
// the chunked scan is used when the CPU has 128-bit vector units.
func (m *LinearMap[K, V]) SetWideScan(on bool) {
	m.t.scan = scanFor(on)
}

// LinearSet is a set stored as an array of keys in insertion order.
type LinearSet[K comparable] struct {
	setCore[K, *linear[K, K]]
}

// NewLinearSet returns a LinearSet with the DefaultKeyPolicy.
func NewLinearSet[K comparable](keys ...K) *LinearSet[K] {
	return newLinearSet(DefaultKeyPolicy[K](), 0, keys)
}

func NewLinearSetPolicy[K comparable](policy KeyPolicy[K], keys ...K) *LinearSet[K] {
	return newLinearSet(policy, 0, keys)
}

// NewInlineLinearSet is like NewLinearSet but keeps up to n keys in inline
// buffers.
func NewInlineLinearSet[K comparable](n int, keys ...K) *LinearSet[K] {
	return newLinearSet(DefaultKeyPolicy[K](), n, keys)
}

func newLinearSet[K comparable](policy KeyPolicy[K], inline int, keys []K) *LinearSet[K] {
	t := newLinear(policy, linearSetKey[K])
	t.assign = func(_, _ *K) {}
	t.seat(inline)

	s := &LinearSet[K]{}
	s.t = t

	for _, k := range keys {
		s.Insert(k)
	}
	return s
}

func (s *LinearSet[K]) Merge(other *LinearSet[K]) {
	s.t.merge(other.t)
}

func (s *LinearSet[K]) Swap(other *LinearSet[K]) {
	s.t, other.t = other.t, s.t
}

func (s *LinearSet[K]) Clone() *LinearSet[K] {
	return &LinearSet[K]{setCore[K, *linear[K, K]]{t: s.t.clone()}}
}

func (s *LinearSet[K]) Equal(other *LinearSet[K]) bool {
	return s.t.equal(other.t, nil)
}

// SetWideScan picks the chunked (on) or the plain hash scan. By default
// the chunked scan is used when the CPU has 128-bit vector units.
func (s *LinearSet[K]) SetWideScan(on bool) {
	s.t.scan = scanFor(on)
}
