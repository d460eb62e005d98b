// Package critbit implements a crit-bit tree mapping strings to values.
//
// Keys are kept in lexicographic byte order, so iteration is sorted and all
// keys sharing a prefix can be visited without touching the others. Values
// are boxed: pointers returned by the Map stay valid until their key is
// erased.
package critbit

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// ref is either a leaf (node == nil) or a link to an inner node.
type ref[V any] struct {
	node *node[V]
	key  string
	val  *V
}

type node[V any] struct {
	child [2]ref[V]
	// off is the offset of the differing byte
	off int
	// bit is the single crit bit of the differing byte
	bit uint16
}

// Map is a crit-bit tree. The zero value is an empty map ready to use.
type Map[V any] struct {
	size int
	root ref[V]
}

func NewMap[V any]() *Map[V] {
	return &Map[V]{}
}

// byteAt returns the byte of key at off with a presence bit on top, so that
// a missing byte sorts before any present one, including zero.
func byteAt(key string, off int) uint16 {
	if off < len(key) {
		return 0x100 | uint16(key[off])
	}
	return 0
}

// dir calculates the direction for the given key
func (n *node[V]) dir(key string) int {
	if byteAt(key, n.off)&n.bit != 0 {
		return 1
	}
	return 0
}

// critBit finds the first differing byte of a and b and its highest
// differing bit. bit is zero when the keys are equal.
func critBit(a, b string) (off int, bit uint16) {
	n := max(len(a), len(b))

	for off = 0; off < n; off++ {
		if bit = byteAt(a, off) ^ byteAt(b, off); bit != 0 {
			break
		}
	}
	if bit == 0 {
		return n, 0
	}

	bit |= bit >> 1
	bit |= bit >> 2
	bit |= bit >> 4
	bit |= bit >> 8

	return off, bit &^ (bit >> 1)
}

// Len returns the number of keys in the tree.
func (m *Map[V]) Len() int {
	return m.size
}

func (m *Map[V]) Empty() bool {
	return m.size == 0
}

// leaf walks for the best member of key.
func (m *Map[V]) leaf(key string) *ref[V] {
	if m.size == 0 {
		return nil
	}

	p := &m.root
	for p.node != nil {
		p = &p.node.child[p.node.dir(key)]
	}

	return p
}

func (m *Map[V]) Find(key string) *V {
	if p := m.leaf(key); p != nil && p.key == key {
		return p.val
	}
	return nil
}

func (m *Map[V]) Get(key string) (val V, ok bool) {
	if p := m.Find(key); p != nil {
		return *p, true
	}
	return
}

func (m *Map[V]) Contains(key string) bool {
	return m.Find(key) != nil
}

// At returns a pointer to the value of key. It panics when key is missing.
func (m *Map[V]) At(key string) *V {
	if p := m.Find(key); p != nil {
		return p
	}
	panic(errors.AssertionFailedf("critbit: key %q not found", key))
}

func (m *Map[V]) Index(key string) *V {
	p, _ := m.TryEmplace(key, func() V {
		var zero V
		return zero
	})
	return p
}

func (m *Map[V]) Insert(key string, val V) (*V, bool) {
	return m.TryEmplace(key, func() V { return val })
}

func (m *Map[V]) InsertOrAssign(key string, val V) (*V, bool) {
	p, inserted := m.Insert(key, val)
	if !inserted {
		*p = val
	}
	return p, inserted
}

// TryEmplace inserts ctor() under key unless the key is present.
func (m *Map[V]) TryEmplace(key string, ctor func() V) (*V, bool) {
	if m.size == 0 {
		m.root = ref[V]{key: key, val: box(ctor())}
		m.size++
		return m.root.val, true
	}

	p := m.leaf(key)

	off, bit := critBit(p.key, key)
	if bit == 0 {
		return p.val, false
	}

	var ndir int
	if byteAt(p.key, off)&bit != 0 {
		ndir = 1
	}

	nn := &node[V]{off: off, bit: bit}
	nn.child[1-ndir] = ref[V]{key: key, val: box(ctor())}

	// walk for best insertion node
	wp := &m.root
	for wp.node != nil {
		n := wp.node
		if n.off > off || n.off == off && n.bit < bit {
			break
		}
		wp = &n.child[n.dir(key)]
	}

	nn.child[ndir] = *wp
	*wp = ref[V]{node: nn}
	m.size++

	return nn.child[1-ndir].val, true
}

func box[V any](val V) *V {
	return &val
}

func (m *Map[V]) Erase(key string) int {
	if m.size == 0 {
		return 0
	}

	var (
		wp  *ref[V]
		dir int
		p   = &m.root
	)

	for p.node != nil {
		wp = p
		dir = p.node.dir(key)
		p = &p.node.child[dir]
	}

	if p.key != key {
		return 0
	}

	m.size--

	if wp == nil {
		m.root = ref[V]{}
	} else {
		*wp = wp.node.child[1-dir]
	}

	return 1
}

func (m *Map[V]) Clear() {
	*m = Map[V]{}
}

// ForEach calls fn for every entry in key order until fn returns true.
func (m *Map[V]) ForEach(fn func(key string, val *V) bool) {
	m.Iter("", func(key string, val *V) bool {
		return !fn(key, val)
	})
}

// Iter calls fn for all keys with the given prefix in key order. fn continues
// the walk by returning true or aborts it with false. Iter reports whether
// all prefixed keys were visited.
func (m *Map[V]) Iter(prefix string, fn func(key string, val *V) bool) bool {
	if m.size == 0 {
		return true
	}
	if prefix == "" {
		return walk(&m.root, fn)
	}

	p, top := &m.root, &m.root
	for p.node != nil {
		newtop := p.node.off < len(prefix)
		p = &p.node.child[p.node.dir(prefix)]
		if newtop {
			top = p
		}
	}

	if len(p.key) < len(prefix) || p.key[:len(prefix)] != prefix {
		return true
	}

	return walk(top, fn)
}

// walk visits the leaves under p left to right without recursion.
func walk[V any](p *ref[V], fn func(key string, val *V) bool) bool {
	stack := []*ref[V]{p}

	for l := len(stack); l > 0; l = len(stack) {
		p = stack[l-1]
		stack = stack[:l-1]

		if p.node == nil {
			if !fn(p.key, p.val) {
				return false
			}
			continue
		}

		stack = append(stack, &p.node.child[1], &p.node.child[0])
	}

	return true
}

// All iterates over the entries whose keys start with prefix, in key order.
func (m *Map[V]) All(prefix string) iter.Seq2[string, *V] {
	return func(yield func(string, *V) bool) {
		m.Iter(prefix, yield)
	}
}

// Keys returns all keys in sorted order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.size)

	m.Iter("", func(key string, _ *V) bool {
		keys = append(keys, key)
		return true
	})

	return keys
}

// Merge assigns every entry of other whose key starts with prefix to m.
func (m *Map[V]) Merge(other *Map[V], prefix string) *Map[V] {
	if other != nil {
		other.Iter(prefix, func(key string, val *V) bool {
			m.InsertOrAssign(key, *val)
			return true
		})
	}
	return m
}

// Clone returns a copy of m with the same shape and copied values.
func (m *Map[V]) Clone() *Map[V] {
	dup := &Map[V]{size: m.size}
	if m.size > 0 {
		dup.root = cloneRef(m.root)
	}
	return dup
}

func cloneRef[V any](r ref[V]) ref[V] {
	if r.node == nil {
		return ref[V]{key: r.key, val: box(*r.val)}
	}

	n := &node[V]{off: r.node.off, bit: r.node.bit}
	n.child[0] = cloneRef(r.node.child[0])
	n.child[1] = cloneRef(r.node.child[1])

	return ref[V]{node: n}
}
