package hybridmap

// Map is the surface a HybridMap needs from each of its tiers. The flat
// maps of package flatmap, the crit-bit tree of package critbit, SwissMap
// and GoMap all satisfy it.
//
// Pointers returned by Find, Index, Insert and InsertOrAssign must stay
// valid at least until the next modification of the map.
type Map[K, V any] interface {
	Len() int
	Find(key K) *V
	Index(key K) *V
	Insert(key K, val V) (*V, bool)
	InsertOrAssign(key K, val V) (*V, bool)
	Erase(key K) int
	Clear()
	ForEach(fn func(key K, val *V) bool)
}

// Optional tier capabilities, discovered with type assertions.
type (
	reserver interface {
		Reserve(n int) error
	}

	container[K any] interface {
		Contains(key K) bool
	}

	emplacer[K, V any] interface {
		TryEmplace(key K, ctor func() V) (*V, bool)
	}

	cloner[M any] interface {
		Clone() M
	}
)

func reserve[K, V any](m Map[K, V], n int) error {
	if r, ok := m.(reserver); ok {
		return r.Reserve(n)
	}
	return nil
}

func contains[K, V any](m Map[K, V], key K) bool {
	if c, ok := m.(container[K]); ok {
		return c.Contains(key)
	}
	return m.Find(key) != nil
}

func tryEmplace[K, V any](m Map[K, V], key K, ctor func() V) (*V, bool) {
	if e, ok := m.(emplacer[K, V]); ok {
		return e.TryEmplace(key, ctor)
	}
	if p := m.Find(key); p != nil {
		return p, false
	}
	return m.Insert(key, ctor())
}

// clone copies m with its own Clone when it has one, otherwise it fills a
// fresh instance from fresh().
func clone[K, V any, M Map[K, V]](m M, fresh func() M) M {
	if c, ok := any(m).(cloner[M]); ok {
		return c.Clone()
	}

	dup := fresh()
	_ = reserve[K, V](dup, m.Len())

	m.ForEach(func(key K, val *V) bool {
		dup.Insert(key, *val)
		return false
	})

	return dup
}
