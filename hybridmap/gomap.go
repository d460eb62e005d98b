package hybridmap

// GoMap adapts a builtin map to the Map interface.
type GoMap[K comparable, V any] struct {
	m map[K]*V
}

func NewGoMap[K comparable, V any](capacity int) *GoMap[K, V] {
	return &GoMap[K, V]{m: make(map[K]*V, capacity)}
}

func (g *GoMap[K, V]) Len() int {
	return len(g.m)
}

func (g *GoMap[K, V]) Find(key K) *V {
	return g.m[key]
}

func (g *GoMap[K, V]) Contains(key K) bool {
	_, ok := g.m[key]
	return ok
}

func (g *GoMap[K, V]) Index(key K) *V {
	if p, ok := g.m[key]; ok {
		return p
	}

	p := new(V)
	g.m[key] = p

	return p
}

func (g *GoMap[K, V]) Insert(key K, val V) (*V, bool) {
	if p, ok := g.m[key]; ok {
		return p, false
	}

	g.m[key] = &val

	return &val, true
}

func (g *GoMap[K, V]) InsertOrAssign(key K, val V) (*V, bool) {
	if p, ok := g.m[key]; ok {
		*p = val
		return p, false
	}

	g.m[key] = &val

	return &val, true
}

func (g *GoMap[K, V]) TryEmplace(key K, ctor func() V) (*V, bool) {
	if p, ok := g.m[key]; ok {
		return p, false
	}

	p := new(V)
	*p = ctor()
	g.m[key] = p

	return p, true
}

func (g *GoMap[K, V]) Erase(key K) int {
	if _, ok := g.m[key]; !ok {
		return 0
	}
	delete(g.m, key)
	return 1
}

func (g *GoMap[K, V]) Clear() {
	clear(g.m)
}

// ForEach calls fn for every entry in no particular order until fn returns
// true.
func (g *GoMap[K, V]) ForEach(fn func(key K, val *V) bool) {
	for k, p := range g.m {
		if fn(k, p) {
			return
		}
	}
}

func (g *GoMap[K, V]) Clone() *GoMap[K, V] {
	dup := NewGoMap[K, V](len(g.m))

	for k, p := range g.m {
		v := *p
		dup.m[k] = &v
	}

	return dup
}
