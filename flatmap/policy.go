package flatmap

import (
	"hash/maphash"
	"reflect"
	"strings"
	"sync"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// KeyPolicy tunes key lookups of the linear containers.
type KeyPolicy[K comparable] struct {
	// Hash returns the reduced (32-bit) hash of a key. When set, a hash
	// column is kept next to the elements and scanned before any key is
	// compared. nil disables hashing.
	Hash func(K) uint32
	// Equal compares two keys; nil means ==.
	Equal func(a, b K) bool
	// EqualWhenHashEqual compares two keys already known to have equal
	// hashes; nil means Equal.
	EqualWhenHashEqual func(a, b K) bool
	// AssignExistingForMerge makes Merge copy from the source, assigning
	// values of keys present in both, instead of splicing absent keys out of
	// the source.
	AssignExistingForMerge bool
}

// HashEqualer is implemented by keys which can tell equality cheaper once
// their reduced hashes are known to match.
type HashEqualer[K any] interface {
	EqualWhenHashEqual(other K) bool
}

// DefaultKeyPolicy is the reduced-hash policy used by LinearMap and
// LinearSet unless another one is given.
func DefaultKeyPolicy[K comparable]() KeyPolicy[K] {
	h := hasherOf[K]()

	p := KeyPolicy[K]{Hash: h.hash}

	var zero K
	if _, ok := any(zero).(HashEqualer[K]); ok {
		p.EqualWhenHashEqual = func(a, b K) bool {
			return any(a).(HashEqualer[K]).EqualWhenHashEqual(b)
		}
	} else if h.reinterpret {
		p.EqualWhenHashEqual = alwaysEqual[K]
	}

	return p
}

// PlainKeyPolicy disables hashing: lookups compare every key with ==.
func PlainKeyPolicy[K comparable]() KeyPolicy[K] {
	return KeyPolicy[K]{}
}

// EqualFoldPolicy matches string keys case-insensitively, without hashing.
func EqualFoldPolicy() KeyPolicy[string] {
	return KeyPolicy[string]{Equal: strings.EqualFold}
}

// WithAssignExistingForMerge returns a copy of p with the assigning merge
// mode switched on.
func (p KeyPolicy[K]) WithAssignExistingForMerge() KeyPolicy[K] {
	p.AssignExistingForMerge = true
	return p
}

func (p KeyPolicy[K]) equal() func(a, b K) bool {
	if p.Equal != nil {
		return p.Equal
	}
	return isEqual[K]
}

func (p KeyPolicy[K]) equalWhenHashEqual() func(a, b K) bool {
	if p.EqualWhenHashEqual != nil {
		return p.EqualWhenHashEqual
	}
	return p.equal()
}

// ReducedHash returns the 32-bit hash DefaultKeyPolicy uses for k. Integers
// of at most 32 bits hash to their zero-extended bit pattern.
func ReducedHash[K comparable](k K) uint32 {
	return hasherOf[K]().hash(k)
}

// Reinterpretable reports whether keys of type K are their own reduced hash.
func Reinterpretable[K comparable]() bool {
	return hasherOf[K]().reinterpret
}

func isEqual[K comparable](a, b K) bool { return a == b }

func alwaysEqual[K any](K, K) bool { return true }

type hasher[K comparable] struct {
	hash        func(K) uint32
	reinterpret bool
}

var (
	hashers sync.Map // reflect.Type -> hasher[K]
	seed    = maphash.MakeSeed()
)

func hasherOf[K comparable]() hasher[K] {
	typ := reflect.TypeFor[K]()

	if h, ok := hashers.Load(typ); ok {
		return h.(hasher[K])
	}

	h := newHasher[K](typ)
	hashers.Store(typ, h)

	return h
}

func newHasher[K comparable](typ reflect.Type) hasher[K] {
	switch {
	case isInteger(typ.Kind()) && typ.Size() <= 4:
		return hasher[K]{hash: zeroExtend[K](typ.Size()), reinterpret: true}
	case typ.Kind() == reflect.String:
		return hasher[K]{hash: func(k K) uint32 {
			return uint32(xxhash.Sum64String(*(*string)(unsafe.Pointer(&k))))
		}}
	case isRawMemory(typ):
		size := typ.Size()
		return hasher[K]{hash: func(k K) uint32 {
			return uint32(xxhash.Sum64(unsafe.Slice((*byte)(unsafe.Pointer(&k)), size)))
		}}
	default:
		return hasher[K]{hash: func(k K) uint32 {
			return uint32(maphash.Comparable(seed, k))
		}}
	}
}

func zeroExtend[K any](size uintptr) func(K) uint32 {
	switch size {
	case 1:
		return func(k K) uint32 { return uint32(*(*uint8)(unsafe.Pointer(&k))) }
	case 2:
		return func(k K) uint32 { return uint32(*(*uint16)(unsafe.Pointer(&k))) }
	default:
		return func(k K) uint32 { return *(*uint32)(unsafe.Pointer(&k)) }
	}
}

func isInteger(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// isRawMemory reports whether equal values of typ always have equal bytes:
// integers and padding-free arrays or structs of them.
func isRawMemory(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool:
		return true
	case reflect.Array:
		return typ.Len() > 0 && isRawMemory(typ.Elem())
	case reflect.Struct:
		var size uintptr
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if f.Name == "_" || !isRawMemory(f.Type) {
				return false
			}
			size += f.Type.Size()
		}
		return typ.NumField() > 0 && size == typ.Size()
	default:
		return isInteger(typ.Kind())
	}
}
