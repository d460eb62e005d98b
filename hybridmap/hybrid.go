package hybridmap

import (
	"iter"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/aglyzov/go-flat/flatmap"
)

// HybridMap starts with a small map type S and switches to a big map type B
// once it holds more than Config.MaxSmallSize entries or is asked to reserve
// room for more. The switch is one way: only Clear brings the small tier
// back.
//
// Exactly one tier is alive at any time; the other one is the zero value of
// its type.
type HybridMap[K, V any, S Map[K, V], B Map[K, V]] struct {
	small      S
	big        B
	usingSmall bool

	cfg Config[K, V, S, B]
	log *zap.Logger
}

// New returns an empty HybridMap using the small tier.
func New[K, V any, S Map[K, V], B Map[K, V]](cfg Config[K, V, S, B], opts ...Option) *HybridMap[K, V, S, B] {
	if cfg.NewSmall == nil || cfg.NewBig == nil {
		panic(errors.AssertionFailedf("hybridmap: both tier factories are required"))
	}
	if cfg.MaxSmallSize < 0 {
		panic(errors.AssertionFailedf("hybridmap: negative small size limit %d", cfg.MaxSmallSize))
	}
	if cfg.Transfer == nil {
		cfg.Transfer = DefaultTransfer[K, V, S, B]
	}

	o := buildOptions(opts)

	return &HybridMap[K, V, S, B]{
		small:      cfg.NewSmall(),
		usingSmall: true,
		cfg:        cfg,
		log:        o.log,
	}
}

// NewFrom returns a HybridMap holding entries; for duplicate keys the first
// one wins. It starts in the big tier when there are more entries than the
// small tier may hold.
func NewFrom[K, V any, S Map[K, V], B Map[K, V]](cfg Config[K, V, S, B], entries []flatmap.Entry[K, V], opts ...Option) *HybridMap[K, V, S, B] {
	h := New(cfg, opts...)

	if len(entries) > cfg.MaxSmallSize {
		if err := h.switchToBig(len(entries)); err != nil {
			panic(err)
		}
	}
	for _, e := range entries {
		h.Insert(e.Key, e.Val)
	}

	return h
}

// UsingSmallMap reports whether the small tier is live. It turns false on
// the first switch and stays so until Clear.
func (h *HybridMap[K, V, S, B]) UsingSmallMap() bool {
	return h.usingSmall
}

// SmallMap returns the small tier, or the zero S when the big one is live.
func (h *HybridMap[K, V, S, B]) SmallMap() S {
	return h.small
}

// BigMap returns the big tier, or the zero B when the small one is live.
func (h *HybridMap[K, V, S, B]) BigMap() B {
	return h.big
}

func (h *HybridMap[K, V, S, B]) live() Map[K, V] {
	if h.usingSmall {
		return h.small
	}
	return h.big
}

// Len returns the number of entries in the live tier.
func (h *HybridMap[K, V, S, B]) Len() int {
	return h.live().Len()
}

func (h *HybridMap[K, V, S, B]) Empty() bool {
	return h.Len() == 0
}

// Clear removes all entries. A big tier is discarded in favor of a fresh
// small one.
func (h *HybridMap[K, V, S, B]) Clear() {
	if h.usingSmall {
		h.small.Clear()
		return
	}

	h.big.Clear()
	h.big = *new(B)
	h.small = h.cfg.NewSmall()
	h.usingSmall = true

	h.log.Debug("hybrid map back to small tier",
		zap.Int("max_small_size", h.cfg.MaxSmallSize),
	)
}

// Reserve makes room for n entries. Asking for more than the small tier may
// hold switches to the big tier right away.
func (h *HybridMap[K, V, S, B]) Reserve(n int) error {
	if !h.usingSmall {
		return reserve[K, V](h.big, n)
	}
	if n <= h.cfg.MaxSmallSize {
		return reserve[K, V](h.small, n)
	}
	return h.switchToBig(n)
}

// Erase removes key and returns the number of removed entries. It never
// switches tiers.
func (h *HybridMap[K, V, S, B]) Erase(key K) int {
	return h.live().Erase(key)
}

// Find returns a pointer to the value of key or nil. The pointer is valid
// until the next modification.
func (h *HybridMap[K, V, S, B]) Find(key K) *V {
	return h.live().Find(key)
}

func (h *HybridMap[K, V, S, B]) Get(key K) (val V, ok bool) {
	if p := h.Find(key); p != nil {
		return *p, true
	}
	return
}

func (h *HybridMap[K, V, S, B]) Contains(key K) bool {
	return contains(h.live(), key)
}

func (h *HybridMap[K, V, S, B]) Count(key K) int {
	if h.Contains(key) {
		return 1
	}
	return 0
}

// At returns a pointer to the value of key. It panics when key is missing.
func (h *HybridMap[K, V, S, B]) At(key K) *V {
	if p := h.Find(key); p != nil {
		return p
	}
	panic(errors.AssertionFailedf("hybridmap: key %v not found", key))
}

// Index returns a pointer to the value of key, inserting a zero value when
// the key is missing.
func (h *HybridMap[K, V, S, B]) Index(key K) *V {
	p, _ := h.Emplace(key)
	return p
}

// Insert adds key with val unless key is present, switching to the big tier
// when the small one overflows. The returned pointer refers to the live tier
// after the call.
func (h *HybridMap[K, V, S, B]) Insert(key K, val V) (*V, bool) {
	return h.TryEmplace(key, func() V { return val })
}

func (h *HybridMap[K, V, S, B]) InsertOrAssign(key K, val V) (*V, bool) {
	if !h.usingSmall {
		return h.big.InsertOrAssign(key, val)
	}

	p, inserted := h.small.InsertOrAssign(key, val)
	if inserted {
		p = h.grown(key, p)
	}

	return p, inserted
}

func (h *HybridMap[K, V, S, B]) Emplace(key K) (*V, bool) {
	return h.TryEmplace(key, func() V {
		var zero V
		return zero
	})
}

// TryEmplace inserts ctor() under key unless the key is present. ctor runs
// only for missing keys.
func (h *HybridMap[K, V, S, B]) TryEmplace(key K, ctor func() V) (*V, bool) {
	if !h.usingSmall {
		return tryEmplace[K, V](h.big, key, ctor)
	}

	p, inserted := tryEmplace[K, V](h.small, key, ctor)
	if inserted {
		p = h.grown(key, p)
	}

	return p, inserted
}

// grown switches tiers when an insertion has overfilled the small one and
// returns the location of key's value afterwards.
func (h *HybridMap[K, V, S, B]) grown(key K, p *V) *V {
	if h.small.Len() <= h.cfg.MaxSmallSize {
		return p
	}
	if last := h.transfer(h.small.Len() + 2); last != nil {
		return last
	}
	return h.big.Find(key)
}

func (h *HybridMap[K, V, S, B]) transfer(capacity int) *V {
	var (
		size = h.small.Len()
		big  = h.cfg.NewBig()
	)

	// The transfer inserts one by one, so it still works without the
	// reservation.
	if err := reserve[K, V](big, capacity); err != nil {
		h.log.Debug("hybrid map big tier reservation failed",
			zap.Int("reserve", capacity),
			zap.Error(err),
		)
	}

	last := h.cfg.Transfer(h.small, big)
	h.install(big)

	h.log.Debug("hybrid map switched to big tier",
		zap.Int("size", size),
		zap.Int("max_small_size", h.cfg.MaxSmallSize),
		zap.Int("reserve", capacity),
	)

	return last
}

// switchToBig moves to a big tier with room for n entries. The small tier
// stays live when the reservation fails.
func (h *HybridMap[K, V, S, B]) switchToBig(n int) error {
	big := h.cfg.NewBig()
	if err := reserve[K, V](big, n); err != nil {
		return errors.Wrapf(err, "hybridmap: reserve %d", n)
	}
	if h.small.Len() > 0 {
		h.cfg.Transfer(h.small, big)
	}
	h.install(big)

	h.log.Debug("hybrid map switched to big tier",
		zap.Int("size", h.big.Len()),
		zap.Int("max_small_size", h.cfg.MaxSmallSize),
		zap.Int("reserve", n),
	)

	return nil
}

// install makes big the live tier and drops the small one as is.
func (h *HybridMap[K, V, S, B]) install(big B) {
	h.small = *new(S)
	h.big = big
	h.usingSmall = false
}

// ForEach calls fn for every entry in the order of the live tier until fn
// returns true.
func (h *HybridMap[K, V, S, B]) ForEach(fn func(key K, val *V) bool) {
	h.live().ForEach(fn)
}

func (h *HybridMap[K, V, S, B]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		h.ForEach(func(key K, val *V) bool {
			return !yield(key, val)
		})
	}
}

// Clone returns a copy of h holding a copy of its live tier only.
func (h *HybridMap[K, V, S, B]) Clone() *HybridMap[K, V, S, B] {
	dup := &HybridMap[K, V, S, B]{
		usingSmall: h.usingSmall,
		cfg:        h.cfg,
		log:        h.log,
	}

	if h.usingSmall {
		dup.small = clone[K, V](h.small, h.cfg.NewSmall)
	} else {
		dup.big = clone[K, V](h.big, h.cfg.NewBig)
	}

	return dup
}

// CopyFrom replaces the contents of h with a copy of other's.
func (h *HybridMap[K, V, S, B]) CopyFrom(other *HybridMap[K, V, S, B]) {
	if h == other {
		return
	}

	dup := other.Clone()
	dup.log = h.log

	h.release()
	*h = *dup
}

// MoveFrom takes over the live tier of other, which is left empty in the
// small tier.
func (h *HybridMap[K, V, S, B]) MoveFrom(other *HybridMap[K, V, S, B]) {
	if h == other {
		return
	}

	h.release()

	h.small, h.big, h.usingSmall = other.small, other.big, other.usingSmall
	h.cfg = other.cfg

	other.small = other.cfg.NewSmall()
	other.big = *new(B)
	other.usingSmall = true
}

func (h *HybridMap[K, V, S, B]) Swap(other *HybridMap[K, V, S, B]) {
	*h, *other = *other, *h
}

func (h *HybridMap[K, V, S, B]) release() {
	if h.usingSmall {
		h.small.Clear()
	} else {
		h.big.Clear()
	}
}
