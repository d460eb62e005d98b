package hybridmap

// Transfer moves every entry of small into big. The small instance is
// discarded afterwards without clearing it, so the entries change owners
// rather than being copied.
//
// A non-nil result must point to the big-tier value of the key whose
// insertion caused the switch; nil makes the HybridMap look the key up.
type Transfer[K, V any, S Map[K, V], B Map[K, V]] func(small S, big B) *V

// DefaultTransfer inserts the entries into big in the order small yields
// them and reports nothing.
func DefaultTransfer[K, V any, S Map[K, V], B Map[K, V]](small S, big B) *V {
	small.ForEach(func(key K, val *V) bool {
		big.Insert(key, *val)
		return false
	})
	return nil
}

// TransferReportLast works like DefaultTransfer and reports the value of the
// last entry moved. It suits small tiers that iterate in insertion order,
// where the last entry is the one that triggered the switch.
func TransferReportLast[K, V any, S Map[K, V], B Map[K, V]](small S, big B) *V {
	var last *V

	small.ForEach(func(key K, val *V) bool {
		last, _ = big.Insert(key, *val)
		return false
	})

	return last
}
