package flatmap

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// scanFunc returns the first index i with hashes[i] == h and match(i), or -1.
type scanFunc func(hashes []uint32, h uint32, match func(i int) bool) int

// wideScan tells whether new containers start with the chunked scan.
var wideScan = cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD

func defaultScan() scanFunc {
	return scanFor(wideScan)
}

func scanFor(wide bool) scanFunc {
	if wide {
		return scanWide
	}
	return scanScalar
}

func scanScalar(hashes []uint32, h uint32, match func(i int) bool) int {
	for i, x := range hashes {
		if x == h && match(i) {
			return i
		}
	}
	return -1
}

// scanWide compares the column four lanes at a time and visits only the
// lanes of a chunk whose hash matched.
func scanWide(hashes []uint32, h uint32, match func(i int) bool) int {
	var (
		n = len(hashes)
		i = 0
	)

	for ; i <= n-4; i += 4 {
		lanes := hashes[i : i+4 : i+4]
		mask := laneBit(lanes[0] == h, 0) |
			laneBit(lanes[1] == h, 1) |
			laneBit(lanes[2] == h, 2) |
			laneBit(lanes[3] == h, 3)

		for ; mask != 0; mask &= mask - 1 {
			if j := i + bits.TrailingZeros64(mask); match(j) {
				return j
			}
		}
	}

	for ; i < n; i++ {
		if hashes[i] == h && match(i) {
			return i
		}
	}
	return -1
}

func laneBit(eq bool, lane uint) uint64 {
	if eq {
		return 1 << lane
	}
	return 0
}
