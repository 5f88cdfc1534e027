package hash

import "hash/fnv"

// FNV maps key to a bucket in [0, n).
func FNV(key string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(key))

	// mask with 0x7fffffff to ensure non-negative number before mod
	return int(h.Sum32()&0x7fffffff) % n
}

// Pick returns k distinct buckets in [0, n) for key: the FNV bucket followed
// by its successors, wrapping around. k is capped at n.
func Pick(key string, n, k int) []int {
	if n <= 0 || k <= 0 {
		return nil
	}
	k = min(k, n)

	first := FNV(key, n)
	out := make([]int, k)
	for i := range out {
		out[i] = (first + i) % n
	}

	return out
}
