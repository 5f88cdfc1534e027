package fs

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

// blockRange is the part of one fixed-size block covered by a query.
type blockRange struct {
	index  int64
	start  int64
	length int64
}

// blockRanges cuts [start, start+length) at blockSize boundaries. An empty
// range yields the block containing start.
func blockRanges(start, length, blockSize int64) []blockRange {
	if length == 0 {
		return []blockRange{{index: start / blockSize, start: start}}
	}

	var out []blockRange
	for off, end := start, start+length; off < end; {
		idx := off / blockSize
		next := min((idx+1)*blockSize, end)

		out = append(out, blockRange{index: idx, start: off, length: next - off})
		off = next
	}

	return out
}

func checkRange(path string, start, length, size int64) error {
	if start < 0 || length < 0 || start+length > size {
		return api.LocationServiceError.New(
			"fs: range [%d, +%d) outside %s of size %d", start, length, path, size,
		)
	}
	return nil
}

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hostIndex maps host names to the topology nodes advertising them.
func hostIndex(nodes []api.Node) map[string][]uuid.UUID {
	idx := make(map[string][]uuid.UUID, len(nodes))
	for _, node := range nodes {
		for _, host := range node.HostNames {
			if !slices.Contains(idx[host], node.ID) {
				idx[host] = append(idx[host], node.ID)
			}
		}
	}
	return idx
}
