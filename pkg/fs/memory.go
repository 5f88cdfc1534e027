package fs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
	"github.com/prxssh/shardplan/pkg/hash"
	"storj.io/common/memory"
)

// Memory is an in-memory block store. Files are striped into fixed-size
// blocks whose replicas are placed on nodes by hashing the block name, so the
// same file always lands on the same nodes.
type Memory struct {
	blockSize   int64
	replication int
	nodes       []uuid.UUID

	mu      sync.RWMutex
	files   map[string]int64
	proxies []string
}

func NewMemory(nodes []uuid.UUID, blockSize memory.Size, replication int) (*Memory, error) {
	if blockSize <= 0 {
		return nil, errors.New("fs: block size must be greater than 0")
	}

	if replication <= 0 {
		return nil, errors.New("fs: replication must be greater than 0")
	}

	if len(nodes) == 0 {
		return nil, errors.New("fs: at least one node is required")
	}

	return &Memory{
		blockSize:   int64(blockSize),
		replication: replication,
		nodes:       append([]uuid.UUID(nil), nodes...),
		files:       make(map[string]int64),
	}, nil
}

// AddFile registers a file of the given size, replacing any previous one.
func (m *Memory) AddFile(path string, size memory.Size) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = int64(size)
}

// AddProxy marks every path under prefix as served by another filesystem.
func (m *Memory) AddProxy(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.proxies = append(m.proxies, prefix)
}

func (m *Memory) Size(path string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size, ok := m.files[path]
	if !ok {
		return 0, fmt.Errorf("fs: no such file %s", path)
	}
	return size, nil
}

func (m *Memory) Locate(path, _ string, start, length int64) ([]api.BlockLocation, error) {
	m.mu.RLock()
	size, ok := m.files[path]
	m.mu.RUnlock()

	if !ok {
		return nil, api.LocationServiceError.New("fs: no such file %s", path)
	}

	if err := checkRange(path, start, length, size); err != nil {
		return nil, err
	}

	ranges := blockRanges(start, length, m.blockSize)
	locs := make([]api.BlockLocation, 0, len(ranges))

	for _, r := range ranges {
		replicas := hash.Pick(fmt.Sprintf("%s#%d", path, r.index), len(m.nodes), m.replication)

		ids := make([]uuid.UUID, len(replicas))
		for i, n := range replicas {
			ids[i] = m.nodes[n]
		}

		locs = append(locs, api.BlockLocation{NodeIDs: ids, Start: r.start, Length: r.length})
	}

	return locs, nil
}

func (m *Memory) IsProxyPath(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return hasPrefix(path, m.proxies)
}
