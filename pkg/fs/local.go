package fs

import (
	"errors"
	"os"

	"github.com/prxssh/shardplan/api"
	"storj.io/common/memory"
)

// Local serves block locations for files on the local disk. Every block is
// held by the topology nodes that advertise the local host name.
type Local struct {
	host      string
	blockSize int64
	top       api.Topology
}

// NewLocalStorage returns a Local filesystem for host. If host is empty the
// machine's host name is used.
func NewLocalStorage(top api.Topology, host string, blockSize memory.Size) (*Local, error) {
	if top == nil {
		return nil, errors.New("fs: topology is required")
	}

	if blockSize <= 0 {
		return nil, errors.New("fs: block size must be greater than 0")
	}

	if host == "" {
		name, err := os.Hostname()
		if err != nil {
			return nil, err
		}
		host = name
	}

	return &Local{host: host, blockSize: int64(blockSize), top: top}, nil
}

func (l *Local) Size(path string) (int64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	if stat.IsDir() {
		return 0, errors.New("fs: " + path + " is a directory")
	}

	return stat.Size(), nil
}

func (l *Local) Locate(path, _ string, start, length int64) ([]api.BlockLocation, error) {
	size, err := l.Size(path)
	if err != nil {
		return nil, api.LocationServiceError.Wrap(err)
	}

	if err := checkRange(path, start, length, size); err != nil {
		return nil, err
	}

	owners := hostIndex(l.top.Nodes())[l.host]

	ranges := blockRanges(start, length, l.blockSize)
	locs := make([]api.BlockLocation, 0, len(ranges))
	for _, r := range ranges {
		locs = append(locs, api.BlockLocation{NodeIDs: owners, Start: r.start, Length: r.length})
	}

	return locs, nil
}

// IsProxyPath always reports false: local files are never proxied.
func (l *Local) IsProxyPath(string) bool { return false }
