package api

import (
	"fmt"
	"net/url"
	"strings"

	"storj.io/common/memory"
)

// InputSplit is a unit of map task input. It is a closed set: every split is
// either a *BasicSplit or a *BlockSplit.
type InputSplit interface {
	// Hosts returns the host names the split prefers to run on.
	Hosts() []string

	isSplit()
}

// BasicSplit is a split with no file range attached, only host preferences.
type BasicSplit struct {
	Name      string
	HostNames []string
}

func (s *BasicSplit) Hosts() []string { return s.HostNames }

func (s *BasicSplit) String() string {
	return fmt.Sprintf("basic(%s)", s.Name)
}

func (*BasicSplit) isSplit() {}

// BlockSplit is a byte range of a file.
type BlockSplit struct {
	// Scheme is the URI scheme of the file (e.g., "hdfs", "file"). Only
	// splits on the distributed filesystem scheme are resolved through block
	// locations.
	Scheme string

	// Path is the file path without scheme or authority.
	Path string

	// Start is the byte offset where the split begins.
	Start int64

	// Length is the length of the split in bytes.
	Length int64

	// HostNames are the hosts reported by whoever produced the split.
	HostNames []string
}

// ParseBlockSplit builds a BlockSplit from a file URI such as
// "hdfs://namenode:8020/logs/a.txt". A URI with no scheme is treated as a
// local file.
func ParseBlockSplit(uri string, start, length int64, hosts ...string) (*BlockSplit, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("api: invalid split uri %q: %w", uri, err)
	}

	if start < 0 || length < 0 {
		return nil, fmt.Errorf("api: invalid split range [%d, +%d)", start, length)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "file"
	}

	return &BlockSplit{
		Scheme:    scheme,
		Path:      u.Path,
		Start:     start,
		Length:    length,
		HostNames: hosts,
	}, nil
}

func (s *BlockSplit) Hosts() []string { return s.HostNames }

func (s *BlockSplit) String() string {
	return fmt.Sprintf(
		"%s://%s[%d:+%s]",
		s.Scheme, s.Path, s.Start, memory.Size(s.Length).String(),
	)
}

func (*BlockSplit) isSplit() {}
