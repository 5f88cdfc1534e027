package api

import "github.com/google/uuid"

// BlockLocation describes which nodes hold a replica of one block of a file
// and how much of the queried byte range that block covers.
type BlockLocation struct {
	// NodeIDs are the nodes holding a replica of this block.
	NodeIDs []uuid.UUID

	// Start is the absolute file offset where the covered range begins.
	Start int64

	// Length is the number of bytes of the queried range covered by this
	// block.
	Length int64
}

// BlockLocationService defines the contract for a distributed filesystem that
// can report replica placement.
//
// It abstracts away the details of the underlying block store (e.g., HDFS, an
// in-memory test store), allowing the planner to resolve data locality
// agnostically. Implementations must be safe for concurrent use, since several
// jobs may be planned at once.
type BlockLocationService interface {
	// Locate returns the block locations covering [start, start+length) of
	// the file at path.
	//
	// Parameters:
	//   path   - The file path inside the filesystem.
	//   scheme - The URI scheme the split was addressed with.
	//   start  - The byte offset the range begins at.
	//   length - The number of bytes in the range.
	//
	// Failures are reported as LocationServiceError.
	Locate(path, scheme string, start, length int64) ([]BlockLocation, error)

	// IsProxyPath reports whether path is served by a secondary filesystem
	// through this one, in which case its block locations mean nothing.
	IsProxyPath(path string) bool
}

// Stater reports file sizes. Job descriptors use it to cut files into splits.
type Stater interface {
	Size(path string) (int64, error)
}
