package api

import (
	"github.com/google/uuid"
	"storj.io/common/memory"
)

// Metrics is an optional performance snapshot of a node. Zero values mean
// unknown.
type Metrics struct {
	// CPUs is the number of cores available to task execution.
	CPUs int

	// MaxMemory is the memory available to task execution.
	MaxMemory memory.Size

	// LoadAverage is the one minute load average reported by the node.
	LoadAverage float64
}

// Node is a member of the cluster that can execute map and reduce tasks.
type Node struct {
	// ID is the unique identity of the node.
	ID uuid.UUID

	// HostNames are the host names and addresses the node is reachable by.
	// Splits report their preferred hosts by these names.
	HostNames []string

	// Metrics is optional and only consulted by custom weight functions.
	Metrics Metrics
}

// Topology supplies the nodes eligible for a plan.
type Topology interface {
	Nodes() []Node
}

// Nodes is a Topology backed by a fixed slice.
type Nodes []Node

func (n Nodes) Nodes() []Node { return n }
