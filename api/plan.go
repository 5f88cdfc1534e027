package api

import (
	"bytes"
	"iter"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Plan is the result of planning a job: which node runs which map splits and
// which reduce slots. A Plan is immutable once built.
type Plan struct {
	mappers  map[uuid.UUID][]InputSplit
	reducers map[uuid.UUID][]int
}

// NewPlan builds a plan from its map and reduce assignments. The maps are
// copied, so callers may reuse them.
func NewPlan(mappers map[uuid.UUID][]InputSplit, reducers map[uuid.UUID][]int) *Plan {
	p := &Plan{
		mappers:  make(map[uuid.UUID][]InputSplit, len(mappers)),
		reducers: make(map[uuid.UUID][]int, len(reducers)),
	}
	for id, splits := range mappers {
		if len(splits) > 0 {
			p.mappers[id] = slices.Clone(splits)
		}
	}
	for id, slots := range reducers {
		if len(slots) > 0 {
			p.reducers[id] = slices.Clone(slots)
		}
	}

	return p
}

// MapAssignment returns a copy of the split placement, keyed by node.
func (p *Plan) MapAssignment() map[uuid.UUID][]InputSplit {
	out := make(map[uuid.UUID][]InputSplit, len(p.mappers))
	for id, splits := range p.mappers {
		out[id] = slices.Clone(splits)
	}
	return out
}

// ReduceAssignment returns a copy of the reduce slot placement, keyed by node.
func (p *Plan) ReduceAssignment() map[uuid.UUID][]int {
	out := make(map[uuid.UUID][]int, len(p.reducers))
	for id, slots := range p.reducers {
		out[id] = slices.Clone(slots)
	}
	return out
}

// Mappers returns the splits assigned to nodeID, or nil.
func (p *Plan) Mappers(nodeID uuid.UUID) []InputSplit {
	return slices.Clone(p.mappers[nodeID])
}

// Reducers returns the reduce slots assigned to nodeID, or nil.
func (p *Plan) Reducers(nodeID uuid.UUID) []int {
	return slices.Clone(p.reducers[nodeID])
}

// MapperNodeIDs returns the nodes with at least one split, in ascending order.
func (p *Plan) MapperNodeIDs() []uuid.UUID {
	return sortedIDs(maps.Keys(p.mappers))
}

// ReducerNodeIDs returns the nodes with at least one reduce slot, in ascending
// order.
func (p *Plan) ReducerNodeIDs() []uuid.UUID {
	return sortedIDs(maps.Keys(p.reducers))
}

// SplitCount returns the number of splits in the plan.
func (p *Plan) SplitCount() int {
	n := 0
	for _, splits := range p.mappers {
		n += len(splits)
	}
	return n
}

// ReducerCount returns the number of reduce slots in the plan.
func (p *Plan) ReducerCount() int {
	n := 0
	for _, slots := range p.reducers {
		n += len(slots)
	}
	return n
}

func sortedIDs(seq iter.Seq[uuid.UUID]) []uuid.UUID {
	return slices.SortedFunc(seq, CompareIDs)
}

// CompareIDs orders node ids by their bytes. It is the tie-break order used
// throughout planning.
func CompareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
