package planner

import (
	"cmp"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

// WeightFunc returns the reducer weight of a node given the number of splits
// mapped to it. Weights must not be negative.
type WeightFunc func(node api.Node, splitCount int) int

// SplitCountWeight weighs a node by its mapped splits alone.
func SplitCountWeight(_ api.Node, splitCount int) int {
	return splitCount
}

// CPUWeight weighs a node by its mapped splits times its core count. Nodes
// that do not report cores count as one.
func CPUWeight(node api.Node, splitCount int) int {
	return splitCount * max(node.Metrics.CPUs, 1)
}

type weightedNode struct {
	id          uuid.UUID
	weight      int
	floatWeight float64
}

// allocateReducers hands out reduce slots 0..count-1 to nodes in proportion
// to their weight. Rounded weights are corrected so that exactly count slots
// are assigned.
func allocateReducers(
	top *topology,
	mappers map[uuid.UUID][]api.InputSplit,
	count int,
	weightOf WeightFunc,
) (map[uuid.UUID][]int, error) {
	nodes := make([]*weightedNode, 0, len(top.nodes))
	totalWeight := 0

	for _, node := range top.nodes {
		weight := weightOf(node, len(mappers[node.ID]))
		if weight < 0 {
			return nil, api.PlanningError.New("negative reducer weight %d for node %s", weight, node.ID)
		}

		nodes = append(nodes, &weightedNode{id: node.ID, weight: weight})
		totalWeight += weight
	}

	totalAdjusted := 0
	for _, node := range nodes {
		if totalWeight > 0 {
			node.floatWeight = float64(node.weight) * float64(count) / float64(totalWeight)
		}
		node.weight = int(math.Round(node.floatWeight))
		totalAdjusted += node.weight
	}

	slices.SortStableFunc(nodes, func(a, b *weightedNode) int {
		if c := cmp.Compare(b.floatWeight, a.floatWeight); c != 0 {
			return c
		}
		return api.CompareIDs(a.id, b.id)
	})

	// Too many reducers set, take them back starting from the smallest shares.
	for i := len(nodes); totalAdjusted > count; {
		i--
		if i < 0 {
			i = len(nodes) - 1
		}

		if nodes[i].weight > 0 {
			nodes[i].weight--
			totalAdjusted--
		}
	}

	// Not enough reducers set. Only nodes with a share receive extra slots,
	// unless nobody has one, in which case slots go round-robin.
	for i := -1; totalAdjusted < count; {
		i = (i + 1) % len(nodes)

		if nodes[i].floatWeight > 0 || totalWeight == 0 {
			nodes[i].weight++
			totalAdjusted++
		}
	}

	out := make(map[uuid.UUID][]int, len(nodes))
	idx := 0

	for _, node := range nodes {
		if node.weight == 0 {
			continue
		}

		slots := make([]int, node.weight)
		for i := range slots {
			slots[i] = idx
			idx++
		}
		out[node.id] = slots
	}

	return out, nil
}
