package planner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

// resolver chooses the node a split should run on, preferring nodes that hold
// the split's data and, among those, the least loaded.
type resolver struct {
	top    *topology
	loads  *loadTracker
	fs     api.BlockLocationService
	scheme string
}

func (r *resolver) nodeForSplit(split api.InputSplit) (uuid.UUID, error) {
	switch s := split.(type) {
	case *api.BlockSplit:
		if s == nil {
			return uuid.Nil, api.PlanningError.New("nil block split")
		}

		id, ok, err := r.nodeForBlock(s)
		if err != nil || ok {
			return id, err
		}
	case *api.BasicSplit:
		if s == nil {
			return uuid.Nil, api.PlanningError.New("nil basic split")
		}
	default:
		return uuid.Nil, api.PlanningError.New("unsupported split type %T", split)
	}

	// Block locations are unavailable, try selecting the node by host.
	candidates := r.top.nodesForHosts(split.Hosts())
	if len(candidates) == 0 {
		candidates = r.top.ids
	}

	return r.bestNode(candidates)
}

// nodeForBlock resolves a split through the block location service. It
// reports false when the split is not eligible for block resolution.
func (r *resolver) nodeForBlock(s *api.BlockSplit) (uuid.UUID, bool, error) {
	if r.fs == nil || !strings.EqualFold(s.Scheme, r.scheme) || r.fs.IsProxyPath(s.Path) {
		return uuid.Nil, false, nil
	}

	blocks, err := r.fs.Locate(s.Path, s.Scheme, s.Start, s.Length)
	if err != nil {
		if !api.LocationServiceError.Has(err) {
			err = api.LocationServiceError.Wrap(err)
		}
		return uuid.Nil, false, err
	}

	switch len(blocks) {
	case 0:
		return uuid.Nil, false, api.LocationServiceError.New("no block locations for %s", s)
	case 1:
		id, err := r.bestNode(blocks[0].NodeIDs)
		return id, true, err
	}

	best := r.mostColocated(blocks)
	if len(best) == 1 {
		return best[0], true, nil
	}

	id, err := r.bestNode(best)
	return id, true, err
}

// mostColocated returns the topology nodes holding the largest number of bytes
// across blocks, in ascending id order.
func (r *resolver) mostColocated(blocks []api.BlockLocation) []uuid.UUID {
	covered := make(map[uuid.UUID]int64)

	for _, block := range blocks {
		seen := make(map[uuid.UUID]struct{}, len(block.NodeIDs))

		for _, id := range block.NodeIDs {
			if _, dup := seen[id]; dup || !r.top.contains(id) {
				continue
			}
			seen[id] = struct{}{}
			covered[id] += block.Length
		}
	}

	var (
		best    []uuid.UUID
		bestLen int64 = -1
	)

	for _, id := range r.top.ids {
		n, ok := covered[id]
		if !ok {
			continue
		}

		switch {
		case n > bestLen:
			best, bestLen = []uuid.UUID{id}, n
		case n == bestLen:
			best = append(best, id)
		}
	}

	return best
}

func (r *resolver) bestNode(candidates []uuid.UUID) (uuid.UUID, error) {
	id, ok := r.loads.leastLoaded(candidates)
	if !ok {
		return uuid.Nil, api.PlanningError.New("no node available among %d candidates", len(candidates))
	}
	return id, nil
}
