package planner

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

// mappers places every split on exactly one topology node, in input order.
// Each placement raises the chosen node's load before the next split is seen.
func (p *Planner) mappers(top *topology, splits []api.InputSplit) (map[uuid.UUID][]api.InputSplit, error) {
	r := &resolver{
		top:    top,
		loads:  newLoadTracker(top.ids),
		fs:     p.cfg.LocationService,
		scheme: p.cfg.DFSScheme,
	}

	mappers := make(map[uuid.UUID][]api.InputSplit)

	for i, split := range splits {
		if split == nil {
			return nil, api.PlanningError.New("split %d is nil", i)
		}

		nodeID, err := r.nodeForSplit(split)
		if err != nil {
			return nil, err
		}

		p.logger.Debug(
			"mapped split to node",
			slog.Any("split", split),
			slog.String("node-id", nodeID.String()),
			slog.Int("node-load", r.loads.load(nodeID)),
		)

		mappers[nodeID] = append(mappers[nodeID], split)
		r.loads.inc(nodeID)
	}

	return mappers, nil
}
