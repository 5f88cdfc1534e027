package planner

import (
	"log/slog"

	"github.com/prxssh/shardplan/api"
)

// Config holds the collaborators and policies of a Planner.
type Config struct {
	// LocationService resolves block splits to the nodes holding their data.
	// If nil, every split is placed by host name.
	LocationService api.BlockLocationService

	// DFSScheme is the URI scheme of the filesystem LocationService serves.
	// Only block splits with this scheme are resolved through it.
	DFSScheme string

	// Weight computes reducer weights. If nil, SplitCountWeight is used.
	Weight WeightFunc
}

// Planner computes map-reduce plans. It holds no per-job state, so a single
// Planner may plan any number of jobs concurrently.
type Planner struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Planner {
	if cfg.Weight == nil {
		cfg.Weight = SplitCountWeight
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{cfg: cfg, logger: logger}
}

// PreparePlan assigns every split to one node of top and spreads the job's
// reduce slots over top. The previous plan is accepted but not consulted:
// plans are always computed from scratch.
//
// On failure no plan is returned and the error carries api.PlanningError.
func (p *Planner) PreparePlan(
	splits []api.InputSplit,
	top api.Topology,
	job api.JobDescriptor,
	previous *api.Plan,
) (*api.Plan, error) {
	plan, err := p.preparePlan(splits, top, job, previous)
	if err != nil {
		if !api.PlanningError.Has(err) {
			err = api.PlanningError.Wrap(err)
		}
		return nil, err
	}

	return plan, nil
}

func (p *Planner) preparePlan(
	splits []api.InputSplit,
	top api.Topology,
	job api.JobDescriptor,
	previous *api.Plan,
) (*api.Plan, error) {
	if job == nil {
		return nil, api.PlanningError.New("job descriptor is required")
	}

	reducerCount := job.Reducers()
	if reducerCount < 0 {
		return nil, api.PlanningError.New("negative reducer count %d", reducerCount)
	}

	snap, err := snapshot(top)
	if err != nil {
		return nil, err
	}

	if snap.empty() && (len(splits) > 0 || reducerCount > 0) {
		return nil, api.InvalidTopologyError.New(
			"no nodes to place %d splits and %d reducers", len(splits), reducerCount,
		)
	}

	if previous != nil {
		p.logger.Debug("ignoring previous plan", slog.Int("splits", previous.SplitCount()))
	}

	mappers, err := p.mappers(snap, splits)
	if err != nil {
		return nil, err
	}

	reducers, err := allocateReducers(snap, mappers, reducerCount, p.cfg.Weight)
	if err != nil {
		return nil, err
	}

	plan := api.NewPlan(mappers, reducers)

	p.logger.Info(
		"prepared plan",
		slog.Int("nodes", len(snap.nodes)),
		slog.Int("splits", plan.SplitCount()),
		slog.Int("mapper-nodes", len(plan.MapperNodeIDs())),
		slog.Int("reducers", plan.ReducerCount()),
		slog.Int("reducer-nodes", len(plan.ReducerNodeIDs())),
	)

	return plan, nil
}
