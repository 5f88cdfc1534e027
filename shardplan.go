// Package shardplan decides where the tasks of a map-reduce job run. Map
// splits go to the nodes that hold their data, and reduce slots are spread
// over nodes in proportion to the map work they received.
package shardplan

import (
	"log/slog"

	"github.com/prxssh/shardplan/api"
	"github.com/prxssh/shardplan/internal/planner"
	"golang.org/x/sync/errgroup"
)

// Planner prepares map-reduce plans. It is safe for concurrent use.
type Planner struct {
	cfg     *Config
	logger  *slog.Logger
	planner *planner.Planner
}

// New validates cfg and returns a Planner. A nil cfg means NewConfig().
func New(cfg *Config) (*Planner, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{
		cfg:    cfg,
		logger: logger,
		planner: planner.New(planner.Config{
			LocationService: cfg.LocationService,
			DFSScheme:       cfg.DFSScheme,
			Weight:          cfg.Weight,
		}, logger),
	}, nil
}

// PreparePlan places splits and the job's reduce slots on the nodes of top.
// The previous plan is accepted for incremental replanning but currently
// ignored.
//
// Either every split and reduce slot is placed or an error carrying
// api.PlanningError is returned.
func (p *Planner) PreparePlan(
	splits []api.InputSplit,
	top api.Topology,
	job api.JobDescriptor,
	previous *api.Plan,
) (*api.Plan, error) {
	return p.planner.PreparePlan(splits, top, job, previous)
}

// PlanJob plans a job using the splits it describes.
func (p *Planner) PlanJob(job api.JobDescriptor, top api.Topology) (*api.Plan, error) {
	if job == nil {
		return nil, api.PlanningError.New("job descriptor is required")
	}

	splits, err := job.Splits()
	if err != nil {
		return nil, api.PlanningError.Wrap(err)
	}

	return p.PreparePlan(splits, top, job, nil)
}

// PlanJobs plans several jobs against the same topology concurrently. Plans
// are returned in job order. If any job fails, no plans are returned.
func (p *Planner) PlanJobs(jobs []api.JobDescriptor, top api.Topology) ([]*api.Plan, error) {
	plans := make([]*api.Plan, len(jobs))

	var grp errgroup.Group
	grp.SetLimit(p.cfg.Concurrency)

	for i, job := range jobs {
		grp.Go(func() error {
			plan, err := p.PlanJob(job, top)
			if err != nil {
				p.logger.Error("failed to plan job", "job-index", i, "err", err)
				return err
			}

			plans[i] = plan
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return plans, nil
}
