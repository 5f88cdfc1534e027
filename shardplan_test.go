package shardplan

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
	"github.com/prxssh/shardplan/pkg/fs"
	"storj.io/common/memory"
)

func testTopology(n int) api.Nodes {
	nodes := make(api.Nodes, n)
	for i := range nodes {
		nodes[i].ID[15] = byte(i + 1)
		nodes[i].HostNames = []string{string(rune('a' + i))}
	}
	return nodes
}

func testPlanner(t *testing.T, opts ...Option) *Planner {
	t.Helper()

	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	p, err := New(NewConfig(opts...))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return p
}

func nodeIDs(top api.Nodes) []uuid.UUID {
	ids := make([]uuid.UUID, len(top))
	for i, n := range top {
		ids[i] = n.ID
	}
	return ids
}

func TestPlanJobOverMemoryFS(t *testing.T) {
	top := testTopology(4)

	store, err := fs.NewMemory(nodeIDs(top), 64*memory.MiB, 2)
	if err != nil {
		t.Fatalf("NewMemory() failed: %v", err)
	}
	store.AddFile("/logs/a", 300*memory.MiB)
	store.AddFile("/logs/b", 10*memory.MiB)

	job, err := NewFileJob(store, []string{"mem:///logs/a", "mem:///logs/b"}, WithReduceTasks(3))
	if err != nil {
		t.Fatalf("NewFileJob() failed: %v", err)
	}

	p := testPlanner(t, WithLocationService(store), WithDFSScheme("mem"))

	plan, err := p.PlanJob(job, top)
	if err != nil {
		t.Fatalf("PlanJob() failed: %v", err)
	}

	if plan.SplitCount() != 6 {
		t.Fatalf("SplitCount() = %d, want 6", plan.SplitCount())
	}
	if plan.ReducerCount() != 3 {
		t.Fatalf("ReducerCount() = %d, want 3", plan.ReducerCount())
	}

	// Every split sits inside one block, so it must run on a replica.
	for _, id := range plan.MapperNodeIDs() {
		for _, split := range plan.Mappers(id) {
			s := split.(*api.BlockSplit)
			locs, err := store.Locate(s.Path, s.Scheme, s.Start, s.Length)
			if err != nil {
				t.Fatalf("Locate() failed: %v", err)
			}

			local := false
			for _, replica := range locs[0].NodeIDs {
				local = local || replica == id
			}
			if len(locs) == 1 && !local {
				t.Fatalf("split %v placed on %v, not a replica of %v", s, id, locs[0].NodeIDs)
			}
		}
	}
}

func TestPlanJobs(t *testing.T) {
	top := testTopology(3)
	store, _ := fs.NewMemory(nodeIDs(top), memory.MiB, 1)
	store.AddFile("/x", 5*memory.MiB)

	var jobs []api.JobDescriptor
	for r := range 6 {
		job, err := NewFileJob(store, []string{"mem:///x"}, WithReduceTasks(r), WithSplitSize(memory.MiB))
		if err != nil {
			t.Fatalf("NewFileJob() failed: %v", err)
		}
		jobs = append(jobs, job)
	}

	p := testPlanner(t, WithLocationService(store), WithDFSScheme("mem"), WithConcurrency(2))

	plans, err := p.PlanJobs(jobs, top)
	if err != nil {
		t.Fatalf("PlanJobs() failed: %v", err)
	}

	for i, plan := range plans {
		if plan.ReducerCount() != i || plan.SplitCount() != 5 {
			t.Fatalf("plan %d = %d splits, %d reducers, want 5 and %d", i, plan.SplitCount(), plan.ReducerCount(), i)
		}
	}
}

type failingJob struct{}

func (failingJob) Splits() ([]api.InputSplit, error) { return nil, errors.New("listing failed") }
func (failingJob) Reducers() int                      { return 1 }

func TestPlanJobsFailure(t *testing.T) {
	p := testPlanner(t)

	plans, err := p.PlanJobs([]api.JobDescriptor{failingJob{}}, testTopology(1))
	if err == nil {
		t.Fatalf("PlanJobs() = %v, want error", plans)
	}
	if !api.PlanningError.Has(err) {
		t.Fatalf("PlanJobs() error = %v, want planning error", err)
	}
}

func TestPreparePlanWithoutLocationService(t *testing.T) {
	top := testTopology(2)
	splits := []api.InputSplit{
		&api.BlockSplit{Scheme: "hdfs", Path: "/f", Length: 1, HostNames: []string{"b"}},
	}

	plan, err := testPlanner(t).PreparePlan(splits, top, &FileJob{ReduceTasks: 1}, nil)
	if err != nil {
		t.Fatalf("PreparePlan() failed: %v", err)
	}

	if got := plan.Mappers(top[1].ID); len(got) != 1 {
		t.Fatalf("split not placed on host b: %v", plan.MapAssignment())
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "empty scheme", opts: []Option{WithDFSScheme("")}},
		{name: "nil weight", opts: []Option{WithWeightFunc(nil)}},
		{name: "zero concurrency", opts: []Option{WithConcurrency(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(NewConfig(tt.opts...)); err == nil {
				t.Fatal("New() accepted an invalid config")
			}
		})
	}

	if _, err := New(nil); err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
}
