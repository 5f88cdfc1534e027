package planner

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

func nodeID(n byte) uuid.UUID {
	var id uuid.UUID
	id[15] = n
	return id
}

func node(n byte, hosts ...string) api.Node {
	return api.Node{ID: nodeID(n), HostNames: hosts}
}

type fixedJob int

func (j fixedJob) Splits() ([]api.InputSplit, error) { return nil, nil }
func (j fixedJob) Reducers() int                      { return int(j) }

type fakeFS struct {
	blocks map[string][]api.BlockLocation
	proxy  map[string]bool
	err    error
	calls  int
}

func (f *fakeFS) Locate(path, scheme string, start, length int64) ([]api.BlockLocation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.blocks[path], nil
}

func (f *fakeFS) IsProxyPath(path string) bool { return f.proxy[path] }

func blockSplit(path string, hosts ...string) *api.BlockSplit {
	return &api.BlockSplit{Scheme: "hdfs", Path: path, Length: 100, HostNames: hosts}
}

func basicSplit(name string, hosts ...string) *api.BasicSplit {
	return &api.BasicSplit{Name: name, HostNames: hosts}
}

func newTestPlanner(fs api.BlockLocationService) *Planner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{LocationService: fs, DFSScheme: "hdfs"}, logger)
}

// nodeOf returns the node a split was placed on.
func nodeOf(plan *api.Plan, split api.InputSplit) (uuid.UUID, error) {
	for id, splits := range plan.MapAssignment() {
		for _, s := range splits {
			if s == split {
				return id, nil
			}
		}
	}
	return uuid.Nil, fmt.Errorf("split %v not in plan", split)
}

func ids(ns ...byte) []uuid.UUID {
	out := make([]uuid.UUID, len(ns))
	for i, n := range ns {
		out[i] = nodeID(n)
	}
	return out
}
