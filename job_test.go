package shardplan

import (
	"testing"

	"github.com/prxssh/shardplan/api"
	"storj.io/common/memory"
)

type sizes map[string]int64

func (s sizes) Size(path string) (int64, error) {
	size, ok := s[path]
	if !ok {
		return 0, errNoFile
	}
	return size, nil
}

var errNoFile = api.LocationServiceError.New("no such file")

func TestFileJobSplits(t *testing.T) {
	job, err := NewFileJob(
		sizes{"/a": 250, "/b": 0, "/c": 100},
		[]string{"hdfs://nn/a", "/b", "/c"},
		WithSplitSize(100*memory.B),
		WithReduceTasks(4),
	)
	if err != nil {
		t.Fatalf("NewFileJob() failed: %v", err)
	}

	splits, err := job.Splits()
	if err != nil {
		t.Fatalf("Splits() failed: %v", err)
	}

	want := []api.BlockSplit{
		{Scheme: "hdfs", Path: "/a", Start: 0, Length: 100},
		{Scheme: "hdfs", Path: "/a", Start: 100, Length: 100},
		{Scheme: "hdfs", Path: "/a", Start: 200, Length: 50},
		{Scheme: "file", Path: "/c", Start: 0, Length: 100},
	}

	if len(splits) != len(want) {
		t.Fatalf("Splits() = %v, want %d splits", splits, len(want))
	}
	for i, w := range want {
		got := splits[i].(*api.BlockSplit)
		if got.Scheme != w.Scheme || got.Path != w.Path || got.Start != w.Start || got.Length != w.Length {
			t.Fatalf("split %d = %v, want %v", i, got, &w)
		}
	}

	if job.Reducers() != 4 {
		t.Fatalf("Reducers() = %d, want 4", job.Reducers())
	}
}

func TestFileJobDefaults(t *testing.T) {
	job, err := NewFileJob(sizes{"/a": int64(100 * memory.MiB)}, []string{"/a"})
	if err != nil {
		t.Fatalf("NewFileJob() failed: %v", err)
	}

	splits, err := job.Splits()
	if err != nil {
		t.Fatalf("Splits() failed: %v", err)
	}
	if len(splits) != 2 || job.Reducers() != 1 {
		t.Fatalf("defaults gave %d splits and %d reducers, want 2 and 1", len(splits), job.Reducers())
	}
}

func TestFileJobErrors(t *testing.T) {
	if _, err := NewFileJob(nil, []string{"/a"}); err == nil {
		t.Fatal("NewFileJob() without a Stater succeeded")
	}
	if _, err := NewFileJob(sizes{}, nil, WithReduceTasks(-1)); err == nil {
		t.Fatal("NewFileJob() with negative reducers succeeded")
	}

	job, _ := NewFileJob(sizes{}, []string{"/missing"})
	if _, err := job.Splits(); err == nil {
		t.Fatal("Splits() of a missing file succeeded")
	}
}
