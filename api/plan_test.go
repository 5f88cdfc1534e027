package api

import (
	"slices"
	"testing"

	"github.com/google/uuid"
)

func TestPlanIsImmutable(t *testing.T) {
	var a, b uuid.UUID
	a[15], b[15] = 2, 1

	split := &BasicSplit{Name: "s"}
	mappers := map[uuid.UUID][]InputSplit{a: {split}, b: {}}
	reducers := map[uuid.UUID][]int{a: {0, 1}}

	plan := NewPlan(mappers, reducers)

	mappers[a] = append(mappers[a], &BasicSplit{Name: "late"})
	reducers[a][0] = 9

	if got := plan.Mappers(a); len(got) != 1 || got[0] != split {
		t.Fatalf("Mappers() = %v, plan changed with its input", got)
	}
	if got := plan.Reducers(a); !slices.Equal(got, []int{0, 1}) {
		t.Fatalf("Reducers() = %v, plan changed with its input", got)
	}

	plan.ReduceAssignment()[a][0] = 7
	plan.Reducers(a)[1] = 7
	if got := plan.Reducers(a); !slices.Equal(got, []int{0, 1}) {
		t.Fatalf("Reducers() = %v, plan changed through an accessor", got)
	}

	if got := plan.MapperNodeIDs(); len(got) != 1 || got[0] != a {
		t.Fatalf("MapperNodeIDs() = %v, want only %v", got, a)
	}
	if plan.Mappers(b) != nil {
		t.Fatal("node with no splits kept in plan")
	}
	if plan.SplitCount() != 1 || plan.ReducerCount() != 2 {
		t.Fatalf("counts = %d splits, %d reducers, want 1 and 2", plan.SplitCount(), plan.ReducerCount())
	}
}

func TestPlanNodeIDsSorted(t *testing.T) {
	ids := make([]uuid.UUID, 5)
	reducers := make(map[uuid.UUID][]int)
	for i := range ids {
		ids[i][0] = byte(5 - i)
		reducers[ids[i]] = []int{i}
	}

	got := NewPlan(nil, reducers).ReducerNodeIDs()
	if !slices.IsSortedFunc(got, CompareIDs) || len(got) != 5 {
		t.Fatalf("ReducerNodeIDs() = %v, want 5 ascending ids", got)
	}
}
