package task

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

// Type represents the phase of the MapReduce job.
type Type uint8

const (
	// TypeMap indicates a task that processes one input split.
	TypeMap Type = iota

	// TypeReduce indicates a task that aggregates intermediate data for a
	// specific partition.
	TypeReduce
)

func (t Type) String() string {
	switch t {
	case TypeMap:
		return "map"
	case TypeReduce:
		return "reduce"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Task represents a single unit of work pinned to a node by a plan.
type Task struct {
	// ID is the identifier of this task, unique within one plan.
	ID int64

	// Type determines if this is a Map or Reduce task.
	Type Type

	// NodeID is the node the plan placed this task on.
	NodeID uuid.UUID

	// Split is the input of a map task. Nil for reduce tasks.
	Split api.InputSplit

	// ReducePartitions is the total number of reduce partitions.
	// Mappers need this to correctly hash keys into buckets (hash(key) % NReduce).
	ReducePartitions int

	// ReduceID is the partition number this task is responsible for (0 to NReduce-1).
	// The worker uses this to locate intermediate files.
	ReduceID int
}

// FromPlan lists the tasks of plan: map tasks first, grouped by node in
// ascending id order and in split order within a node, then reduce tasks in
// partition order. IDs start at 1.
func FromPlan(plan *api.Plan) []*Task {
	nReduce := plan.ReducerCount()
	tasks := make([]*Task, 0, plan.SplitCount()+nReduce)
	globalID := int64(1)

	for _, nodeID := range plan.MapperNodeIDs() {
		for _, split := range plan.Mappers(nodeID) {
			tasks = append(tasks, &Task{
				ID:               globalID,
				Type:             TypeMap,
				NodeID:           nodeID,
				Split:            split,
				ReducePartitions: nReduce,
			})
			globalID++
		}
	}

	reducers := make([]*Task, nReduce)
	for _, nodeID := range plan.ReducerNodeIDs() {
		for _, slot := range plan.Reducers(nodeID) {
			reducers[slot] = &Task{
				Type:             TypeReduce,
				NodeID:           nodeID,
				ReducePartitions: nReduce,
				ReduceID:         slot,
			}
		}
	}
	for _, t := range reducers {
		t.ID = globalID
		globalID++
		tasks = append(tasks, t)
	}

	return tasks
}
