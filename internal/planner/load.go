package planner

import (
	"slices"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

// loadTracker counts the splits assigned to each topology node so far in one
// planning call. Counts only ever grow.
type loadTracker struct {
	counts map[uuid.UUID]int

	// ids is every tracked node in ascending order, used when no candidate
	// qualifies.
	ids []uuid.UUID
}

func newLoadTracker(ids []uuid.UUID) *loadTracker {
	l := &loadTracker{
		counts: make(map[uuid.UUID]int, len(ids)),
		ids:    ids,
	}
	for _, id := range ids {
		l.counts[id] = 0
	}
	return l
}

func (l *loadTracker) load(id uuid.UUID) int { return l.counts[id] }

func (l *loadTracker) inc(id uuid.UUID) { l.counts[id]++ }

// leastLoaded picks the candidate with the fewest assigned splits. Ties go to
// the lowest node id. Candidates that are not tracked are ignored; if none is
// tracked, every tracked node is considered instead.
func (l *loadTracker) leastLoaded(candidates []uuid.UUID) (uuid.UUID, bool) {
	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, api.CompareIDs)

	if id, ok := l.scan(slices.Compact(sorted)); ok {
		return id, true
	}

	// Data lives on nodes outside the topology, use the least loaded one.
	return l.scan(l.ids)
}

func (l *loadTracker) scan(ids []uuid.UUID) (uuid.UUID, bool) {
	var (
		best     uuid.UUID
		bestLoad int
		found    bool
	)

	for _, id := range ids {
		load, ok := l.counts[id]
		if !ok {
			continue
		}

		if !found || load < bestLoad {
			best, bestLoad, found = id, load, true

			if bestLoad == 0 {
				break
			}
		}
	}

	return best, found
}
