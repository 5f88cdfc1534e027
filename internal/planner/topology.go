package planner

import (
	"slices"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

// topology is the read-only snapshot of the cluster a single planning call
// works against.
type topology struct {
	// nodes is sorted by ascending node id.
	nodes []api.Node

	// ids holds the node ids in the same order as nodes.
	ids []uuid.UUID

	members map[uuid.UUID]struct{}

	// byHost groups node ids by the host names they advertise. Lists are in
	// ascending id order.
	byHost map[string][]uuid.UUID
}

func snapshot(top api.Topology) (*topology, error) {
	var nodes []api.Node
	if top != nil {
		nodes = slices.Clone(top.Nodes())
	}
	slices.SortFunc(nodes, func(a, b api.Node) int { return api.CompareIDs(a.ID, b.ID) })

	t := &topology{
		nodes:   nodes,
		ids:     make([]uuid.UUID, 0, len(nodes)),
		members: make(map[uuid.UUID]struct{}, len(nodes)),
		byHost:  make(map[string][]uuid.UUID, len(nodes)),
	}

	for _, node := range nodes {
		if _, dup := t.members[node.ID]; dup {
			return nil, api.InvalidTopologyError.New("duplicate node id %s", node.ID)
		}
		t.members[node.ID] = struct{}{}
		t.ids = append(t.ids, node.ID)

		for _, host := range node.HostNames {
			// Expecting 1-2 nodes per host.
			if !slices.Contains(t.byHost[host], node.ID) {
				t.byHost[host] = append(t.byHost[host], node.ID)
			}
		}
	}

	return t, nil
}

func (t *topology) contains(id uuid.UUID) bool {
	_, ok := t.members[id]
	return ok
}

func (t *topology) empty() bool { return len(t.nodes) == 0 }

// nodesForHosts returns the topology nodes that advertise any of hosts.
func (t *topology) nodesForHosts(hosts []string) []uuid.UUID {
	var ids []uuid.UUID
	for _, host := range hosts {
		ids = append(ids, t.byHost[host]...)
	}
	return ids
}
