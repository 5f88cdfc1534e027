package topology

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
	"storj.io/common/memory"
)

// record is how a node describes itself to the registry.
type record struct {
	ID          string   `json:"id"`
	HostNames   []string `json:"hostNames"`
	CPUs        int      `json:"cpus,omitempty"`
	MaxMemory   int64    `json:"maxMemory,omitempty"`
	LoadAverage float64  `json:"loadAverage,omitempty"`
}

func encodeNode(node api.Node) ([]byte, error) {
	return json.Marshal(record{
		ID:          node.ID.String(),
		HostNames:   node.HostNames,
		CPUs:        node.Metrics.CPUs,
		MaxMemory:   int64(node.Metrics.MaxMemory),
		LoadAverage: node.Metrics.LoadAverage,
	})
}

func decodeNode(data []byte) (api.Node, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return api.Node{}, fmt.Errorf("topology: invalid node record: %w", err)
	}

	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return api.Node{}, fmt.Errorf("topology: invalid node id %q: %w", rec.ID, err)
	}

	return api.Node{
		ID:        id,
		HostNames: rec.HostNames,
		Metrics: api.Metrics{
			CPUs:        rec.CPUs,
			MaxMemory:   memory.Size(rec.MaxMemory),
			LoadAverage: rec.LoadAverage,
		},
	}, nil
}
