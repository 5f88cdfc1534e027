package topology

import (
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/coreos/go-etcd/etcd"
	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

// The directory layout in etcd:
//   /{app}/nodes/: register nodes under this directory
//   /{app}/nodes/{nodeID} -> JSON node record, kept alive by a TTL

const (
	NodesDir = "nodes"

	errorCodeKeyNotFound = 100
)

func NodesPath(app string) string {
	return path.Join("/", app, NodesDir)
}

func NodePath(app string, id uuid.UUID) string {
	return path.Join(NodesPath(app), id.String())
}

type etcdClient interface {
	Get(key string, sort, recursive bool) (*etcd.Response, error)
	Set(key string, value string, ttl uint64) (*etcd.Response, error)
}

// Etcd is a node registry kept in etcd. Nodes register themselves with a
// TTL and refresh it while alive; a snapshot lists whoever is registered.
type Etcd struct {
	client etcdClient
	app    string
	logger *slog.Logger
}

func NewEtcd(machines []string, app string, logger *slog.Logger) (*Etcd, error) {
	if len(machines) == 0 {
		return nil, errors.New("topology: at least one etcd machine is required")
	}

	return newEtcd(etcd.NewClient(machines), app, logger)
}

func newEtcd(client etcdClient, app string, logger *slog.Logger) (*Etcd, error) {
	if app == "" {
		return nil, errors.New("topology: app name cannot be empty")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Etcd{client: client, app: app, logger: logger}, nil
}

// Register publishes node under the registry. A zero ttl never expires.
func (e *Etcd) Register(node api.Node, ttl time.Duration) error {
	value, err := encodeNode(node)
	if err != nil {
		return err
	}

	if _, err := e.client.Set(NodePath(e.app, node.ID), string(value), uint64(ttl.Seconds())); err != nil {
		return err
	}

	e.logger.Debug("registered node", "node-id", node.ID, "ttl", ttl)
	return nil
}

// Snapshot lists the registered nodes. Records that cannot be decoded are
// skipped.
func (e *Etcd) Snapshot() (api.Nodes, error) {
	resp, err := e.client.Get(NodesPath(e.app), false, true)
	if err != nil {
		if isKeyNotFound(err) {
			return api.Nodes{}, nil
		}
		return nil, err
	}

	nodes := make(api.Nodes, 0, len(resp.Node.Nodes))
	for _, n := range resp.Node.Nodes {
		if n.Dir {
			continue
		}

		node, err := decodeNode([]byte(n.Value))
		if err != nil {
			e.logger.Warn("skipping node record", "key", n.Key, "err", err)
			continue
		}

		if path.Base(n.Key) != node.ID.String() {
			e.logger.Warn("skipping node record with mismatched key", "key", n.Key, "node-id", node.ID)
			continue
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}

func isKeyNotFound(err error) bool {
	var etcdErr *etcd.EtcdError
	if errors.As(err, &etcdErr) {
		return etcdErr.ErrorCode == errorCodeKeyNotFound
	}
	return strings.Contains(err.Error(), "Key not found")
}
