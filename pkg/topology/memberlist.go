package topology

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hashicorp/memberlist"
	"github.com/prxssh/shardplan/api"
)

// Delegate implements memberlist.Delegate and advertises the local node's
// record as member metadata. It carries no user messages or state.
type Delegate struct {
	meta []byte
}

func NewDelegate(node api.Node) (*Delegate, error) {
	meta, err := encodeNode(node)
	if err != nil {
		return nil, err
	}

	if len(meta) > memberlist.MetaMaxSize {
		return nil, fmt.Errorf(
			"topology: node record is %d bytes, memberlist allows %d",
			len(meta), memberlist.MetaMaxSize,
		)
	}

	return &Delegate{meta: meta}, nil
}

func (d *Delegate) NodeMeta(limit int) []byte {
	if len(d.meta) > limit {
		return nil
	}
	return d.meta
}

func (d *Delegate) NotifyMsg([]byte)                           {}
func (d *Delegate) GetBroadcasts(overhead, limit int) [][]byte { return nil }
func (d *Delegate) LocalState(join bool) []byte                { return nil }
func (d *Delegate) MergeRemoteState(buf []byte, join bool)     {}

// MemberlistConfig holds the gossip settings of a node.
type MemberlistConfig struct {
	BindAddr  string   // Address to bind to
	BindPort  int      // Port to bind to
	JoinAddrs []string // Addresses to join cluster (format: "host:port")
}

// Memberlist is a topology discovered through gossip. Every member
// advertises its node record as metadata.
type Memberlist struct {
	members func() []*memberlist.Node
	list    *memberlist.Memberlist
	logger  *slog.Logger
}

// JoinMemberlist starts gossiping as local and joins the cluster at
// cfg.JoinAddrs, if any.
func JoinMemberlist(cfg MemberlistConfig, local api.Node, logger *slog.Logger) (*Memberlist, error) {
	if logger == nil {
		logger = slog.Default()
	}

	delegate, err := NewDelegate(local)
	if err != nil {
		return nil, err
	}

	mlConfig := memberlist.DefaultLANConfig()
	mlConfig.Name = local.ID.String()
	mlConfig.BindAddr = cfg.BindAddr
	mlConfig.BindPort = cfg.BindPort
	mlConfig.ProbeInterval = 1 * time.Second
	mlConfig.ProbeTimeout = 500 * time.Millisecond
	mlConfig.Delegate = delegate

	ml, err := memberlist.Create(mlConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create memberlist: %w", err)
	}

	if len(cfg.JoinAddrs) > 0 {
		n, err := ml.Join(cfg.JoinAddrs)
		if err != nil {
			logger.Warn("failed to join cluster, continuing as single node", "err", err)
		} else {
			logger.Info("joined cluster", "contacted", n, "members", ml.NumMembers())
		}
	}

	return &Memberlist{members: ml.Members, list: ml, logger: logger}, nil
}

// Snapshot lists the live members that advertise a valid node record.
func (m *Memberlist) Snapshot() (api.Nodes, error) {
	members := m.members()
	nodes := make(api.Nodes, 0, len(members))

	for _, member := range members {
		node, err := decodeNode(member.Meta)
		if err != nil {
			m.logger.Warn("skipping member", "member", member.Name, "err", err)
			continue
		}

		if member.Addr != nil && !slices.Contains(node.HostNames, member.Addr.String()) {
			node.HostNames = append(node.HostNames, member.Addr.String())
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// Leave gracefully leaves the cluster and stops gossiping.
func (m *Memberlist) Leave(timeout time.Duration) error {
	if m.list == nil {
		return errors.New("topology: memberlist not started")
	}

	if err := m.list.Leave(timeout); err != nil {
		return err
	}
	return m.list.Shutdown()
}
