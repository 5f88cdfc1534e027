package topology

import (
	"net"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/memberlist"
	"github.com/prxssh/shardplan/api"
)

func TestDelegateMeta(t *testing.T) {
	node := api.Node{ID: uuid.New(), HostNames: []string{"worker-1"}}

	d, err := NewDelegate(node)
	if err != nil {
		t.Fatalf("NewDelegate() failed: %v", err)
	}

	meta := d.NodeMeta(memberlist.MetaMaxSize)
	got, err := decodeNode(meta)
	if err != nil {
		t.Fatalf("decodeNode() failed: %v", err)
	}
	if got.ID != node.ID {
		t.Fatalf("decoded id = %v, want %v", got.ID, node.ID)
	}

	if d.NodeMeta(1) != nil {
		t.Fatal("NodeMeta() ignored the size limit")
	}
}

func TestDelegateMetaTooLarge(t *testing.T) {
	node := api.Node{ID: uuid.New(), HostNames: []string{strings.Repeat("h", memberlist.MetaMaxSize)}}

	if _, err := NewDelegate(node); err == nil {
		t.Fatal("NewDelegate() accepted an oversized record")
	}
}

func TestMemberlistSnapshot(t *testing.T) {
	a := api.Node{ID: uuid.New(), HostNames: []string{"worker-a"}}
	b := api.Node{ID: uuid.New(), HostNames: []string{"worker-b", "10.0.0.2"}}

	metaA, _ := encodeNode(a)
	metaB, _ := encodeNode(b)

	m := &Memberlist{
		members: func() []*memberlist.Node {
			return []*memberlist.Node{
				{Name: a.ID.String(), Addr: net.ParseIP("10.0.0.1"), Meta: metaA},
				{Name: b.ID.String(), Addr: net.ParseIP("10.0.0.2"), Meta: metaB},
				{Name: "stranger", Meta: []byte("not json")},
			}
		},
		logger: testLogger(),
	}

	nodes, err := m.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}

	if len(nodes) != 2 {
		t.Fatalf("Snapshot() = %v, want 2 nodes", nodes)
	}
	if got := nodes[0].HostNames; len(got) != 2 || got[1] != "10.0.0.1" {
		t.Fatalf("node a hosts = %v, want worker-a and its address", got)
	}
	if got := nodes[1].HostNames; len(got) != 2 {
		t.Fatalf("node b hosts = %v, want no duplicate address", got)
	}
}

func TestMemberlistLeaveNotStarted(t *testing.T) {
	m := &Memberlist{members: func() []*memberlist.Node { return nil }}
	if err := m.Leave(0); err == nil {
		t.Fatal("Leave() on unstarted memberlist succeeded")
	}
}
