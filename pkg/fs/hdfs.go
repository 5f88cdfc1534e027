package fs

import (
	"errors"
	"log/slog"
	"os"
	"slices"

	"github.com/colinmarc/hdfs"
	hdfsproto "github.com/colinmarc/hdfs/protocol/hadoop_hdfs"
	"github.com/colinmarc/hdfs/rpc"
	"github.com/golang/protobuf/proto"
	"github.com/google/uuid"
	"github.com/prxssh/shardplan/api"
)

// Requirement:
//   Hadoop/HDFS version: 2
//   Datanodes must report host names or addresses that topology nodes
//   advertise in their HostNames.

type namenode interface {
	Execute(method string, req proto.Message, resp proto.Message) error
}

type statter interface {
	Stat(name string) (os.FileInfo, error)
}

// HDFSConfig holds the connection settings of an HDFS namenode.
type HDFSConfig struct {
	// NamenodeAddr is the namenode RPC address (e.g., "namenode:8020").
	NamenodeAddr string

	// User is the user the namenode sees requests from.
	User string

	// ProxyPrefixes are paths mounted from another filesystem. Their block
	// locations are not local to any datanode.
	ProxyPrefixes []string
}

// HDFS resolves block locations through the namenode's getBlockLocations
// call and maps datanodes to topology nodes by host name.
type HDFS struct {
	namenode namenode
	client   statter
	top      api.Topology
	proxies  []string
	logger   *slog.Logger
}

func DialHDFS(cfg HDFSConfig, top api.Topology, logger *slog.Logger) (*HDFS, error) {
	if cfg.NamenodeAddr == "" {
		return nil, errors.New("fs: NamenodeAddr cannot be empty")
	}

	if top == nil {
		return nil, errors.New("fs: topology is required")
	}

	client, err := hdfs.NewForUser(cfg.NamenodeAddr, cfg.User)
	if err != nil {
		return nil, err
	}

	conn, err := rpc.NewNamenodeConnection(cfg.NamenodeAddr, cfg.User)
	if err != nil {
		client.Close()
		return nil, err
	}

	return newHDFS(conn, client, top, cfg.ProxyPrefixes, logger), nil
}

func newHDFS(nn namenode, client statter, top api.Topology, proxies []string, logger *slog.Logger) *HDFS {
	if logger == nil {
		logger = slog.Default()
	}

	return &HDFS{
		namenode: nn,
		client:   client,
		top:      top,
		proxies:  slices.Clone(proxies),
		logger:   logger,
	}
}

func (h *HDFS) Size(path string) (int64, error) {
	info, err := h.client.Stat(path)
	if err != nil {
		return 0, err
	}

	if info.IsDir() {
		return 0, errors.New("fs: " + path + " is a directory")
	}

	return info.Size(), nil
}

func (h *HDFS) Locate(path, _ string, start, length int64) ([]api.BlockLocation, error) {
	req := &hdfsproto.GetBlockLocationsRequestProto{
		Src:    proto.String(path),
		Offset: proto.Uint64(uint64(start)),
		Length: proto.Uint64(uint64(length)),
	}
	resp := &hdfsproto.GetBlockLocationsResponseProto{}

	if err := h.namenode.Execute("getBlockLocations", req, resp); err != nil {
		return nil, api.LocationServiceError.Wrap(err)
	}

	located := resp.GetLocations()
	if located == nil {
		return nil, api.LocationServiceError.New("fs: no such file %s", path)
	}

	hosts := hostIndex(h.top.Nodes())
	end := start + length

	var locs []api.BlockLocation
	for _, block := range located.GetBlocks() {
		blockStart := int64(block.GetOffset())
		blockEnd := blockStart + int64(block.GetB().GetNumBytes())

		from, to := max(blockStart, start), min(blockEnd, end)
		if to < from || (to == from && length > 0) {
			continue
		}

		var ids []uuid.UUID
		for _, dn := range block.GetLocs() {
			id := dn.GetId()

			for _, host := range []string{id.GetHostName(), id.GetIpAddr()} {
				for _, nodeID := range hosts[host] {
					if !slices.Contains(ids, nodeID) {
						ids = append(ids, nodeID)
					}
				}
			}
		}

		if len(ids) == 0 {
			h.logger.Debug(
				"no topology node holds block",
				"path", path,
				"block-offset", blockStart,
				"replicas", len(block.GetLocs()),
			)
		}

		locs = append(locs, api.BlockLocation{NodeIDs: ids, Start: from, Length: to - from})
	}

	return locs, nil
}

func (h *HDFS) IsProxyPath(path string) bool {
	return hasPrefix(path, h.proxies)
}
