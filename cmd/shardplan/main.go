package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/prxssh/shardplan"
	"github.com/prxssh/shardplan/api"
	"github.com/prxssh/shardplan/internal/task"
	"github.com/prxssh/shardplan/pkg/fs"
	"github.com/prxssh/shardplan/pkg/topology"
	"storj.io/common/memory"
)

func main() {
	var (
		input     = flag.String("input", "", "Comma-separated input file URIs (e.g., 'hdfs://nn:8020/logs/a.txt')")
		reducers  = flag.Int("reducers", 1, "Number of reduce tasks")
		splitSize = flag.String("split-size", "64MiB", "Target size of each input split")
		blockSize = flag.String("block-size", "64MiB", "Block size of the local filesystem")

		topo      = flag.String("topology", "static", "Topology source: 'static', 'etcd' or 'memberlist'")
		hosts     = flag.String("hosts", "localhost", "Comma-separated host names for the static topology")
		etcdAddrs = flag.String("etcd", "http://127.0.0.1:2379", "Comma-separated etcd machines")
		app       = flag.String("app", "shardplan", "Application name used in the etcd layout")
		join      = flag.String("join", "", "Comma-separated memberlist peers to join")
		bindPort  = flag.Int("bind-port", 7946, "Memberlist bind port")

		namenode = flag.String("namenode", "", "HDFS namenode address; local files are planned if empty")
		hdfsUser = flag.String("hdfs-user", "hdfs", "HDFS user")
		verbose  = flag.Bool("v", false, "Log every placement decision")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, options{
		input:     splitList(*input),
		reducers:  *reducers,
		splitSize: *splitSize,
		blockSize: *blockSize,
		topology:  *topo,
		hosts:     splitList(*hosts),
		etcd:      splitList(*etcdAddrs),
		app:       *app,
		join:      splitList(*join),
		bindPort:  *bindPort,
		namenode:  *namenode,
		hdfsUser:  *hdfsUser,
	}); err != nil {
		logger.Error("planning failed", "err", err)
		os.Exit(1)
	}
}

type options struct {
	input     []string
	reducers  int
	splitSize string
	blockSize string
	topology  string
	hosts     []string
	etcd      []string
	app       string
	join      []string
	bindPort  int
	namenode  string
	hdfsUser  string
}

type locationStore interface {
	api.BlockLocationService
	api.Stater
}

func run(logger *slog.Logger, opts options) error {
	if len(opts.input) == 0 {
		return fmt.Errorf("no input files given")
	}

	splitSize, err := memory.ParseString(opts.splitSize)
	if err != nil {
		return fmt.Errorf("invalid split size %q: %w", opts.splitSize, err)
	}
	blockSize, err := memory.ParseString(opts.blockSize)
	if err != nil {
		return fmt.Errorf("invalid block size %q: %w", opts.blockSize, err)
	}

	top, err := loadTopology(logger, opts)
	if err != nil {
		return err
	}
	logger.Info("loaded topology", "source", opts.topology, "nodes", len(top))

	var (
		store  locationStore
		scheme string
	)
	if opts.namenode != "" {
		store, err = fs.DialHDFS(fs.HDFSConfig{NamenodeAddr: opts.namenode, User: opts.hdfsUser}, top, logger)
		scheme = "hdfs"
	} else {
		store, err = fs.NewLocalStorage(top, "", memory.Size(blockSize))
		scheme = "file"
	}
	if err != nil {
		return err
	}

	planner, err := shardplan.New(shardplan.NewConfig(
		shardplan.WithLogger(logger),
		shardplan.WithLocationService(store),
		shardplan.WithDFSScheme(scheme),
	))
	if err != nil {
		return err
	}

	job, err := shardplan.NewFileJob(
		store,
		opts.input,
		shardplan.WithReduceTasks(opts.reducers),
		shardplan.WithSplitSize(memory.Size(splitSize)),
	)
	if err != nil {
		return err
	}

	plan, err := planner.PlanJob(job, top)
	if err != nil {
		return err
	}

	return printTasks(top, task.FromPlan(plan))
}

func loadTopology(logger *slog.Logger, opts options) (api.Nodes, error) {
	switch opts.topology {
	case "static":
		nodes := make(api.Nodes, 0, len(opts.hosts))
		for _, host := range opts.hosts {
			nodes = append(nodes, api.Node{
				ID:        uuid.NewSHA1(uuid.NameSpaceDNS, []byte(host)),
				HostNames: []string{host},
			})
		}
		return nodes, nil

	case "etcd":
		reg, err := topology.NewEtcd(opts.etcd, opts.app, logger)
		if err != nil {
			return nil, err
		}
		return reg.Snapshot()

	case "memberlist":
		host, err := os.Hostname()
		if err != nil {
			return nil, err
		}

		ml, err := topology.JoinMemberlist(
			topology.MemberlistConfig{BindAddr: "0.0.0.0", BindPort: opts.bindPort, JoinAddrs: opts.join},
			api.Node{ID: uuid.New(), HostNames: []string{host}},
			logger,
		)
		if err != nil {
			return nil, err
		}
		defer ml.Leave(time.Second)

		return ml.Snapshot()

	default:
		return nil, fmt.Errorf("unknown topology source %q", opts.topology)
	}
}

func printTasks(top api.Nodes, tasks []*task.Task) error {
	hostOf := make(map[uuid.UUID]string, len(top))
	for _, node := range top {
		hostOf[node.ID] = strings.Join(node.HostNames, ",")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tNODE\tHOSTS\tINPUT")

	for _, t := range tasks {
		in := fmt.Sprintf("partition %d/%d", t.ReduceID, t.ReducePartitions)
		if t.Type == task.TypeMap {
			in = fmt.Sprint(t.Split)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Type, t.NodeID, hostOf[t.NodeID], in)
	}

	return w.Flush()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
