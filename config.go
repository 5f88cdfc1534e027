package shardplan

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prxssh/shardplan/api"
	"github.com/prxssh/shardplan/internal/planner"
)

const (
	defaultDFSScheme   = "hdfs"
	defaultConcurrency = 4
)

// WeightFunc returns the reducer weight of a node given the number of splits
// mapped to it.
type WeightFunc = planner.WeightFunc

var (
	// SplitCountWeight weighs nodes by mapped splits only. It is the default.
	SplitCountWeight WeightFunc = planner.SplitCountWeight

	// CPUWeight weighs nodes by mapped splits times reported cores.
	CPUWeight WeightFunc = planner.CPUWeight
)

// Config holds the collaborators and policies used to plan jobs.
type Config struct {
	// Logger receives planning logs. If nil, a text logger on stderr is
	// used.
	Logger *slog.Logger

	// LocationService resolves block splits to the nodes holding their
	// data. If nil, splits are placed by the hosts they report.
	LocationService api.BlockLocationService

	// DFSScheme is the URI scheme served by LocationService (e.g., "hdfs").
	// Block splits with any other scheme are placed by host.
	//
	// Defaults to "hdfs".
	DFSScheme string

	// Weight decides how reduce slots are spread over nodes. If nil, nodes
	// are weighted by the number of splits mapped to them.
	Weight WeightFunc

	// Concurrency is the maximum number of jobs PlanJobs plans at once.
	//
	// Defaults to 4.
	Concurrency int
}

type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithLocationService sets the block location service.
func WithLocationService(svc api.BlockLocationService) Option {
	return func(c *Config) {
		c.LocationService = svc
	}
}

// WithDFSScheme sets the URI scheme served by the location service.
func WithDFSScheme(scheme string) Option {
	return func(c *Config) {
		c.DFSScheme = scheme
	}
}

// WithWeightFunc sets the reducer weight function.
func WithWeightFunc(fn WeightFunc) Option {
	return func(c *Config) {
		c.Weight = fn
	}
}

// WithConcurrency sets how many jobs PlanJobs plans at once.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.Concurrency = n
	}
}

func defaultConfig() *Config {
	return &Config{
		DFSScheme:   defaultDFSScheme,
		Weight:      SplitCountWeight,
		Concurrency: defaultConcurrency,
	}
}

func NewConfig(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	return cfg
}

func (cfg *Config) validate() error {
	if cfg.DFSScheme == "" {
		return errors.New("shardplan: DFSScheme cannot be empty")
	}

	if cfg.Weight == nil {
		return errors.New("shardplan: Weight function is required")
	}

	if cfg.Concurrency <= 0 {
		return fmt.Errorf(
			"shardplan: Concurrency must be greater than 0 (got %d)",
			cfg.Concurrency,
		)
	}

	return nil
}
