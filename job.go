package shardplan

import (
	"errors"
	"fmt"

	"github.com/prxssh/shardplan/api"
	"storj.io/common/memory"
)

const defaultSplitSize = 64 * memory.MiB

// FileJob is a job whose input is a list of files. Each file is cut into
// block splits of SplitSize bytes, and each split becomes one map task.
type FileJob struct {
	// Files are the input file URIs (e.g., "hdfs://nn:8020/logs/a.txt").
	// URIs without a scheme are local files.
	Files []string

	// ReduceTasks is the number of reduce tasks (R).
	ReduceTasks int

	// SplitSize is the size of each input split. The last split of a file
	// may be shorter.
	//
	// If 0, 64MiB is used.
	SplitSize memory.Size

	// Stater reports file sizes. It is usually the same filesystem that
	// serves block locations.
	Stater api.Stater
}

type JobOption func(*FileJob)

// WithReduceTasks sets the number of reduce tasks.
func WithReduceTasks(n int) JobOption {
	return func(j *FileJob) {
		j.ReduceTasks = n
	}
}

// WithSplitSize sets the target split size.
func WithSplitSize(size memory.Size) JobOption {
	return func(j *FileJob) {
		j.SplitSize = size
	}
}

// NewFileJob returns a job over files with one reduce task and 64MiB splits
// unless opts say otherwise.
func NewFileJob(stater api.Stater, files []string, opts ...JobOption) (*FileJob, error) {
	job := &FileJob{
		Files:       files,
		ReduceTasks: 1,
		SplitSize:   defaultSplitSize,
		Stater:      stater,
	}
	for _, opt := range opts {
		opt(job)
	}

	if err := job.validate(); err != nil {
		return nil, err
	}

	return job, nil
}

func (j *FileJob) validate() error {
	if j.Stater == nil {
		return errors.New("shardplan: Stater is required")
	}

	if j.ReduceTasks < 0 {
		return errors.New("shardplan: ReduceTasks cannot be negative")
	}

	if j.SplitSize < 0 {
		return errors.New("shardplan: SplitSize cannot be negative")
	}

	return nil
}

func (j *FileJob) Reducers() int { return j.ReduceTasks }

// Splits cuts every input file into splits, in file order.
func (j *FileJob) Splits() ([]api.InputSplit, error) {
	splitSize := int64(j.SplitSize)
	if splitSize == 0 {
		splitSize = int64(defaultSplitSize)
	}

	var splits []api.InputSplit

	for _, file := range j.Files {
		fileSplits, err := j.splitFile(file, splitSize)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", file, err)
		}
		splits = append(splits, fileSplits...)
	}

	return splits, nil
}

func (j *FileJob) splitFile(file string, splitSize int64) ([]api.InputSplit, error) {
	head, err := api.ParseBlockSplit(file, 0, 0)
	if err != nil {
		return nil, err
	}

	fileSize, err := j.Stater.Size(head.Path)
	if err != nil {
		return nil, err
	}

	numChunks := (fileSize + splitSize - 1) / splitSize
	splits := make([]api.InputSplit, 0, numChunks)

	for i := int64(0); i < numChunks; i++ {
		offset := i * splitSize

		splits = append(splits, &api.BlockSplit{
			Scheme: head.Scheme,
			Path:   head.Path,
			Start:  offset,
			Length: min(splitSize, fileSize-offset),
		})
	}

	return splits, nil
}
