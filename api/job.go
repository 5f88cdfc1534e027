package api

// JobDescriptor describes the job being planned.
type JobDescriptor interface {
	// Splits returns the input splits of the job.
	Splits() ([]InputSplit, error)

	// Reducers returns the number of reduce tasks the job wants.
	Reducers() int
}
