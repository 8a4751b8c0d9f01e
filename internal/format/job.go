// Package format drives an external source formatter over many files in
// parallel and reduces the per-file outcomes to a single exit status.
package format

// Options is the invocation configuration shared by every Job in a run.
type Options struct {
	Executable string
	Style      string
	InPlace    bool
	DryRun     bool
}

// Job is a single file to run the formatter on.
type Job struct {
	Path    string
	Options Options
}

// NewJobs creates one Job per path, all sharing opts.
func NewJobs(paths []string, opts Options) []Job {
	jobs := make([]Job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, Job{Path: p, Options: opts})
	}
	return jobs
}

// Kind discriminates the outcome held by a Result.
type Kind int

const (
	// KindClean means the formatter ran and produced no changes.
	KindClean Kind = iota
	// KindDiff means the file would be reformatted; Result.Diff holds the diff.
	KindDiff
	// KindFailure means the formatter could not be run on the file. Result.Err is a *DiffError.
	KindFailure
	// KindFatal means something unexpected broke. Result.Err is an *UnexpectedError.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindClean:
		return "clean"
	case KindDiff:
		return "diff"
	case KindFailure:
		return "failure"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is the outcome of running one Job.
type Result struct {
	Path string
	Kind Kind
	// Diff holds unified diff lines, each terminated by a newline.
	Diff []string
	// Stderr holds the formatter's diagnostic lines. It may be set for any Kind.
	Stderr []string
	// Output holds lines destined for standard output other than the diff,
	// such as the invocation printed in dry-run mode.
	Output []string
	Err    error
}

// Status is the exit status of a run. Values are ordered by severity.
type Status int

const (
	StatusSuccess Status = 0
	StatusDiff    Status = 1
	StatusTrouble Status = 2
)

// Raise returns the more severe of s and o.
func (s Status) Raise(o Status) Status {
	if o > s {
		return o
	}
	return s
}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusDiff:
		return "diff"
	case StatusTrouble:
		return "trouble"
	default:
		return "unknown"
	}
}
