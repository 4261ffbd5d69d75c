package queue

import "path/filepath"

// Status represents the lifecycle of a queue entry.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusActive  Status = "active"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusUnknown Status = "unknown"
)

var allStatuses = []Status{
	StatusQueued,
	StatusActive,
	StatusDone,
	StatusFailed,
	StatusSkipped,
	StatusUnknown,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Valid reports whether s is a known queue status.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Flag marks whether an entry needs transcoding.
type Flag string

const (
	FlagTranscode Flag = "Y"
	FlagSkip      Flag = "N"
)

// Valid reports whether f is a known transcode flag.
func (f Flag) Valid() bool {
	return f == FlagTranscode || f == FlagSkip
}

// Entry is one tracked file in the persistent queue.
type Entry struct {
	Path      string
	Filename  string
	Transcode Flag
	Status    Status
}

// SourcePath joins the entry's directory and filename.
func (e Entry) SourcePath() string {
	return filepath.Join(e.Path, e.Filename)
}

// Summary aggregates queue state for reporting. Counts carries every known
// status, defaulting unseen statuses to zero.
type Summary struct {
	Counts map[Status]int
	Failed []Entry
}

// Total returns the number of rows covered by the summary.
func (s Summary) Total() int {
	total := 0
	for _, count := range s.Counts {
		total += count
	}
	return total
}
