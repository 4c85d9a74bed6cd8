package journal

import "time"

// Status describes the outcome of a run or unit.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusEncoded   Status = "encoded"
	StatusSkipped   Status = "skipped"
	StatusPlanned   Status = "planned"
)

// Run is one invocation of combine or stitch over a tree.
type Run struct {
	ID           string
	Mode         string
	Root         string
	DryRun       bool
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       Status
	ErrorMessage string
}

// Unit records the outcome of one encoded output.
type Unit struct {
	ID           int64
	RunID        string
	Mode         string
	Directory    string
	Label        string
	OutputPath   string
	FileCount    int
	Status       Status
	Attempts     int
	Duration     time.Duration
	ErrorMessage string
	RecordedAt   time.Time
}
