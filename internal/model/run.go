package model

import "time"

// RunStatus tracks the lifecycle of a batch run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// BatchRun records one invocation of batch extraction.
type BatchRun struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	SourceDir  string     `json:"source_dir"`
	Documents  int        `json:"documents"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
