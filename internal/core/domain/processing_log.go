package domain

import "time"

// Log status values written by the orchestrator.
const (
	LogStarted   = "started"
	LogCompleted = "completed"
	LogFailed    = "failed"
)

// Pipeline step names.
const (
	StepUpload           = "upload"
	StepProcessingStart  = "processing_start"
	StepProcessingDone   = "processing_complete"
	StepProcessingFailed = "processing_failed"
	StepProcessingError  = "processing_error"
)

// ProcessingLog is one append-only audit row per pipeline step attempt.
// A terminal row has CompletedAt set; a still-running step has none.
type ProcessingLog struct {
	ID      int64  `json:"id"`
	VideoID string `json:"video_id"`

	Step    string         `json:"step"`
	Status  string         `json:"status"`
	Message *string        `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMs  *int64     `json:"duration_ms,omitempty"`
}
