package domain

import "time"

// Processing lifecycle of a video. Only pending, processing, completed and
// failed are driven by transitions today; the granular states exist for
// finer progress reporting later.
const (
	StatusPending              = "pending"
	StatusUploading            = "uploading"
	StatusProcessing           = "processing"
	StatusSegmenting           = "segmenting"
	StatusExtractingAudio      = "extracting_audio"
	StatusGeneratingThumbnails = "generating_thumbnails"
	StatusCompleted            = "completed"
	StatusFailed               = "failed"
)

// ValidStatus reports whether s is a known processing status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusUploading, StatusProcessing, StatusSegmenting,
		StatusExtractingAudio, StatusGeneratingThumbnails, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

type Video struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	FilePath         string `json:"file_path"`
	FileSize         int64  `json:"file_size"`

	// Probe metadata. All six are written together from one probe result,
	// or all stay nil.
	Duration *float64 `json:"duration,omitempty"`
	Width    *int     `json:"width,omitempty"`
	Height   *int     `json:"height,omitempty"`
	FPS      *float64 `json:"fps,omitempty"`
	Codec    *string  `json:"codec,omitempty"`
	Bitrate  *int64   `json:"bitrate,omitempty"`

	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`

	CameraID   *string `json:"camera_id,omitempty"`
	Location   *string `json:"location,omitempty"`
	UploadedBy *string `json:"uploaded_by,omitempty"`

	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	ProcessingStartedAt   *time.Time `json:"processing_started_at,omitempty"`
	ProcessingCompletedAt *time.Time `json:"processing_completed_at,omitempty"`
}

// VideoDetail is a video together with its owned records, as returned
// by get and list.
type VideoDetail struct {
	Video
	Segments []Segment       `json:"segments"`
	Logs     []ProcessingLog `json:"processing_logs"`
}
