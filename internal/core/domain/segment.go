package domain

import "time"

// Segment is one fixed-duration slice of a video. Segments are created
// only by the reconciler after the derivation tools have run, and are
// immutable afterwards; they go away only with their parent video.
type Segment struct {
	ID           string `json:"id"`
	VideoID      string `json:"video_id"`
	SegmentIndex int    `json:"segment_index"`

	FilePath      string  `json:"file_path"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	AudioPath     *string `json:"audio_path,omitempty"`

	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`

	FileSize *int64 `json:"file_size,omitempty"`

	// Reserved for the face-detection and embedding stages.
	HasFaces           *bool   `json:"has_faces,omitempty"`
	FaceCount          *int    `json:"face_count,omitempty"`
	EmbeddingID        *string `json:"embedding_id,omitempty"`
	EmbeddingGenerated bool    `json:"embedding_generated"`

	CreatedAt time.Time `json:"created_at"`
}
