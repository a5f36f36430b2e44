package domain

// VideoMetadata is the parsed result of probing a media file.
type VideoMetadata struct {
	Duration   float64 `json:"duration"`
	FileSize   int64   `json:"file_size"`
	Bitrate    *int64  `json:"bitrate,omitempty"`
	FormatName string  `json:"format_name"`

	// Set when a video stream is present.
	Width  *int     `json:"width,omitempty"`
	Height *int     `json:"height,omitempty"`
	FPS    *float64 `json:"fps,omitempty"`
	Codec  *string  `json:"codec,omitempty"`

	HasAudio bool `json:"has_audio"`
}

// SegmentArtifact describes one file the segmenter actually produced,
// as observed on disk after the tool ran.
type SegmentArtifact struct {
	Index     int     `json:"index"`
	Path      string  `json:"path"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`
	FileSize  int64   `json:"file_size"`
}

// AudioResult reports the outcome of the audio extraction step. A video
// with no audio stream is a success with an empty path.
type AudioResult struct {
	AudioPath string `json:"audio_path,omitempty"`
	HasAudio  bool   `json:"has_audio"`
}

// PipelineResult is what process() hands back to callers. The pipeline
// never raises tool failures; they land here as Success=false plus the
// failed status on the video row.
type PipelineResult struct {
	Success        bool      `json:"success"`
	VideoID        string    `json:"video_id"`
	Status         string    `json:"status"`
	Segments       []Segment `json:"segments"`
	SegmentCount   int       `json:"segment_count"`
	AudioPath      string    `json:"audio_path,omitempty"`
	ProcessingTime float64   `json:"processing_time_seconds"`
	Error          string    `json:"error,omitempty"`
}
