package ports

import (
	"context"
	"io"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
)

// VideoUseCase is the inbound port exposed to the HTTP and messaging adapters.
type VideoUseCase interface {
	Upload(ctx context.Context, originalFilename string, data io.Reader, cameraID, location, uploadedBy *string) (*domain.Video, error)
	Process(ctx context.Context, videoID string, cameraID, location *string) (*domain.PipelineResult, error)
	Get(ctx context.Context, videoID string) (*domain.VideoDetail, error)
	List(ctx context.Context, page, pageSize int, status *string) ([]domain.VideoDetail, int, error)
	Delete(ctx context.Context, videoID string) (bool, error)
}

// MediaProber is the outbound port for read-only media inspection.
type MediaProber interface {
	Probe(ctx context.Context, path string) (*domain.VideoMetadata, error)
}

// MediaDeriver is the outbound port for the transcoding-tool operations.
// Each call reports success from what it finds on disk afterwards, not
// from the subprocess exit code.
type MediaDeriver interface {
	// SegmentSplit splits source into fixed-duration files under outputDir
	// and returns the artifacts it observed there. A missing source is
	// the only hard error; zero artifacts is a valid outcome.
	SegmentSplit(ctx context.Context, source, outputDir, prefix string, segmentDuration int) ([]domain.SegmentArtifact, error)
	// ExtractAudio strips the video stream into outputPath. A source with
	// no audio stream yields HasAudio=false and no error.
	ExtractAudio(ctx context.Context, source, outputPath string) (*domain.AudioResult, error)
	// GenerateThumbnail grabs one scaled frame at timestamp seconds.
	GenerateThumbnail(ctx context.Context, source, outputPath string, timestamp float64, width, height int) error
}

// SegmentReconciler rebuilds segment records from the files the
// derivation tools left behind.
type SegmentReconciler interface {
	Reconcile(ctx context.Context, videoID, segmentDir, thumbnailDir string, segmentDuration int) ([]domain.Segment, error)
}

// Storage is the outbound port for file operations.
type Storage interface {
	SaveUpload(filename string, data io.Reader) (string, int64, error)
	DeleteFile(path string) error
	DeleteDir(path string) error
	VideoPath(filename string) string
	SegmentDir(videoID string) string
	ThumbnailDir(videoID string) string
	AudioPath(videoID string) string
}

// VideoRepository is the outbound port for video persistence.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id string) (*domain.Video, error)
	List(ctx context.Context, limit, offset int, status *string) ([]domain.Video, int, error)
	Update(ctx context.Context, video *domain.Video) error
	// BeginProcessing flips the row to processing only if it is not
	// already there; reports whether this caller won the transition.
	BeginProcessing(ctx context.Context, id string) (bool, error)
	// Finalize commits metadata, segments, terminal status and the
	// closing log row in one transaction.
	Finalize(ctx context.Context, video *domain.Video, segments []domain.Segment, log *domain.ProcessingLog) error
	Delete(ctx context.Context, id string) (bool, error)
}

// SegmentRepository is the outbound port for segment reads. Writes only
// happen through VideoRepository.Finalize.
type SegmentRepository interface {
	ListByVideo(ctx context.Context, videoID string) ([]domain.Segment, error)
}

// ProcessingLogRepository appends audit rows. Logs are never updated or
// deleted individually.
type ProcessingLogRepository interface {
	Append(ctx context.Context, log *domain.ProcessingLog) error
	ListByVideo(ctx context.Context, videoID string) ([]domain.ProcessingLog, error)
}
