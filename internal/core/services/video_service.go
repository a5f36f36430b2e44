package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

var (
	videoProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "video_processing_duration_seconds",
		Help:    "Duration of the video processing pipeline in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	videosProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videos_processed_total",
		Help: "Total number of videos run through the pipeline",
	}, []string{"status"})

	segmentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_segments_created_total",
		Help: "Total number of segment records created",
	})
)

var allowedExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// PipelineConfig carries the derivation settings the orchestrator needs.
type PipelineConfig struct {
	SegmentDuration    int
	ThumbnailTimestamp float64
	ThumbnailWidth     int
	ThumbnailHeight    int
}

type videoService struct {
	prober     ports.MediaProber
	deriver    ports.MediaDeriver
	reconciler ports.SegmentReconciler
	storage    ports.Storage
	repo       ports.VideoRepository
	segRepo    ports.SegmentRepository
	logRepo    ports.ProcessingLogRepository
	log        *logrus.Logger
	cfg        PipelineConfig

	// inflight guards against two pipeline runs for the same video in
	// this process; BeginProcessing closes the race across processes.
	mu       sync.Mutex
	inflight map[string]bool
}

func NewVideoService(
	prober ports.MediaProber,
	deriver ports.MediaDeriver,
	reconciler ports.SegmentReconciler,
	storage ports.Storage,
	repo ports.VideoRepository,
	segRepo ports.SegmentRepository,
	logRepo ports.ProcessingLogRepository,
	log *logrus.Logger,
	cfg PipelineConfig,
) ports.VideoUseCase {
	return &videoService{
		prober:     prober,
		deriver:    deriver,
		reconciler: reconciler,
		storage:    storage,
		repo:       repo,
		segRepo:    segRepo,
		logRepo:    logRepo,
		log:        log,
		cfg:        cfg,
		inflight:   map[string]bool{},
	}
}

// Upload streams the file to disk and creates the pending video row.
func (s *videoService) Upload(ctx context.Context, originalFilename string, data io.Reader, cameraID, location, uploadedBy *string) (*domain.Video, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFileType, ext)
	}

	videoID := uuid.NewString()
	storedFilename := videoID + ext

	path, size, err := s.storage.SaveUpload(storedFilename, data)
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	video := &domain.Video{
		ID:               videoID,
		Filename:         storedFilename,
		OriginalFilename: originalFilename,
		FilePath:         path,
		FileSize:         size,
		Status:           domain.StatusPending,
		CameraID:         cameraID,
		Location:         location,
		UploadedBy:       uploadedBy,
	}

	if err := s.repo.Create(ctx, video); err != nil {
		s.storage.DeleteFile(path)
		return nil, fmt.Errorf("creating video record: %w", err)
	}

	if err := s.logStep(ctx, videoID, domain.StepUpload, domain.LogCompleted,
		fmt.Sprintf("Video uploaded successfully: %s", originalFilename),
		map[string]any{"file_size": size, "stored_path": path}); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"video_id":  videoID,
		"file_size": size,
	}).Info("video uploaded")

	return video, nil
}

// Process drives the ordered derivation pipeline for one video. Tool
// failures inside the pipeline never escape as errors; they surface as a
// failed status plus error message on the returned result.
func (s *videoService) Process(ctx context.Context, videoID string, cameraID, location *string) (*domain.PipelineResult, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetching video %s: %w", videoID, err)
	}
	if video == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, videoID)
	}

	// Re-processing a completed video replays the stored result.
	if video.Status == domain.StatusCompleted {
		segments, err := s.segRepo.ListByVideo(ctx, videoID)
		if err != nil {
			return nil, err
		}
		return &domain.PipelineResult{
			Success:      true,
			VideoID:      videoID,
			Status:       video.Status,
			Segments:     segments,
			SegmentCount: len(segments),
		}, nil
	}

	if video.Status == domain.StatusProcessing {
		return nil, fmt.Errorf("%w: %s", domain.ErrConflict, videoID)
	}

	s.mu.Lock()
	if s.inflight[videoID] {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrConflict, videoID)
	}
	s.inflight[videoID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, videoID)
		s.mu.Unlock()
	}()

	won, err := s.repo.BeginProcessing(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("marking video %s as processing: %w", videoID, err)
	}
	if !won {
		return nil, fmt.Errorf("%w: %s", domain.ErrConflict, videoID)
	}

	video.Status = domain.StatusProcessing
	if cameraID != nil || location != nil {
		if cameraID != nil {
			video.CameraID = cameraID
		}
		if location != nil {
			video.Location = location
		}
		if err := s.repo.Update(ctx, video); err != nil {
			return nil, fmt.Errorf("updating video %s: %w", videoID, err)
		}
	}

	if err := s.logStep(ctx, videoID, domain.StepProcessingStart, domain.LogStarted, "Video processing started", nil); err != nil {
		return nil, err
	}

	s.log.WithField("video_id", videoID).Info("starting video processing")
	start := time.Now()

	meta, segments, audio, pipelineErr := s.runPipeline(ctx, video)
	elapsed := time.Since(start)

	if pipelineErr != nil {
		return s.finalizeFailure(ctx, video, pipelineErr, elapsed)
	}
	return s.finalizeSuccess(ctx, video, meta, segments, audio, elapsed)
}

// runPipeline executes probe, segment split, audio extraction and
// per-segment thumbnails strictly in order. A thumbnail failure is not
// fatal; the affected segment just ends up without one.
func (s *videoService) runPipeline(ctx context.Context, video *domain.Video) (meta *domain.VideoMetadata, segments []domain.Segment, audio *domain.AudioResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{fmt.Errorf("pipeline panic: %v", r)}
		}
	}()

	meta, err = s.prober.Probe(ctx, video.FilePath)
	if err != nil {
		return nil, nil, nil, err
	}

	segmentDir := s.storage.SegmentDir(video.ID)
	thumbnailDir := s.storage.ThumbnailDir(video.ID)

	artifacts, err := s.deriver.SegmentSplit(ctx, video.FilePath, segmentDir, video.ID, s.cfg.SegmentDuration)
	if err != nil {
		return nil, nil, nil, err
	}

	audio, err = s.deriver.ExtractAudio(ctx, video.FilePath, s.storage.AudioPath(video.ID))
	if err != nil {
		return nil, nil, nil, err
	}

	for _, artifact := range artifacts {
		thumbPath := filepath.Join(thumbnailDir, fmt.Sprintf("%s_segment_%03d_thumb.jpg", video.ID, artifact.Index))
		if thumbErr := s.deriver.GenerateThumbnail(ctx, artifact.Path, thumbPath,
			s.cfg.ThumbnailTimestamp, s.cfg.ThumbnailWidth, s.cfg.ThumbnailHeight); thumbErr != nil {
			s.log.WithFields(logrus.Fields{
				"video_id": video.ID,
				"segment":  artifact.Index,
				"error":    thumbErr.Error(),
			}).Warn("thumbnail generation failed, segment will have none")
		}
	}

	segments, err = s.reconciler.Reconcile(ctx, video.ID, segmentDir, thumbnailDir, s.cfg.SegmentDuration)
	if err != nil {
		return nil, nil, nil, err
	}

	return meta, segments, audio, nil
}

func (s *videoService) finalizeSuccess(ctx context.Context, video *domain.Video, meta *domain.VideoMetadata, segments []domain.Segment, audio *domain.AudioResult, elapsed time.Duration) (*domain.PipelineResult, error) {
	now := time.Now().UTC()

	// Probe metadata is all-or-nothing on the video row.
	video.Duration = &meta.Duration
	video.Width = meta.Width
	video.Height = meta.Height
	video.FPS = meta.FPS
	video.Codec = meta.Codec
	video.Bitrate = meta.Bitrate
	video.Status = domain.StatusCompleted
	video.ErrorMessage = nil
	video.ProcessingCompletedAt = &now

	processingTime := elapsed.Seconds()
	logRow := s.newLogRow(video.ID, domain.StepProcessingDone, domain.LogCompleted,
		"Video processing completed successfully",
		map[string]any{
			"segment_count":           len(segments),
			"processing_time_seconds": processingTime,
		})

	if err := s.repo.Finalize(ctx, video, segments, logRow); err != nil {
		return nil, fmt.Errorf("finalizing video %s: %w", video.ID, err)
	}

	videoProcessingDuration.WithLabelValues("success").Observe(processingTime)
	videosProcessedTotal.WithLabelValues("success").Inc()
	segmentsCreatedTotal.Add(float64(len(segments)))

	s.log.WithFields(logrus.Fields{
		"video_id":                video.ID,
		"segment_count":           len(segments),
		"processing_time_seconds": processingTime,
	}).Info("video processing completed")

	result := &domain.PipelineResult{
		Success:        true,
		VideoID:        video.ID,
		Status:         video.Status,
		Segments:       segments,
		SegmentCount:   len(segments),
		ProcessingTime: processingTime,
	}
	if audio != nil && audio.HasAudio {
		result.AudioPath = audio.AudioPath
	}
	return result, nil
}

func (s *videoService) finalizeFailure(ctx context.Context, video *domain.Video, pipelineErr error, elapsed time.Duration) (*domain.PipelineResult, error) {
	msg := pipelineErr.Error()
	video.Status = domain.StatusFailed
	video.ErrorMessage = &msg

	step := domain.StepProcessingFailed
	if _, ok := pipelineErr.(*panicError); ok {
		step = domain.StepProcessingError
	}
	logRow := s.newLogRow(video.ID, step, domain.LogFailed, msg, nil)

	if err := s.repo.Finalize(ctx, video, nil, logRow); err != nil {
		return nil, fmt.Errorf("recording failure for video %s: %w", video.ID, err)
	}

	videoProcessingDuration.WithLabelValues("error").Observe(elapsed.Seconds())
	videosProcessedTotal.WithLabelValues("error").Inc()

	s.log.WithFields(logrus.Fields{
		"video_id": video.ID,
		"error":    msg,
	}).Error("video processing failed")

	return &domain.PipelineResult{
		Success:        false,
		VideoID:        video.ID,
		Status:         video.Status,
		ProcessingTime: elapsed.Seconds(),
		Error:          msg,
	}, nil
}

func (s *videoService) Get(ctx context.Context, videoID string) (*domain.VideoDetail, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, videoID)
	}
	return s.loadDetail(ctx, *video)
}

func (s *videoService) List(ctx context.Context, page, pageSize int, status *string) ([]domain.VideoDetail, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	videos, total, err := s.repo.List(ctx, pageSize, (page-1)*pageSize, status)
	if err != nil {
		return nil, 0, err
	}

	details := make([]domain.VideoDetail, 0, len(videos))
	for _, v := range videos {
		d, err := s.loadDetail(ctx, v)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, *d)
	}
	return details, total, nil
}

// Delete removes the video with its owned records, then clears the
// on-disk artifacts. File removal is best-effort: a file someone already
// deleted by hand never blocks the record deletion.
func (s *videoService) Delete(ctx context.Context, videoID string) (bool, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return false, err
	}
	if video == nil {
		return false, nil
	}

	segments, err := s.segRepo.ListByVideo(ctx, videoID)
	if err != nil {
		return false, err
	}

	deleted, err := s.repo.Delete(ctx, videoID)
	if err != nil || !deleted {
		return deleted, err
	}

	s.removeFile(videoID, video.FilePath)
	for _, seg := range segments {
		s.removeFile(videoID, seg.FilePath)
		if seg.ThumbnailPath != nil {
			s.removeFile(videoID, *seg.ThumbnailPath)
		}
		if seg.AudioPath != nil {
			s.removeFile(videoID, *seg.AudioPath)
		}
	}
	s.removeFile(videoID, s.storage.AudioPath(videoID))
	s.removeDir(videoID, s.storage.SegmentDir(videoID))
	s.removeDir(videoID, s.storage.ThumbnailDir(videoID))

	s.log.WithField("video_id", videoID).Info("video deleted")
	return true, nil
}

func (s *videoService) removeFile(videoID, path string) {
	if err := s.storage.DeleteFile(path); err != nil {
		s.log.WithFields(logrus.Fields{
			"video_id": videoID,
			"path":     path,
			"error":    err.Error(),
		}).Warn("could not remove file during delete")
	}
}

func (s *videoService) removeDir(videoID, path string) {
	if err := s.storage.DeleteDir(path); err != nil {
		s.log.WithFields(logrus.Fields{
			"video_id": videoID,
			"path":     path,
			"error":    err.Error(),
		}).Warn("could not remove directory during delete")
	}
}

func (s *videoService) loadDetail(ctx context.Context, video domain.Video) (*domain.VideoDetail, error) {
	segments, err := s.segRepo.ListByVideo(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListByVideo(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	return &domain.VideoDetail{Video: video, Segments: segments, Logs: logs}, nil
}

func (s *videoService) logStep(ctx context.Context, videoID, step, status, message string, details map[string]any) error {
	return s.logRepo.Append(ctx, s.newLogRow(videoID, step, status, message, details))
}

// newLogRow builds an audit row. Terminal statuses close the row with a
// completion timestamp; a started step stays open until its terminal row.
func (s *videoService) newLogRow(videoID, step, status, message string, details map[string]any) *domain.ProcessingLog {
	now := time.Now().UTC()
	row := &domain.ProcessingLog{
		VideoID:   videoID,
		Step:      step,
		Status:    status,
		Details:   details,
		StartedAt: now,
	}
	if message != "" {
		row.Message = &message
	}
	if status == domain.LogCompleted || status == domain.LogFailed {
		row.CompletedAt = &now
	}
	return row
}

// panicError marks a failure that escaped the derivation layer instead
// of being reported as a structured result.
type panicError struct {
	err error
}

func (e *panicError) Error() string { return e.err.Error() }
func (e *panicError) Unwrap() error { return e.err }
