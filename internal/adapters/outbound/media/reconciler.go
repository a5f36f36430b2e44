package media

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

type segmentReconciler struct {
	prober ports.MediaProber
	log    *logrus.Logger
}

// NewSegmentReconciler builds the reconciler that turns the segmenter's
// on-disk output into segment records.
func NewSegmentReconciler(prober ports.MediaProber, log *logrus.Logger) ports.SegmentReconciler {
	return &segmentReconciler{prober: prober, log: log}
}

// Reconcile lists segmentDir for files matching the videoID naming
// convention and builds one record per file, in sorted order. End times
// come from the measured duration of each file; the configured duration
// only supplies the start offsets and the fallback when a file cannot
// be probed. An empty or missing directory yields zero records.
func (r *segmentReconciler) Reconcile(ctx context.Context, videoID, segmentDir, thumbnailDir string, segmentDuration int) ([]domain.Segment, error) {
	files, err := ListSegmentFiles(segmentDir, videoID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	segments := make([]domain.Segment, 0, len(files))

	for idx, path := range files {
		start := float64(idx * segmentDuration)
		duration := float64(segmentDuration)

		if meta, probeErr := r.prober.Probe(ctx, path); probeErr == nil {
			duration = meta.Duration
		} else {
			r.log.WithFields(logrus.Fields{
				"video_id": videoID,
				"path":     path,
				"error":    probeErr.Error(),
			}).Warn("could not measure segment duration, using configured value")
		}

		seg := domain.Segment{
			ID:           uuid.NewString(),
			VideoID:      videoID,
			SegmentIndex: idx,
			FilePath:     path,
			StartTime:    start,
			EndTime:      start + duration,
			Duration:     duration,
			CreatedAt:    now,
		}

		thumb := filepath.Join(thumbnailDir, ThumbnailFilename(videoID, idx))
		if _, err := os.Stat(thumb); err == nil {
			seg.ThumbnailPath = &thumb
		}

		if info, err := os.Stat(path); err == nil {
			size := info.Size()
			seg.FileSize = &size
		}

		segments = append(segments, seg)
	}

	return segments, nil
}
