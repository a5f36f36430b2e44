package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

type ffmpegDeriver struct {
	prober  ports.MediaProber
	log     *logrus.Logger
	timeout time.Duration
}

// NewFFmpegDeriver builds the derivation adapter. The prober is used to
// measure the real duration of each produced segment file.
func NewFFmpegDeriver(prober ports.MediaProber, log *logrus.Logger, timeout time.Duration) ports.MediaDeriver {
	return &ffmpegDeriver{prober: prober, log: log, timeout: timeout}
}

// SegmentSplit stream-copies source into numbered files under outputDir.
// The directory listing after the run, not the tool's exit code, decides
// what was produced: the segment muxer can exit non-zero on the trailing
// partial segment while leaving valid files behind.
func (d *ffmpegDeriver) SegmentSplit(ctx context.Context, source, outputDir, prefix string, segmentDuration int) ([]domain.SegmentArtifact, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("video file not found: %s", source)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating segment dir: %w", err)
	}

	pattern := filepath.Join(outputDir, prefix+"_segment_%03d.mp4")

	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "ffmpeg",
		"-i", source,
		"-c", "copy",
		"-f", "segment",
		"-segment_time", fmt.Sprintf("%d", segmentDuration),
		"-reset_timestamps", "1",
		"-y",
		pattern,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		d.log.WithFields(logrus.Fields{
			"source": source,
			"error":  err.Error(),
			"stderr": truncate(stderr.String(), 500),
		}).Warn("ffmpeg segmenter returned non-zero exit code")
	}

	files, err := ListSegmentFiles(outputDir, prefix)
	if err != nil {
		return nil, err
	}

	artifacts := make([]domain.SegmentArtifact, 0, len(files))
	for idx, path := range files {
		start := float64(idx * segmentDuration)
		duration := float64(segmentDuration)
		var size int64

		if meta, err := d.prober.Probe(ctx, path); err == nil {
			duration = meta.Duration
			size = meta.FileSize
		} else if info, statErr := os.Stat(path); statErr == nil {
			size = info.Size()
		}

		artifacts = append(artifacts, domain.SegmentArtifact{
			Index:     idx,
			Path:      path,
			StartTime: start,
			EndTime:   start + duration,
			Duration:  duration,
			FileSize:  size,
		})
	}

	d.log.WithFields(logrus.Fields{
		"source":        source,
		"segment_count": len(artifacts),
	}).Info("video segmentation complete")

	return artifacts, nil
}

// ExtractAudio re-encodes the audio stream of source into outputPath.
func (d *ffmpegDeriver) ExtractAudio(ctx context.Context, source, outputPath string) (*domain.AudioResult, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("video file not found: %s", source)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("creating audio dir: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "ffmpeg",
		"-i", source,
		"-vn",
		"-acodec", "aac",
		"-y",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if indicatesNoAudio(stderr.String()) {
			d.log.WithField("source", source).Info("video has no audio track")
			return &domain.AudioResult{HasAudio: false}, nil
		}
		d.log.WithFields(logrus.Fields{
			"source": source,
			"error":  err.Error(),
			"stderr": truncate(stderr.String(), 500),
		}).Warn("ffmpeg audio extraction warning")
	}

	if _, err := os.Stat(outputPath); err != nil {
		return &domain.AudioResult{HasAudio: false}, nil
	}

	return &domain.AudioResult{AudioPath: outputPath, HasAudio: true}, nil
}

// GenerateThumbnail extracts a single scaled frame at timestamp seconds.
func (d *ffmpegDeriver) GenerateThumbnail(ctx context.Context, source, outputPath string, timestamp float64, width, height int) error {
	if _, err := os.Stat(source); err != nil {
		return &domain.ThumbnailError{Path: outputPath, Err: fmt.Errorf("video file not found: %s", source)}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return &domain.ThumbnailError{Path: outputPath, Err: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "ffmpeg",
		"-ss", fmt.Sprintf("%.3f", timestamp),
		"-i", source,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-y",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		d.log.WithFields(logrus.Fields{
			"source": source,
			"error":  runErr.Error(),
			"stderr": truncate(stderr.String(), 500),
		}).Warn("ffmpeg thumbnail generation warning")
	}

	if _, err := os.Stat(outputPath); err != nil {
		if runErr == nil {
			runErr = err
		}
		return &domain.ThumbnailError{Path: outputPath, Err: runErr}
	}
	return nil
}

// ListSegmentFiles returns the segment files under dir for the given
// naming prefix, sorted lexicographically. The zero-padded ordinal makes
// that order numeric as well. A missing directory yields an empty list.
func ListSegmentFiles(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if IsSegmentFile(e.Name(), prefix) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// IsSegmentFile reports whether name follows the segmenter's naming
// convention for the given prefix.
func IsSegmentFile(name, prefix string) bool {
	return strings.HasPrefix(name, prefix) &&
		strings.Contains(name, "_segment_") &&
		strings.HasSuffix(name, ".mp4")
}

// ThumbnailFilename is the expected per-segment thumbnail name.
func ThumbnailFilename(videoID string, index int) string {
	return fmt.Sprintf("%s_segment_%03d_thumb.jpg", videoID, index)
}

// indicatesNoAudio matches the diagnostics ffmpeg emits when the input
// has no audio stream to extract.
func indicatesNoAudio(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(stderr, "does not contain any stream") ||
		strings.Contains(lower, "no audio")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
