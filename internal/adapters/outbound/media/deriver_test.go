package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
)

// The segmenter trusts the directory listing over the tool's exit code.
// Running it against a non-media source makes the tool fail, but files
// already present under the output dir must still be reported.
func TestSegmentSplit_DirectoryIsTruth(t *testing.T) {
	ctx := context.Background()

	source := filepath.Join(t.TempDir(), "source.mp4")
	writeFile(t, source, 64)

	outputDir := t.TempDir()
	durations := map[string]float64{}
	for i := 0; i < 3; i++ {
		segPath := filepath.Join(outputDir, fmt.Sprintf("v1_segment_%03d.mp4", i))
		writeFile(t, segPath, 10*(i+1))
		durations[segPath] = 15.0
	}

	d := NewFFmpegDeriver(&stubProber{durations: durations}, testLogger(), time.Minute)
	artifacts, err := d.SegmentSplit(ctx, source, outputDir, "v1", 15)

	require.NoError(t, err)
	require.Len(t, artifacts, 3)
	for i, a := range artifacts {
		assert.Equal(t, i, a.Index)
		assert.Equal(t, float64(i*15), a.StartTime)
		assert.Equal(t, a.StartTime+a.Duration, a.EndTime)
	}
}

func TestSegmentSplit_MissingSourceIsHardError(t *testing.T) {
	d := NewFFmpegDeriver(&stubProber{}, testLogger(), time.Minute)

	_, err := d.SegmentSplit(context.Background(), "/no/such/file.mp4", t.TempDir(), "v1", 15)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSegmentSplit_EmptyOutputIsZeroSegments(t *testing.T) {
	source := filepath.Join(t.TempDir(), "source.mp4")
	writeFile(t, source, 64)

	d := NewFFmpegDeriver(&stubProber{}, testLogger(), time.Minute)
	artifacts, err := d.SegmentSplit(context.Background(), source, t.TempDir(), "v1", 15)

	assert.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestGenerateThumbnail_MissingSource(t *testing.T) {
	d := NewFFmpegDeriver(&stubProber{}, testLogger(), time.Minute)

	err := d.GenerateThumbnail(context.Background(), "/no/such/file.mp4",
		filepath.Join(t.TempDir(), "thumb.jpg"), 3.0, 320, 180)

	var thumbErr *domain.ThumbnailError
	assert.True(t, errors.As(err, &thumbErr))
}

func TestThumbnailFilename(t *testing.T) {
	assert.Equal(t, "v1_segment_000_thumb.jpg", ThumbnailFilename("v1", 0))
	assert.Equal(t, "v1_segment_042_thumb.jpg", ThumbnailFilename("v1", 42))
}
