package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
)

// stubProber serves canned durations keyed by path, with a fallback error
// for unknown files.
type stubProber struct {
	durations map[string]float64
}

func (p *stubProber) Probe(_ context.Context, path string) (*domain.VideoMetadata, error) {
	d, ok := p.durations[path]
	if !ok {
		return nil, &domain.ProbeError{Path: path, Err: fmt.Errorf("unknown file")}
	}
	return &domain.VideoMetadata{Duration: d}, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}

func TestSegmentReconciler_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("missing directory yields zero segments", func(t *testing.T) {
		r := NewSegmentReconciler(&stubProber{}, testLogger())

		segments, err := r.Reconcile(ctx, "v1", "/does/not/exist", "/neither", 15)

		assert.NoError(t, err)
		assert.Empty(t, segments)
	})

	t.Run("builds contiguous zero-based indices from directory listing", func(t *testing.T) {
		segDir := t.TempDir()
		thumbDir := t.TempDir()

		durations := map[string]float64{}
		for i := 0; i < 4; i++ {
			path := filepath.Join(segDir, fmt.Sprintf("v1_segment_%03d.mp4", i))
			writeFile(t, path, 100+i)
			durations[path] = 15.0
		}
		// Last segment is a ~2s partial.
		durations[filepath.Join(segDir, "v1_segment_003.mp4")] = 2.04

		// Noise that must be ignored.
		writeFile(t, filepath.Join(segDir, "other_segment_000.mp4"), 10)
		writeFile(t, filepath.Join(segDir, "v1_notes.txt"), 10)

		// Thumbnails exist for all but segment 2.
		for _, i := range []int{0, 1, 3} {
			writeFile(t, filepath.Join(thumbDir, ThumbnailFilename("v1", i)), 10)
		}

		r := NewSegmentReconciler(&stubProber{durations: durations}, testLogger())
		segments, err := r.Reconcile(ctx, "v1", segDir, thumbDir, 15)

		require.NoError(t, err)
		require.Len(t, segments, 4)

		for i, seg := range segments {
			assert.Equal(t, i, seg.SegmentIndex)
			assert.Equal(t, "v1", seg.VideoID)
			assert.Equal(t, float64(i*15), seg.StartTime)
			assert.InDelta(t, seg.StartTime+seg.Duration, seg.EndTime, 1e-9)
			assert.NotEmpty(t, seg.ID)
			require.NotNil(t, seg.FileSize)
			assert.Equal(t, int64(100+i), *seg.FileSize)
			assert.Nil(t, seg.AudioPath)
			assert.False(t, seg.EmbeddingGenerated)
		}

		// Measured duration wins over the configured 15s.
		assert.InDelta(t, 2.04, segments[3].Duration, 1e-9)
		assert.InDelta(t, 47.04, segments[3].EndTime, 1e-9)

		assert.NotNil(t, segments[0].ThumbnailPath)
		assert.NotNil(t, segments[1].ThumbnailPath)
		assert.Nil(t, segments[2].ThumbnailPath)
		assert.NotNil(t, segments[3].ThumbnailPath)
	})

	t.Run("unprobeable segment falls back to configured duration", func(t *testing.T) {
		segDir := t.TempDir()
		path := filepath.Join(segDir, "v1_segment_000.mp4")
		writeFile(t, path, 50)

		r := NewSegmentReconciler(&stubProber{}, testLogger())
		segments, err := r.Reconcile(ctx, "v1", segDir, t.TempDir(), 15)

		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, 15.0, segments[0].Duration)
		assert.Equal(t, 15.0, segments[0].EndTime)
	})
}

func TestListSegmentFiles(t *testing.T) {
	dir := t.TempDir()

	// Written out of order; listing must come back sorted by ordinal.
	for _, i := range []int{2, 0, 10, 1} {
		writeFile(t, filepath.Join(dir, fmt.Sprintf("v1_segment_%03d.mp4", i)), 1)
	}
	writeFile(t, filepath.Join(dir, "v1_segment_000.jpg"), 1)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "v1_segment_dir.mp4"), 0755))

	files, err := ListSegmentFiles(dir, "v1")

	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, "v1_segment_000.mp4", filepath.Base(files[0]))
	assert.Equal(t, "v1_segment_001.mp4", filepath.Base(files[1]))
	assert.Equal(t, "v1_segment_002.mp4", filepath.Base(files[2]))
	assert.Equal(t, "v1_segment_010.mp4", filepath.Base(files[3]))
}

func TestIsSegmentFile(t *testing.T) {
	assert.True(t, IsSegmentFile("v1_segment_000.mp4", "v1"))
	assert.False(t, IsSegmentFile("v2_segment_000.mp4", "v1"))
	assert.False(t, IsSegmentFile("v1_segment_000.aac", "v1"))
	assert.False(t, IsSegmentFile("v1_thumb_000.mp4", "v1"))
}

func TestParseFrameRate(t *testing.T) {
	assert.Equal(t, 30.0, parseFrameRate("30/1"))
	assert.InDelta(t, 29.97, parseFrameRate("30000/1001"), 0.001)
	assert.Equal(t, 0.0, parseFrameRate("30/0"))
	assert.Equal(t, 0.0, parseFrameRate(""))
	assert.Equal(t, 25.0, parseFrameRate("25"))
}

func TestIndicatesNoAudio(t *testing.T) {
	assert.True(t, indicatesNoAudio("Output file #0 does not contain any stream"))
	assert.True(t, indicatesNoAudio("error: No Audio stream found"))
	assert.False(t, indicatesNoAudio("Invalid data found when processing input"))
}
