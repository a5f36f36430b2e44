package services

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
)

type MockMediaProber struct {
	mock.Mock
}

func (m *MockMediaProber) Probe(ctx context.Context, path string) (*domain.VideoMetadata, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VideoMetadata), args.Error(1)
}

type MockMediaDeriver struct {
	mock.Mock
}

func (m *MockMediaDeriver) SegmentSplit(ctx context.Context, source, outputDir, prefix string, segmentDuration int) ([]domain.SegmentArtifact, error) {
	args := m.Called(ctx, source, outputDir, prefix, segmentDuration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SegmentArtifact), args.Error(1)
}

func (m *MockMediaDeriver) ExtractAudio(ctx context.Context, source, outputPath string) (*domain.AudioResult, error) {
	args := m.Called(ctx, source, outputPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AudioResult), args.Error(1)
}

func (m *MockMediaDeriver) GenerateThumbnail(ctx context.Context, source, outputPath string, timestamp float64, width, height int) error {
	args := m.Called(ctx, source, outputPath, timestamp, width, height)
	return args.Error(0)
}

type MockSegmentReconciler struct {
	mock.Mock
}

func (m *MockSegmentReconciler) Reconcile(ctx context.Context, videoID, segmentDir, thumbnailDir string, segmentDuration int) ([]domain.Segment, error) {
	args := m.Called(ctx, videoID, segmentDir, thumbnailDir, segmentDuration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Segment), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUpload(filename string, data io.Reader) (string, int64, error) {
	args := m.Called(filename, data)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) DeleteFile(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockStorage) DeleteDir(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockStorage) VideoPath(filename string) string {
	args := m.Called(filename)
	return args.String(0)
}

func (m *MockStorage) SegmentDir(videoID string) string {
	args := m.Called(videoID)
	return args.String(0)
}

func (m *MockStorage) ThumbnailDir(videoID string) string {
	args := m.Called(videoID)
	return args.String(0)
}

func (m *MockStorage) AudioPath(videoID string) string {
	args := m.Called(videoID)
	return args.String(0)
}

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, video *domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Video), args.Error(1)
}

func (m *MockVideoRepository) List(ctx context.Context, limit, offset int, status *string) ([]domain.Video, int, error) {
	args := m.Called(ctx, limit, offset, status)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Video), args.Int(1), args.Error(2)
}

func (m *MockVideoRepository) Update(ctx context.Context, video *domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) BeginProcessing(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVideoRepository) Finalize(ctx context.Context, video *domain.Video, segments []domain.Segment, log *domain.ProcessingLog) error {
	args := m.Called(ctx, video, segments, log)
	return args.Error(0)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockSegmentRepository struct {
	mock.Mock
}

func (m *MockSegmentRepository) ListByVideo(ctx context.Context, videoID string) ([]domain.Segment, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Segment), args.Error(1)
}

type MockProcessingLogRepository struct {
	mock.Mock
}

func (m *MockProcessingLogRepository) Append(ctx context.Context, log *domain.ProcessingLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockProcessingLogRepository) ListByVideo(ctx context.Context, videoID string) ([]domain.ProcessingLog, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessingLog), args.Error(1)
}
