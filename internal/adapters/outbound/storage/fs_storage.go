package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

type fsStorage struct {
	videosDir     string
	processedDir  string
	thumbnailsDir string
	audioDir      string
}

func NewFSStorage(videosDir, processedDir, thumbnailsDir, audioDir string) ports.Storage {
	s := &fsStorage{
		videosDir:     videosDir,
		processedDir:  processedDir,
		thumbnailsDir: thumbnailsDir,
		audioDir:      audioDir,
	}
	s.createDirs()
	return s
}

func (s *fsStorage) createDirs() {
	dirs := []string{s.videosDir, s.processedDir, s.thumbnailsDir, s.audioDir}
	for _, dir := range dirs {
		os.MkdirAll(dir, 0755)
	}
}

func (s *fsStorage) SaveUpload(filename string, data io.Reader) (string, int64, error) {
	path := filepath.Join(s.videosDir, filename)
	out, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer out.Close()

	written, err := io.Copy(out, data)
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	return path, written, nil
}

func (s *fsStorage) DeleteFile(path string) error {
	return os.Remove(path)
}

func (s *fsStorage) DeleteDir(path string) error {
	return os.RemoveAll(path)
}

func (s *fsStorage) VideoPath(filename string) string {
	return filepath.Join(s.videosDir, filename)
}

func (s *fsStorage) SegmentDir(videoID string) string {
	return filepath.Join(s.processedDir, videoID)
}

func (s *fsStorage) ThumbnailDir(videoID string) string {
	return filepath.Join(s.thumbnailsDir, videoID)
}

func (s *fsStorage) AudioPath(videoID string) string {
	return filepath.Join(s.audioDir, videoID+"_audio.aac")
}
