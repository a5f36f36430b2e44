package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the requested video id does not exist.
	ErrNotFound = errors.New("video not found")
	// ErrConflict means the video is already being processed.
	ErrConflict = errors.New("video is already being processed")
	// ErrInvalidFileType means the upload extension is not allowed.
	ErrInvalidFileType = errors.New("invalid file type")
)

// ProbeError is a terminal, non-retriable failure of the media probe:
// missing file, non-zero tool exit or unparseable output.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe failed for %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ThumbnailError means the thumbnail output file was not created after
// the extractor ran. Tool warnings alone never produce one.
type ThumbnailError struct {
	Path string
	Err  error
}

func (e *ThumbnailError) Error() string {
	return fmt.Sprintf("thumbnail not created at %s: %v", e.Path, e.Err)
}

func (e *ThumbnailError) Unwrap() error { return e.Err }
