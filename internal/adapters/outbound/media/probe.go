package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

// ffprobeOutput maps the subset of ffprobe JSON we read.
type ffprobeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
		FormatName string `json:"format_name"`
	} `json:"format"`
}

type ffprobeProber struct {
	timeout time.Duration
}

func NewFFprobeProber(timeout time.Duration) ports.MediaProber {
	return &ffprobeProber{timeout: timeout}
}

func (p *ffprobeProber) Probe(ctx context.Context, path string) (*domain.VideoMetadata, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &domain.ProbeError{Path: path, Err: fmt.Errorf("file not found: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &domain.ProbeError{Path: path, Err: fmt.Errorf("ffprobe: %w, stderr: %s", err, stderr.String())}
	}

	var out ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, &domain.ProbeError{Path: path, Err: fmt.Errorf("unparseable ffprobe output: %w", err)}
	}

	meta := &domain.VideoMetadata{
		FormatName: out.Format.FormatName,
	}
	meta.Duration, _ = strconv.ParseFloat(out.Format.Duration, 64)
	meta.FileSize, _ = strconv.ParseInt(out.Format.Size, 10, 64)
	if out.Format.BitRate != "" {
		if br, err := strconv.ParseInt(out.Format.BitRate, 10, 64); err == nil {
			meta.Bitrate = &br
		}
	}

	// First stream of each type wins; extra streams are ignored.
	videoSeen, audioSeen := false, false
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if videoSeen {
				continue
			}
			videoSeen = true
			w, h, codec := s.Width, s.Height, s.CodecName
			meta.Width = &w
			meta.Height = &h
			meta.Codec = &codec
			fps := parseFrameRate(s.RFrameRate)
			meta.FPS = &fps
		case "audio":
			audioSeen = true
		}
	}
	meta.HasAudio = audioSeen

	return meta, nil
}

// parseFrameRate turns an ffprobe rational like "30000/1001" into frames
// per second. A zero denominator reads as 0.
func parseFrameRate(r string) float64 {
	if r == "" {
		return 0
	}
	if num, den, ok := strings.Cut(r, "/"); ok {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)
		if errN != nil || errD != nil || d == 0 {
			return 0
		}
		return n / d
	}
	f, _ := strconv.ParseFloat(r, 64)
	return f
}
