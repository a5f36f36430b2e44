package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every runtime knob, loaded once in main and passed down.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	NatsURL string

	DataDir       string
	VideosDir     string
	ProcessedDir  string
	ThumbnailsDir string
	AudioDir      string

	SegmentDuration    int
	ThumbnailTimestamp float64
	ThumbnailWidth     int
	ThumbnailHeight    int
	ToolTimeout        time.Duration

	LogLevel string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	dataDir := env("DATA_DIR", "./data")

	return Config{
		HTTPAddr:    env("HTTP_ADDR", ":8000"),
		MetricsAddr: env("METRICS_ADDR", ":9090"),

		DBUser: os.Getenv("DB_USER"),
		DBPass: os.Getenv("DB_PASSWORD"),
		DBHost: env("DB_HOST", "db"),
		DBPort: env("DB_PORT", "5432"),
		DBName: os.Getenv("DB_NAME"),

		NatsURL: env("NATS_URL", "nats://nats1:4222"),

		DataDir:       dataDir,
		VideosDir:     env("VIDEOS_DIR", filepath.Join(dataDir, "videos")),
		ProcessedDir:  env("PROCESSED_DIR", filepath.Join(dataDir, "processed")),
		ThumbnailsDir: env("THUMBNAILS_DIR", filepath.Join(dataDir, "thumbnails")),
		AudioDir:      env("AUDIO_DIR", filepath.Join(dataDir, "audio")),

		SegmentDuration:    envInt("SEGMENT_DURATION", 15),
		ThumbnailTimestamp: envFloat("THUMBNAIL_TIMESTAMP", 3.0),
		ThumbnailWidth:     envInt("THUMBNAIL_WIDTH", 320),
		ThumbnailHeight:    envInt("THUMBNAIL_HEIGHT", 180),
		ToolTimeout:        envDuration("TOOL_TIMEOUT", 5*time.Minute),

		LogLevel: env("LOG_LEVEL", "info"),
	}
}

// NewLogger builds the shared JSON logger used across all adapters.
func NewLogger(cfg Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
