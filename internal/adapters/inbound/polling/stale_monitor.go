package polling

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

var staleProcessingVideos = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "videos_stale_processing",
	Help: "Videos sitting in processing longer than the stale threshold",
})

// StaleMonitor periodically reports videos stuck in the processing state,
// the footprint a crash mid-pipeline leaves behind. It only observes;
// recovery is an operator decision, not something to auto-heal.
type StaleMonitor struct {
	repo      ports.VideoRepository
	log       *logrus.Logger
	interval  time.Duration
	threshold time.Duration
}

func NewStaleMonitor(repo ports.VideoRepository, log *logrus.Logger, interval, threshold time.Duration) *StaleMonitor {
	return &StaleMonitor{repo: repo, log: log, interval: interval, threshold: threshold}
}

func (m *StaleMonitor) Start(ctx context.Context) {
	m.log.Info("stale-processing monitor started")
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("stopping stale-processing monitor")
			return
		case <-ticker.C:
			m.scan(ctx)
		}
	}
}

func (m *StaleMonitor) scan(ctx context.Context) {
	status := domain.StatusProcessing
	videos, _, err := m.repo.List(ctx, 100, 0, &status)
	if err != nil {
		m.log.WithField("error", err.Error()).Warn("scanning for stale videos failed")
		return
	}

	stale := 0
	cutoff := time.Now().Add(-m.threshold)
	for _, v := range videos {
		if v.ProcessingStartedAt != nil && v.ProcessingStartedAt.Before(cutoff) {
			stale++
			m.log.WithFields(logrus.Fields{
				"video_id":              v.ID,
				"processing_started_at": v.ProcessingStartedAt,
			}).Warn("video stuck in processing, needs manual re-submission")
		}
	}
	staleProcessingVideos.Set(float64(stale))
}
