package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	inbound_httpapi "github.com/divyansh89532/SentinalAI/internal/adapters/inbound/httpapi"
	inbound_messaging "github.com/divyansh89532/SentinalAI/internal/adapters/inbound/messaging"
	inbound_polling "github.com/divyansh89532/SentinalAI/internal/adapters/inbound/polling"
	outbound_media "github.com/divyansh89532/SentinalAI/internal/adapters/outbound/media"
	outbound_repository "github.com/divyansh89532/SentinalAI/internal/adapters/outbound/repository"
	outbound_storage "github.com/divyansh89532/SentinalAI/internal/adapters/outbound/storage"
	"github.com/divyansh89532/SentinalAI/internal/config"
	core_services "github.com/divyansh89532/SentinalAI/internal/core/services"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg)

	log.Info("video processing service starting")

	// Metrics endpoint
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.WithField("addr", cfg.MetricsAddr).Info("metrics server started")
		if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
			log.WithField("error", err.Error()).Warn("metrics server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The derivation adapters shell out to these.
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(tool); err != nil {
			log.WithField("tool", tool).Fatal("required media tool not found in PATH")
		}
	}

	dbPool, err := initDatabase(ctx, cfg, log)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("initializing database")
	}
	defer dbPool.Close()

	// Outbound adapters
	fileStorage := outbound_storage.NewFSStorage(cfg.VideosDir, cfg.ProcessedDir, cfg.ThumbnailsDir, cfg.AudioDir)
	prober := outbound_media.NewFFprobeProber(cfg.ToolTimeout)
	deriver := outbound_media.NewFFmpegDeriver(prober, log, cfg.ToolTimeout)
	reconciler := outbound_media.NewSegmentReconciler(prober, log)
	videoRepo := outbound_repository.NewPostgresVideoRepository(dbPool)
	segmentRepo := outbound_repository.NewPostgresSegmentRepository(dbPool)
	logRepo := outbound_repository.NewPostgresLogRepository(dbPool)

	// Core service
	service := core_services.NewVideoService(prober, deriver, reconciler, fileStorage,
		videoRepo, segmentRepo, logRepo, log, core_services.PipelineConfig{
			SegmentDuration:    cfg.SegmentDuration,
			ThumbnailTimestamp: cfg.ThumbnailTimestamp,
			ThumbnailWidth:     cfg.ThumbnailWidth,
			ThumbnailHeight:    cfg.ThumbnailHeight,
		})

	// Inbound adapters

	// 1. NATS processing trigger
	processByID := func(ctx context.Context, videoID string) error {
		_, err := service.Process(ctx, videoID, nil, nil)
		return err
	}
	consumer, err := inbound_messaging.NewNatsConsumerAdapter(cfg.NatsURL, log, processByID)
	if err != nil {
		log.WithField("error", err.Error()).Warn("NATS unavailable, processing is HTTP-only")
	} else {
		go func() {
			if err := consumer.Listen(ctx); err != nil {
				log.WithField("error", err.Error()).Warn("NATS listener stopped")
			}
		}()
	}

	// 2. Stale-processing reporter
	monitor := inbound_polling.NewStaleMonitor(videoRepo, log, time.Minute, 30*time.Minute)
	go monitor.Start(ctx)

	// 3. HTTP API
	app := fiber.New(fiber.Config{
		BodyLimit: 1024 * 1024 * 1024, // surveillance uploads run large
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(fiberlogger.New())
	inbound_httpapi.NewVideoHandler(service, log).Register(app)

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP API listening")
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.WithField("error", err.Error()).Error("HTTP server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithField("error", err.Error()).Warn("HTTP shutdown")
	}

	log.Info("service stopped")
}

func initDatabase(ctx context.Context, cfg config.Config, log *logrus.Logger) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var pool *pgxpool.Pool
	var err error
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.New(ctx, connStr)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
		}
		log.WithField("attempt", i+1).Info("waiting for database")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return nil, err
}
