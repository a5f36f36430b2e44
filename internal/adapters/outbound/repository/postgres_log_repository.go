package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

type postgresLogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresLogRepository(db *pgxpool.Pool) ports.ProcessingLogRepository {
	return &postgresLogRepository{db: db}
}

func (r *postgresLogRepository) Append(ctx context.Context, log *domain.ProcessingLog) error {
	query := `
		INSERT INTO processing_logs (video_id, step, status, message, details, started_at, completed_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query,
		log.VideoID, log.Step, log.Status, log.Message, log.Details,
		log.StartedAt, log.CompletedAt, log.DurationMs,
	).Scan(&log.ID)
}

func (r *postgresLogRepository) ListByVideo(ctx context.Context, videoID string) ([]domain.ProcessingLog, error) {
	query := `
		SELECT id, video_id, step, status, message, details, started_at, completed_at, duration_ms
		FROM processing_logs
		WHERE video_id = $1
		ORDER BY started_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.ProcessingLog
	for rows.Next() {
		var l domain.ProcessingLog
		err := rows.Scan(&l.ID, &l.VideoID, &l.Step, &l.Status, &l.Message, &l.Details,
			&l.StartedAt, &l.CompletedAt, &l.DurationMs)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
