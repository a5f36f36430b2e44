package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

const videoColumns = `id, filename, original_filename, file_path, file_size,
	duration, width, height, fps, codec, bitrate,
	status, error_message, camera_id, location, uploaded_by,
	created_at, updated_at, processing_started_at, processing_completed_at`

type postgresVideoRepository struct {
	db *pgxpool.Pool
}

func NewPostgresVideoRepository(db *pgxpool.Pool) ports.VideoRepository {
	return &postgresVideoRepository{db: db}
}

func (r *postgresVideoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := `
		INSERT INTO videos (id, filename, original_filename, file_path, file_size,
			status, camera_id, location, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		video.ID, video.Filename, video.OriginalFilename, video.FilePath, video.FileSize,
		video.Status, video.CameraID, video.Location, video.UploadedBy,
	).Scan(&video.CreatedAt, &video.UpdatedAt)
}

func (r *postgresVideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos WHERE id = $1`, videoColumns)
	video := &domain.Video{}
	err := r.db.QueryRow(ctx, query, id).Scan(scanTargets(video)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return video, err
}

func (r *postgresVideoRepository) List(ctx context.Context, limit, offset int, status *string) ([]domain.Video, int, error) {
	var total int
	if status != nil {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE status = $1`, *status).Scan(&total); err != nil {
			return nil, 0, err
		}
	} else {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	query := fmt.Sprintf(`SELECT %s FROM videos`, videoColumns)
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(scanTargets(&v)...); err != nil {
			return nil, 0, err
		}
		videos = append(videos, v)
	}
	return videos, total, rows.Err()
}

func (r *postgresVideoRepository) Update(ctx context.Context, video *domain.Video) error {
	query := `
		UPDATE videos
		SET status = $1, error_message = $2, camera_id = $3, location = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	return r.db.QueryRow(ctx, query,
		video.Status, video.ErrorMessage, video.CameraID, video.Location, video.ID,
	).Scan(&video.UpdatedAt)
}

// BeginProcessing is the compare-and-swap that closes the race between two
// concurrent process calls: only one caller observes a row transition.
func (r *postgresVideoRepository) BeginProcessing(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE videos
		SET status = $1, processing_started_at = NOW(), error_message = NULL, updated_at = NOW()
		WHERE id = $2 AND status <> $1
	`
	tag, err := r.db.Exec(ctx, query, domain.StatusProcessing, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Finalize writes the terminal state of a pipeline run atomically:
// probe metadata, segment rows, the status flip and the closing log row
// all commit together or not at all.
func (r *postgresVideoRepository) Finalize(ctx context.Context, video *domain.Video, segments []domain.Segment, log *domain.ProcessingLog) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning finalize transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE videos
		SET duration = $1, width = $2, height = $3, fps = $4, codec = $5, bitrate = $6,
			status = $7, error_message = $8, camera_id = $9, location = $10,
			processing_completed_at = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at
	`
	err = tx.QueryRow(ctx, query,
		video.Duration, video.Width, video.Height, video.FPS, video.Codec, video.Bitrate,
		video.Status, video.ErrorMessage, video.CameraID, video.Location,
		video.ProcessingCompletedAt, video.ID,
	).Scan(&video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating video %s: %w", video.ID, err)
	}

	for i := range segments {
		seg := &segments[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO video_segments (id, video_id, segment_index, file_path,
				thumbnail_path, audio_path, start_time, end_time, duration,
				file_size, embedding_generated, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, seg.ID, seg.VideoID, seg.SegmentIndex, seg.FilePath,
			seg.ThumbnailPath, seg.AudioPath, seg.StartTime, seg.EndTime, seg.Duration,
			seg.FileSize, seg.EmbeddingGenerated, seg.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting segment %d for video %s: %w", seg.SegmentIndex, video.ID, err)
		}
	}

	if log != nil {
		err = tx.QueryRow(ctx, `
			INSERT INTO processing_logs (video_id, step, status, message, details, started_at, completed_at, duration_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, log.VideoID, log.Step, log.Status, log.Message, log.Details,
			log.StartedAt, log.CompletedAt, log.DurationMs).Scan(&log.ID)
		if err != nil {
			return fmt.Errorf("appending %s log for video %s: %w", log.Step, video.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresVideoRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanTargets(v *domain.Video) []any {
	return []any{
		&v.ID, &v.Filename, &v.OriginalFilename, &v.FilePath, &v.FileSize,
		&v.Duration, &v.Width, &v.Height, &v.FPS, &v.Codec, &v.Bitrate,
		&v.Status, &v.ErrorMessage, &v.CameraID, &v.Location, &v.UploadedBy,
		&v.CreatedAt, &v.UpdatedAt, &v.ProcessingStartedAt, &v.ProcessingCompletedAt,
	}
}
