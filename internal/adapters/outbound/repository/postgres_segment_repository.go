package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

type postgresSegmentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSegmentRepository(db *pgxpool.Pool) ports.SegmentRepository {
	return &postgresSegmentRepository{db: db}
}

func (r *postgresSegmentRepository) ListByVideo(ctx context.Context, videoID string) ([]domain.Segment, error) {
	query := `
		SELECT id, video_id, segment_index, file_path, thumbnail_path, audio_path,
			start_time, end_time, duration, file_size,
			has_faces, face_count, embedding_id, embedding_generated, created_at
		FROM video_segments
		WHERE video_id = $1
		ORDER BY segment_index ASC
	`
	rows, err := r.db.Query(ctx, query, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []domain.Segment
	for rows.Next() {
		var s domain.Segment
		err := rows.Scan(&s.ID, &s.VideoID, &s.SegmentIndex, &s.FilePath, &s.ThumbnailPath, &s.AudioPath,
			&s.StartTime, &s.EndTime, &s.Duration, &s.FileSize,
			&s.HasFaces, &s.FaceCount, &s.EmbeddingID, &s.EmbeddingGenerated, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		segments = append(segments, s)
	}
	return segments, rows.Err()
}
