package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

// VideoHandler exposes the video use case over HTTP.
type VideoHandler struct {
	service  ports.VideoUseCase
	log      *logrus.Logger
	validate *validator.Validate
}

func NewVideoHandler(service ports.VideoUseCase, log *logrus.Logger) *VideoHandler {
	return &VideoHandler{
		service:  service,
		log:      log,
		validate: validator.New(),
	}
}

// Register mounts all video routes under /api/v1.
func (h *VideoHandler) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "video service is healthy",
		})
	})

	apiV1 := app.Group("/api/v1")
	apiV1.Post("/videos/upload", h.UploadVideo)
	apiV1.Post("/videos/:id/process", h.ProcessVideo)
	apiV1.Get("/videos/:id", h.GetVideo)
	apiV1.Get("/videos", h.ListVideos)
	apiV1.Delete("/videos/:id", h.DeleteVideo)
}

type listVideosQuery struct {
	Page     int     `query:"page" validate:"omitempty,gte=1"`
	PageSize int     `query:"page_size" validate:"omitempty,gte=1,lte=100"`
	Status   *string `query:"status"`
}

func (h *VideoHandler) UploadVideo(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("missing upload file: %v", err))
	}

	cameraID := optionalForm(c, "camera_id")
	location := optionalForm(c, "location")
	uploadedBy := optionalForm(c, "uploaded_by")

	h.log.WithFields(logrus.Fields{
		"filename": file.Filename,
		"size":     file.Size,
	}).Info("video upload request")

	src, err := file.Open()
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("opening upload: %v", err))
	}
	defer src.Close()

	video, err := h.service.Upload(c.UserContext(), file.Filename, src, cameraID, location, uploadedBy)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFileType) {
			return respondWithError(c, fiber.StatusBadRequest,
				"invalid file type, allowed: mp4, avi, mov, mkv, webm")
		}
		h.log.WithField("error", err.Error()).Error("video upload failed")
		return respondWithError(c, fiber.StatusInternalServerError, "upload failed")
	}

	return respondWithJSON(c, fiber.StatusCreated, fiber.Map{
		"video_id":          video.ID,
		"filename":          video.Filename,
		"original_filename": video.OriginalFilename,
		"file_size":         video.FileSize,
		"status":            video.Status,
		"created_at":        video.CreatedAt,
		"message":           "Video uploaded successfully. Ready for processing.",
	})
}

func (h *VideoHandler) ProcessVideo(c *fiber.Ctx) error {
	videoID := c.Params("id")

	cameraID := optionalQuery(c, "camera_id")
	location := optionalQuery(c, "location")

	h.log.WithField("video_id", videoID).Info("video processing request")

	result, err := h.service.Process(c.UserContext(), videoID, cameraID, location)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return respondWithError(c, fiber.StatusNotFound, fmt.Sprintf("video not found: %s", videoID))
		case errors.Is(err, domain.ErrConflict):
			return respondWithError(c, fiber.StatusConflict, "video is already being processed")
		default:
			h.log.WithFields(logrus.Fields{
				"video_id": videoID,
				"error":    err.Error(),
			}).Error("video processing failed")
			return respondWithError(c, fiber.StatusInternalServerError, "processing failed")
		}
	}

	return respondWithJSON(c, fiber.StatusOK, result)
}

func (h *VideoHandler) GetVideo(c *fiber.Ctx) error {
	videoID := c.Params("id")

	detail, err := h.service.Get(c.UserContext(), videoID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return respondWithError(c, fiber.StatusNotFound, fmt.Sprintf("video not found: %s", videoID))
		}
		return respondWithError(c, fiber.StatusInternalServerError, "fetching video failed")
	}

	return respondWithJSON(c, fiber.StatusOK, detail)
}

func (h *VideoHandler) ListVideos(c *fiber.Ctx) error {
	q := listVideosQuery{Page: 1, PageSize: 20}
	if err := c.QueryParser(&q); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("invalid query: %v", err))
	}
	if err := h.validate.Struct(q); err != nil {
		return respondWithError(c, fiber.StatusBadRequest,
			strings.Join(formatValidationErrors(err), "; "))
	}
	if q.Status != nil && !domain.ValidStatus(*q.Status) {
		return respondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("unknown status: %s", *q.Status))
	}

	videos, total, err := h.service.List(c.UserContext(), q.Page, q.PageSize, q.Status)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, "listing videos failed")
	}

	return respondWithJSON(c, fiber.StatusOK, fiber.Map{
		"videos":    videos,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

func (h *VideoHandler) DeleteVideo(c *fiber.Ctx) error {
	videoID := c.Params("id")

	deleted, err := h.service.Delete(c.UserContext(), videoID)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"video_id": videoID,
			"error":    err.Error(),
		}).Error("video deletion failed")
		return respondWithError(c, fiber.StatusInternalServerError, "deletion failed")
	}
	if !deleted {
		return respondWithError(c, fiber.StatusNotFound, fmt.Sprintf("video not found: %s", videoID))
	}

	return respondWithJSON(c, fiber.StatusOK, fiber.Map{
		"video_id": videoID,
		"message":  "Video deleted",
	})
}

func optionalForm(c *fiber.Ctx, key string) *string {
	if v := strings.TrimSpace(c.FormValue(key)); v != "" {
		return &v
	}
	return nil
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	if v := strings.TrimSpace(c.Query(key)); v != "" {
		return &v
	}
	return nil
}
