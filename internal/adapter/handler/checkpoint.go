package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/checkpoint"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/transcript"
)

// Checkpoint serves reflection point regeneration and listing, plus the
// transcription request that feeds them.
type Checkpoint struct {
	checkpoints *checkpoint.Service
	transcripts *transcript.Service
	logger      *zap.Logger
}

// NewCheckpoint creates the checkpoint handler.
func NewCheckpoint(checkpoints *checkpoint.Service, transcripts *transcript.Service, logger *zap.Logger) *Checkpoint {
	return &Checkpoint{checkpoints: checkpoints, transcripts: transcripts, logger: logger}
}

// Regenerate handles POST /v1/chapters/:id/reflection-points
func (h *Checkpoint) Regenerate(c echo.Context) error {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("chapter id must be a UUID"))
	}

	mode := checkpoint.Mode(c.QueryParam("mode"))

	points, err := h.checkpoints.Regenerate(c.Request().Context(), chapterID, mode)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"chapter_id": chapterID,
		"points":     points,
	})
}

// List handles GET /v1/chapters/:id/reflection-points
func (h *Checkpoint) List(c echo.Context) error {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("chapter id must be a UUID"))
	}

	points, err := h.checkpoints.ListForChapter(c.Request().Context(), chapterID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"chapter_id": chapterID,
		"points":     points,
	})
}

type transcriptionRequest struct {
	MediaURL string `json:"media_url" validate:"required,url"`
}

// RequestTranscription handles POST /v1/chapters/:id/transcription
func (h *Checkpoint) RequestTranscription(c echo.Context) error {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("chapter id must be a UUID"))
	}

	var req transcriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.transcripts.RequestTranscription(c.Request().Context(), chapterID, req.MediaURL); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"chapter_id": chapterID,
		"status":     "submitted",
	})
}
