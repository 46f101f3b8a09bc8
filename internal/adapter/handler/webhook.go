package handler

import (
	"crypto/subtle"
	"io"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/transcript"
)

// maxWebhookBody bounds inbound webhook payloads (transcripts can be large,
// but not arbitrarily so).
const maxWebhookBody = 10 << 20

// Webhook receives transcription provider callbacks. These routes carry no
// bearer auth; the pull provider authenticates with a shared secret header.
type Webhook struct {
	transcripts   *transcript.Service
	webhookSecret string
	logger        *zap.Logger
}

// NewWebhook creates the webhook handler.
func NewWebhook(transcripts *transcript.Service, webhookSecret string, logger *zap.Logger) *Webhook {
	return &Webhook{transcripts: transcripts, webhookSecret: webhookSecret, logger: logger}
}

// Transcription handles POST /v1/webhooks/transcription/:provider/:chapterID
func (h *Webhook) Transcription(c echo.Context) error {
	provider := c.Param("provider")
	chapterID, err := uuid.Parse(c.Param("chapterID"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("chapter id must be a UUID"))
	}

	if h.webhookSecret != "" && provider == transcript.ProviderAssemblyAI {
		got := c.Request().Header.Get("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
			h.logger.Warn("webhook secret mismatch",
				zap.String("provider", provider),
				zap.String("chapter_id", chapterID.String()),
			)
			return HandleError(h.logger, c, apperrors.ErrUnauthenticated())
		}
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}

	if err := h.transcripts.HandleWebhook(c.Request().Context(), provider, chapterID, payload); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"status": "processed"})
}
