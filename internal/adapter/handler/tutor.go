package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	tutordto "github.com/reflectlabs/reflective-tutor/internal/adapter/dto/tutor"
	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/internal/infrastructure/http/middleware"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/tutor"
)

// Tutor serves the remediation conversation endpoints.
type Tutor struct {
	sessions *tutor.Service
	logger   *zap.Logger
}

// NewTutor creates the tutor handler.
func NewTutor(sessions *tutor.Service, logger *zap.Logger) *Tutor {
	return &Tutor{sessions: sessions, logger: logger}
}

// StartSession handles POST /v1/tutor/sessions
func (h *Tutor) StartSession(c echo.Context) error {
	var req tutordto.StartSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	studentID, ok := middleware.StudentID(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrUnauthenticated())
	}

	session, err := h.sessions.StartSession(c.Request().Context(), studentID, entities.ConversationContext{
		Topic:             req.Topic,
		Question:          req.Question,
		WrongAnswer:       req.WrongAnswer,
		ReferenceAnswer:   req.ReferenceAnswer,
		TranscriptContext: req.TranscriptContext,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, tutordto.SessionResponse{
		ID:     session.ID,
		Status: session.Status,
	})
}

// Message handles POST /v1/tutor/sessions/:id/messages
func (h *Tutor) Message(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("session id must be a UUID"))
	}

	var req tutordto.MessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.sessions.Turn(c.Request().Context(), sessionID, req.Message)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, tutordto.TurnResponse{
		Reply:     result.Reply,
		Status:    result.Status,
		Resources: result.Resources,
	})
}
