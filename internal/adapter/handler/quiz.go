package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	quizdto "github.com/reflectlabs/reflective-tutor/internal/adapter/dto/quiz"
	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/internal/infrastructure/http/middleware"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/memory"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/quiz"
)

// Quiz serves question generation, answer evaluation and remediation.
type Quiz struct {
	generator  *quiz.Generator
	evaluator  *quiz.Evaluator
	remediator *quiz.Remediator
	memories   *memory.Service
	logger     *zap.Logger
}

// NewQuiz creates the quiz handler.
func NewQuiz(generator *quiz.Generator, evaluator *quiz.Evaluator, remediator *quiz.Remediator, memories *memory.Service, logger *zap.Logger) *Quiz {
	return &Quiz{
		generator:  generator,
		evaluator:  evaluator,
		remediator: remediator,
		memories:   memories,
		logger:     logger,
	}
}

// Generate handles POST /v1/quiz/generate
func (h *Quiz) Generate(c echo.Context) error {
	var req quizdto.GenerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	studentID, _ := middleware.StudentID(c)

	out, err := h.generator.OpenEnded(c.Request().Context(), quiz.GenerateInput{
		Topic:          req.Topic,
		TranscriptText: req.TranscriptText,
		StudentID:      studentID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, quizdto.GenerateResponse{
		Question:  out.Value,
		Degraded:  out.Degraded,
		ModelUsed: out.ModelUsed,
	})
}

// GenerateBatch handles POST /v1/quiz/generate-batch
func (h *Quiz) GenerateBatch(c echo.Context) error {
	var req quizdto.GenerateBatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	studentID, _ := middleware.StudentID(c)

	questions, err := h.generator.MultipleChoiceBatch(c.Request().Context(), quiz.GenerateInput{
		Topic:          req.Topic,
		TranscriptText: req.TranscriptText,
		StudentID:      studentID,
	}, req.Count)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, quizdto.GenerateBatchResponse{Questions: questions})
}

// Evaluate handles POST /v1/quiz/evaluate. After the verdict the student's
// learning memory is updated; a memory failure is logged but does not take
// the verdict away from the student.
func (h *Quiz) Evaluate(c echo.Context) error {
	var req quizdto.EvaluateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	studentID, ok := middleware.StudentID(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrUnauthenticated())
	}

	out, err := h.evaluator.Evaluate(c.Request().Context(), quiz.EvaluateInput{
		Question:  req.Question,
		Answer:    req.Answer,
		Topic:     req.Topic,
		StudentID: studentID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := quizdto.EvaluateResponse{
		Result:   out.Value,
		Degraded: out.Degraded,
	}

	mem, err := h.memories.RecordEvaluation(c.Request().Context(), studentID, req.Topic, out.Value.Correct)
	if err != nil {
		h.logger.Error("failed to record evaluation in learning memory",
			zap.String("student_id", studentID.String()),
			zap.Error(err),
		)
	} else {
		resp.TotalAttempts = mem.TotalAttempts
		resp.AccuracyRate = mem.AccuracyRate
	}

	return HandleSuccess(h.logger, c, resp)
}

// Remediation handles POST /v1/quiz/remediation
func (h *Quiz) Remediation(c echo.Context) error {
	var req quizdto.RemediationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	correctIdx := req.FailedQuestion.CorrectIndex
	remediation, err := h.remediator.Generate(c.Request().Context(), quiz.RemediationInput{
		TranscriptText: req.TranscriptText,
		FailedQuestion: entities.QuizQuestion{
			Question:     req.FailedQuestion.Question,
			Options:      req.FailedQuestion.Options,
			CorrectIndex: &correctIdx,
		},
		WrongAnswerIndex: req.WrongAnswerIndex,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, remediation)
}
