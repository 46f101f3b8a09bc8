package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	"github.com/reflectlabs/reflective-tutor/internal/infrastructure/http/middleware"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/memory"
)

// Memory serves the student's learning profile.
type Memory struct {
	memories *memory.Service
	logger   *zap.Logger
}

// NewMemory creates the memory handler.
func NewMemory(memories *memory.Service, logger *zap.Logger) *Memory {
	return &Memory{memories: memories, logger: logger}
}

// Get handles GET /v1/memory
func (h *Memory) Get(c echo.Context) error {
	studentID, ok := middleware.StudentID(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrUnauthenticated())
	}

	mem, err := h.memories.Get(c.Request().Context(), studentID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, mem)
}

// UpdatePreferences handles PATCH /v1/memory
func (h *Memory) UpdatePreferences(c echo.Context) error {
	studentID, ok := middleware.StudentID(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrUnauthenticated())
	}

	var req memory.PreferencesUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	mem, err := h.memories.UpdatePreferences(c.Request().Context(), studentID, req)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, mem)
}
