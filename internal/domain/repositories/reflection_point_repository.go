package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

// ReflectionPointRepository defines the interface for reflection point data access
type ReflectionPointRepository interface {
	// ReplaceForChapter atomically replaces the chapter's point batch
	ReplaceForChapter(ctx context.Context, chapterID uuid.UUID, points []*entities.ReflectionPoint) error

	// ListByChapter returns points ordered by time ascending
	ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]entities.ReflectionPoint, error)
}
