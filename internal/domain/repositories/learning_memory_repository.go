package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

// LearningMemoryRepository defines the interface for learning memory data access
type LearningMemoryRepository interface {
	// GetOrCreate returns the student's memory, creating it on first access
	GetOrCreate(ctx context.Context, studentID uuid.UUID) (*entities.LearningMemory, error)

	// Save persists the full memory record
	Save(ctx context.Context, mem *entities.LearningMemory) error

	// UpdateAtomic applies mutate as an atomic read-modify-write
	UpdateAtomic(ctx context.Context, studentID uuid.UUID, mutate func(*entities.LearningMemory) error) (*entities.LearningMemory, error)
}
