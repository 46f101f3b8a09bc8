package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

// LearningMemoryRepository handles per-student learning memory records
type LearningMemoryRepository struct {
	db *gorm.DB
}

// NewLearningMemoryRepository creates a new learning memory repository
func NewLearningMemoryRepository(db *gorm.DB) *LearningMemoryRepository {
	return &LearningMemoryRepository{db: db}
}

// GetOrCreate returns the student's memory, creating the default profile on
// first access (upsert-on-read).
func (r *LearningMemoryRepository) GetOrCreate(ctx context.Context, studentID uuid.UUID) (*entities.LearningMemory, error) {
	var mem entities.LearningMemory
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&mem).Error
	if err == nil {
		return &mem, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := entities.NewLearningMemory(studentID)
	// DoNothing + re-read keeps concurrent first accesses from failing on the
	// primary key.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fresh).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&mem).Error; err != nil {
		return nil, err
	}
	return &mem, nil
}

// Save persists the full memory record.
func (r *LearningMemoryRepository) Save(ctx context.Context, mem *entities.LearningMemory) error {
	if mem == nil {
		return errors.New("learning memory cannot be nil")
	}
	return r.db.WithContext(ctx).Save(mem).Error
}

// UpdateAtomic applies mutate under a row lock so evaluation-driven updates
// are an atomic read-modify-write. Concurrent callers serialize on the row;
// last write wins across separate calls, which is acceptable for a
// personalization signal.
func (r *LearningMemoryRepository) UpdateAtomic(ctx context.Context, studentID uuid.UUID, mutate func(*entities.LearningMemory) error) (*entities.LearningMemory, error) {
	var out *entities.LearningMemory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mem entities.LearningMemory
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", studentID).
			First(&mem).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			mem = *entities.NewLearningMemory(studentID)
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mem).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := mutate(&mem); err != nil {
			return err
		}
		if err := tx.Save(&mem).Error; err != nil {
			return err
		}
		out = &mem
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
