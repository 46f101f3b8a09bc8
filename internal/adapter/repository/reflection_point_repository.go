package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

// ReflectionPointRepository handles reflection point data operations
type ReflectionPointRepository struct {
	db *gorm.DB
}

// NewReflectionPointRepository creates a new reflection point repository
func NewReflectionPointRepository(db *gorm.DB) *ReflectionPointRepository {
	return &ReflectionPointRepository{db: db}
}

// ReplaceForChapter deletes every existing point for the chapter and inserts
// the new batch inside one transaction. Regeneration is a full replace; a
// failure after the delete rolls back so the chapter is never silently left
// without points.
func (r *ReflectionPointRepository) ReplaceForChapter(ctx context.Context, chapterID uuid.UUID, points []*entities.ReflectionPoint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapterID).Delete(&entities.ReflectionPoint{}).Error; err != nil {
			return err
		}
		if len(points) == 0 {
			return nil
		}
		for _, p := range points {
			if p.ChapterID != chapterID {
				return errors.New("reflection point belongs to a different chapter")
			}
		}
		return tx.Create(points).Error
	})
}

// ListByChapter returns the chapter's points ordered for playback.
func (r *ReflectionPointRepository) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]entities.ReflectionPoint, error) {
	var points []entities.ReflectionPoint
	if err := r.db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("time_seconds ASC").
		Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}
