package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

// TranscriptRepository handles chapter transcript data operations
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// GetByChapterID retrieves the transcript for a chapter, nil when absent.
func (r *TranscriptRepository) GetByChapterID(ctx context.Context, chapterID uuid.UUID) (*entities.ChapterTranscript, error) {
	var t entities.ChapterTranscript
	if err := r.db.WithContext(ctx).Where("chapter_id = ?", chapterID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// GetByPendingJobID finds the transcript row waiting on an external job.
func (r *TranscriptRepository) GetByPendingJobID(ctx context.Context, jobID string) (*entities.ChapterTranscript, error) {
	var t entities.ChapterTranscript
	if err := r.db.WithContext(ctx).Where("pending_job_id = ?", jobID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ReplaceSegments stores a freshly normalized segment list for a chapter,
// fully replacing any previous transcript and clearing pending-job markers.
func (r *TranscriptRepository) ReplaceSegments(ctx context.Context, chapterID uuid.UUID, segments []entities.TranscriptSegment, language, provider string) error {
	t := entities.NewChapterTranscript(chapterID)
	t.Segments = segments
	t.Language = language
	t.Provider = provider

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"segments", "language", "provider", "pending_job_id", "pending_provider", "updated_at",
		}),
	}).Create(t).Error
}

// SetPendingJob records that a transcription job was submitted for a chapter.
func (r *TranscriptRepository) SetPendingJob(ctx context.Context, chapterID uuid.UUID, jobID, provider string) error {
	t := entities.NewChapterTranscript(chapterID)
	t.PendingJobID = &jobID
	t.PendingProvider = &provider

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pending_job_id", "pending_provider", "updated_at",
		}),
	}).Create(t).Error
}

// ClearPendingJob drops the pending-job markers, keeping any stored segments.
func (r *TranscriptRepository) ClearPendingJob(ctx context.Context, chapterID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.ChapterTranscript{}).
		Where("chapter_id = ?", chapterID).
		Updates(map[string]interface{}{
			"pending_job_id":   nil,
			"pending_provider": nil,
			"updated_at":       time.Now(),
		}).Error
}
