package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

// TranscriptRepository defines the interface for chapter transcript data access
type TranscriptRepository interface {
	// GetByChapterID returns the chapter's transcript, nil when absent
	GetByChapterID(ctx context.Context, chapterID uuid.UUID) (*entities.ChapterTranscript, error)

	// GetByPendingJobID finds the transcript row waiting on an external job
	GetByPendingJobID(ctx context.Context, jobID string) (*entities.ChapterTranscript, error)

	// ReplaceSegments fully replaces the stored transcript for a chapter
	ReplaceSegments(ctx context.Context, chapterID uuid.UUID, segments []entities.TranscriptSegment, language, provider string) error

	// SetPendingJob records a submitted transcription job
	SetPendingJob(ctx context.Context, chapterID uuid.UUID, jobID, provider string) error

	// ClearPendingJob drops the pending-job markers
	ClearPendingJob(ctx context.Context, chapterID uuid.UUID) error
}
