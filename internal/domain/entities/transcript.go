package entities

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptSegment is the canonical normalized transcript unit. Segments are
// ordered by StartSeconds, non-decreasing.
type TranscriptSegment struct {
	StartSeconds    float64 `json:"start_seconds"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Text            string  `json:"text"`
}

// ChapterTranscript is the stored transcript for one video chapter. A
// re-transcription fully replaces the segment list, never merges into it.
type ChapterTranscript struct {
	ID        uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ChapterID uuid.UUID           `json:"chapter_id" gorm:"type:uuid;not null;uniqueIndex"`
	Segments  []TranscriptSegment `json:"segments" gorm:"type:jsonb;serializer:json"`
	Language  string              `json:"language,omitempty" gorm:"type:varchar(20)"`
	Provider  string              `json:"provider,omitempty" gorm:"type:varchar(50)"`

	// Pending-job markers for pull-style providers: set when transcription is
	// requested, cleared when the provider delivers a result or reports an error.
	PendingJobID    *string `json:"pending_job_id,omitempty" gorm:"type:varchar(255);index"`
	PendingProvider *string `json:"pending_provider,omitempty" gorm:"type:varchar(50)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ChapterTranscript) TableName() string {
	return "chapter_transcripts"
}

// NewChapterTranscript creates an empty transcript record for a chapter.
func NewChapterTranscript(chapterID uuid.UUID) *ChapterTranscript {
	return &ChapterTranscript{
		ID:        uuid.New(),
		ChapterID: chapterID,
		Segments:  []TranscriptSegment{},
	}
}

// HasSegments reports whether any transcript content is stored.
func (t *ChapterTranscript) HasSegments() bool {
	return t != nil && len(t.Segments) > 0
}

// DurationEstimate estimates total video duration from the last segment's
// start time. Deliberately a floor estimate; callers only use it for spacing.
func (t *ChapterTranscript) DurationEstimate() float64 {
	if !t.HasSegments() {
		return 0
	}
	return t.Segments[len(t.Segments)-1].StartSeconds
}
