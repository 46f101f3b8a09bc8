package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReflectionPoint is a timestamp in a chapter's video at which playback pauses
// for a quiz checkpoint. Points are created in batches; regeneration replaces
// the whole batch for a chapter.
type ReflectionPoint struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ChapterID   uuid.UUID `json:"chapter_id" gorm:"type:uuid;not null;index"`
	TimeSeconds float64   `json:"time_seconds" gorm:"not null"`
	Topic       string    `json:"topic" gorm:"type:varchar(200);not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ReflectionPoint) TableName() string {
	return "reflection_points"
}

// NewReflectionPoint creates a reflection point for a chapter.
func NewReflectionPoint(chapterID uuid.UUID, timeSeconds float64, topic string) *ReflectionPoint {
	return &ReflectionPoint{
		ID:          uuid.New(),
		ChapterID:   chapterID,
		TimeSeconds: timeSeconds,
		Topic:       topic,
	}
}
