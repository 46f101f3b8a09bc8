package checkpoint

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

type fakeTranscriptStore struct {
	transcripts map[uuid.UUID]*entities.ChapterTranscript
}

func (f *fakeTranscriptStore) GetByChapterID(_ context.Context, chapterID uuid.UUID) (*entities.ChapterTranscript, error) {
	return f.transcripts[chapterID], nil
}

func (f *fakeTranscriptStore) GetByPendingJobID(context.Context, string) (*entities.ChapterTranscript, error) {
	return nil, nil
}

func (f *fakeTranscriptStore) ReplaceSegments(context.Context, uuid.UUID, []entities.TranscriptSegment, string, string) error {
	return nil
}

func (f *fakeTranscriptStore) SetPendingJob(context.Context, uuid.UUID, string, string) error {
	return nil
}

func (f *fakeTranscriptStore) ClearPendingJob(context.Context, uuid.UUID) error {
	return nil
}

type fakePointStore struct {
	points map[uuid.UUID][]*entities.ReflectionPoint
}

func newFakePointStore() *fakePointStore {
	return &fakePointStore{points: make(map[uuid.UUID][]*entities.ReflectionPoint)}
}

func (f *fakePointStore) ReplaceForChapter(_ context.Context, chapterID uuid.UUID, points []*entities.ReflectionPoint) error {
	f.points[chapterID] = points
	return nil
}

func (f *fakePointStore) ListByChapter(_ context.Context, chapterID uuid.UUID) ([]entities.ReflectionPoint, error) {
	out := make([]entities.ReflectionPoint, 0, len(f.points[chapterID]))
	for _, p := range f.points[chapterID] {
		out = append(out, *p)
	}
	return out, nil
}

func longTranscript(chapterID uuid.UUID) *entities.ChapterTranscript {
	t := entities.NewChapterTranscript(chapterID)
	for i := 0; i <= 10; i++ {
		t.Segments = append(t.Segments, entities.TranscriptSegment{
			StartSeconds: float64(i * 50),
			Text:         "segment text",
		})
	}
	return t
}

func TestRegenerate_MissingTranscript(t *testing.T) {
	svc := NewService(&fakeTranscriptStore{transcripts: map[uuid.UUID]*entities.ChapterTranscript{}}, newFakePointStore(), nil, zap.NewNop())

	if _, err := svc.Regenerate(context.Background(), uuid.New(), ModeRandom); err == nil {
		t.Fatal("expected error for chapter without transcript")
	}
}

func TestRegenerate_ReplacesPreviousBatch(t *testing.T) {
	chapterID := uuid.New()
	store := &fakeTranscriptStore{transcripts: map[uuid.UUID]*entities.ChapterTranscript{
		chapterID: longTranscript(chapterID),
	}}
	points := newFakePointStore()
	svc := NewService(store, points, nil, zap.NewNop())

	first, err := svc.Regenerate(context.Background(), chapterID, ModeRandom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Regenerate(context.Background(), chapterID, ModeRandom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Regeneration fully replaces: the store holds exactly the second batch.
	stored, _ := svc.ListForChapter(context.Background(), chapterID)
	if len(stored) != len(second) {
		t.Fatalf("store holds %d points, second batch had %d", len(stored), len(second))
	}
	for i := range stored {
		if stored[i].ID != second[i].ID {
			t.Fatal("stored batch is not the most recent regeneration")
		}
		for _, old := range first {
			if stored[i].ID == old.ID {
				t.Fatal("point from the replaced batch survived regeneration")
			}
		}
	}

	for _, p := range stored {
		if p.ChapterID != chapterID {
			t.Errorf("point bound to wrong chapter: %s", p.ChapterID)
		}
		if p.Topic != PlaceholderTopic {
			t.Errorf("random mode points carry the placeholder topic, got %q", p.Topic)
		}
	}
}

func TestRegenerate_UnknownMode(t *testing.T) {
	chapterID := uuid.New()
	store := &fakeTranscriptStore{transcripts: map[uuid.UUID]*entities.ChapterTranscript{
		chapterID: longTranscript(chapterID),
	}}
	svc := NewService(store, newFakePointStore(), nil, zap.NewNop())

	if _, err := svc.Regenerate(context.Background(), chapterID, Mode("clever")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
