package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

type fakeMemoryRepo struct {
	records map[uuid.UUID]*entities.LearningMemory
}

func newFakeMemoryRepo() *fakeMemoryRepo {
	return &fakeMemoryRepo{records: make(map[uuid.UUID]*entities.LearningMemory)}
}

func (r *fakeMemoryRepo) GetOrCreate(_ context.Context, studentID uuid.UUID) (*entities.LearningMemory, error) {
	if m, ok := r.records[studentID]; ok {
		return m, nil
	}
	m := entities.NewLearningMemory(studentID)
	r.records[studentID] = m
	return m, nil
}

func (r *fakeMemoryRepo) Save(_ context.Context, mem *entities.LearningMemory) error {
	r.records[mem.StudentID] = mem
	return nil
}

func (r *fakeMemoryRepo) UpdateAtomic(ctx context.Context, studentID uuid.UUID, mutate func(*entities.LearningMemory) error) (*entities.LearningMemory, error) {
	m, err := r.GetOrCreate(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := mutate(m); err != nil {
		return nil, err
	}
	return m, nil
}

func TestGet_CreatesDefaultProfile(t *testing.T) {
	svc := NewService(newFakeMemoryRepo(), zap.NewNop())

	m, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.LearningPace != entities.PaceSteady || m.ConfidenceLevel != entities.ConfidenceBeginner {
		t.Errorf("unexpected defaults: %+v", m)
	}
	if m.TotalAttempts != 0 || m.AccuracyRate != 0 {
		t.Errorf("fresh profile should have zero attempts: %+v", m)
	}
}

func TestRecordEvaluation_CountersAndTopicLists(t *testing.T) {
	svc := NewService(newFakeMemoryRepo(), zap.NewNop())
	studentID := uuid.New()
	ctx := context.Background()

	// Two misses on the same topic, then a hit on another.
	if _, err := svc.RecordEvaluation(ctx, studentID, "Recursion", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RecordEvaluation(ctx, studentID, "Recursion", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, err := svc.RecordEvaluation(ctx, studentID, "Loops", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.TotalAttempts != 3 || m.CorrectAttempts != 1 {
		t.Errorf("counters wrong: total=%d correct=%d", m.TotalAttempts, m.CorrectAttempts)
	}
	if m.CorrectAttempts > m.TotalAttempts {
		t.Error("correct attempts exceed total attempts")
	}
	if m.AccuracyRate < 0.33 || m.AccuracyRate > 0.34 {
		t.Errorf("accuracy = %f, want ~0.333", m.AccuracyRate)
	}

	if len(m.WeakTopics) != 1 || m.WeakTopics[0] != "Recursion" {
		t.Errorf("weak topics = %v, want exactly one Recursion entry", m.WeakTopics)
	}
	if len(m.StrengthTopics) != 1 || m.StrengthTopics[0] != "Loops" {
		t.Errorf("strength topics = %v", m.StrengthTopics)
	}
	if !m.HasWeakTopic("Recursion") {
		t.Error("HasWeakTopic should report Recursion")
	}
}

func TestRecordEvaluation_WeakListMostRecentFirstAndCapped(t *testing.T) {
	svc := NewService(newFakeMemoryRepo(), zap.NewNop())
	studentID := uuid.New()
	ctx := context.Background()

	for i := 0; i < entities.TopicListCap+5; i++ {
		topic := "Topic " + string(rune('A'+i))
		if _, err := svc.RecordEvaluation(ctx, studentID, topic, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	m, err := svc.RecordEvaluation(ctx, studentID, "Topic A", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.WeakTopics) != entities.TopicListCap {
		t.Errorf("weak list length = %d, want cap %d", len(m.WeakTopics), entities.TopicListCap)
	}
	if m.WeakTopics[0] != "Topic A" {
		t.Errorf("repeated topic should move to the front, got %q", m.WeakTopics[0])
	}
	seen := make(map[string]bool)
	for _, topic := range m.WeakTopics {
		if seen[topic] {
			t.Errorf("duplicate topic %q in weak list", topic)
		}
		seen[topic] = true
	}
}

func TestUpdatePreferences_PartialUpdate(t *testing.T) {
	svc := NewService(newFakeMemoryRepo(), zap.NewNop())
	studentID := uuid.New()
	ctx := context.Background()

	pace := entities.PaceDeep
	m, err := svc.UpdatePreferences(ctx, studentID, PreferencesUpdate{
		LearningPace: &pace,
		Goals:        []entities.LearningGoal{entities.GoalDeepMastery},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.LearningPace != entities.PaceDeep {
		t.Errorf("pace = %s, want DEEP", m.LearningPace)
	}
	if m.PreferredLearningStyle != entities.StyleMixed {
		t.Errorf("untouched field changed: %s", m.PreferredLearningStyle)
	}
	if len(m.Goals) != 1 || m.Goals[0] != entities.GoalDeepMastery {
		t.Errorf("goals = %v", m.Goals)
	}
}

func TestPersonalizationContext(t *testing.T) {
	m := entities.NewLearningMemory(uuid.New())
	m.RecordAttempt("Recursion", false)
	m.RecordAttempt("Loops", true)

	rendered := PersonalizationContext(m)
	for _, want := range []string{"STEADY", "Struggling with: Recursion", "Strong on: Loops", "2 attempts"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered context missing %q:\n%s", want, rendered)
		}
	}
}

func TestPersonalizationContext_EmptyListsOmitted(t *testing.T) {
	rendered := PersonalizationContext(entities.NewLearningMemory(uuid.New()))
	if strings.Contains(rendered, "Struggling") || strings.Contains(rendered, "Strong on") {
		t.Errorf("empty topic lists should be omitted:\n%s", rendered)
	}
	if PersonalizationContext(nil) != "" {
		t.Error("nil profile should render empty")
	}
}
