package quiz

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

func failedMCQ() entities.QuizQuestion {
	idx := 1
	return entities.QuizQuestion{
		Question:     "Which traversal visits the root first?",
		Options:      []string{"In-order", "Pre-order", "Post-order", "Level-order"},
		CorrectIndex: &idx,
	}
}

func TestRemediation_RequiresFailedQuestion(t *testing.T) {
	r := NewRemediator(&scriptedCompleter{}, testModels.Default, zap.NewNop())
	if _, err := r.Generate(context.Background(), RemediationInput{}); err == nil {
		t.Fatal("expected invalid input error")
	}
}

func TestRemediation_HappyPath(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"explanation": "Pre-order means root, left, right.",
			"new_question": {"question": "In pre-order, what comes first?",
			"options": ["Left child", "Root", "Right child", "Leaves"], "correct_index": 1}}`},
	}}
	r := NewRemediator(c, testModels.Default, zap.NewNop())

	got, err := r.Generate(context.Background(), RemediationInput{
		FailedQuestion:   failedMCQ(),
		WrongAnswerIndex: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Explanation == "" {
		t.Error("missing explanation")
	}
	if !got.NewQuestion.IsMultipleChoice() {
		t.Errorf("follow-up not multiple-choice: %+v", got.NewQuestion)
	}
}

func TestRemediation_NoFallbackOnTransportError(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{{err: errors.New("down")}}}
	r := NewRemediator(c, testModels.Default, zap.NewNop())

	if _, err := r.Generate(context.Background(), RemediationInput{FailedQuestion: failedMCQ()}); err == nil {
		t.Fatal("expected upstream error")
	}
	if len(c.models) != 1 {
		t.Errorf("remediation must make exactly one call, got %d", len(c.models))
	}
}

func TestRemediation_MalformedResponseErrors(t *testing.T) {
	tests := []string{
		`garbage`,
		`{"explanation": "ok but no question"}`,
		`{"explanation": "ok", "new_question": {"question": "q", "options": ["a","b"], "correct_index": 0}}`,
	}
	for _, resp := range tests {
		c := &scriptedCompleter{responses: []scriptedResponse{{content: resp}}}
		r := NewRemediator(c, testModels.Default, zap.NewNop())
		if _, err := r.Generate(context.Background(), RemediationInput{FailedQuestion: failedMCQ()}); err == nil {
			t.Errorf("expected error for response %q", resp)
		}
	}
}
