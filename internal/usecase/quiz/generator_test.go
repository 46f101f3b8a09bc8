package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/pkg/llm"
)

var testModels = Models{Default: "model-small", Fallback: "model-large"}

// scriptedCompleter replays one canned response per call, in order, and
// records which model each call used.
type scriptedCompleter struct {
	responses []scriptedResponse
	models    []string
	prompts   []string
}

type scriptedResponse struct {
	content string
	err     error
}

func (s *scriptedCompleter) CompleteJSON(_ context.Context, model string, messages []llm.Message, _ int, _ float32) (string, error) {
	s.models = append(s.models, model)
	for _, m := range messages {
		s.prompts = append(s.prompts, m.Content)
	}
	if len(s.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r.content, r.err
}

type fakeProfiles struct {
	mem *entities.LearningMemory
	err error
}

func (f *fakeProfiles) Get(context.Context, uuid.UUID) (*entities.LearningMemory, error) {
	return f.mem, f.err
}

func TestOpenEnded_RequiresMaterial(t *testing.T) {
	g := NewGenerator(&scriptedCompleter{}, nil, testModels, zap.NewNop())
	if _, err := g.OpenEnded(context.Background(), GenerateInput{}); err == nil {
		t.Fatal("expected invalid input error")
	}
}

func TestOpenEnded_DefaultModelSucceeds(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"question": "What is recursion?", "reference_answer": "A function calling itself."}`},
	}}
	g := NewGenerator(c, nil, testModels, zap.NewNop())

	out, err := g.OpenEnded(context.Background(), GenerateInput{Topic: "Recursion"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Degraded {
		t.Error("successful default path must not be degraded")
	}
	if out.ModelUsed != testModels.Default {
		t.Errorf("model used = %q, want default", out.ModelUsed)
	}
	if out.Value.Question == "" || out.Value.ReferenceAnswer == "" {
		t.Errorf("incomplete question: %+v", out.Value)
	}
}

func TestOpenEnded_FallsBackToLargerModel(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{
		{err: errors.New("rate limited")},
		{content: `{"question": "Why does recursion need a base case?", "reference_answer": "To terminate."}`},
	}}
	g := NewGenerator(c, nil, testModels, zap.NewNop())

	out, err := g.OpenEnded(context.Background(), GenerateInput{Topic: "Recursion"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Degraded {
		t.Error("fallback path must report degraded")
	}
	if out.ModelUsed != testModels.Fallback {
		t.Errorf("model used = %q, want fallback", out.ModelUsed)
	}
	if got := c.models; len(got) != 2 || got[0] != testModels.Default || got[1] != testModels.Fallback {
		t.Errorf("call order = %v", got)
	}
}

func TestOpenEnded_CannedQuestionWhenAllModelsFail(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{
		{err: errors.New("down")},
		{content: `not json at all`},
	}}
	g := NewGenerator(c, nil, testModels, zap.NewNop())

	out, err := g.OpenEnded(context.Background(), GenerateInput{Topic: "Recursion"})
	if err != nil {
		t.Fatalf("generation must never fail upstream: %v", err)
	}
	if !out.Degraded {
		t.Error("canned result must report degraded")
	}
	if !strings.Contains(out.Value.Question, "Recursion") {
		t.Errorf("canned question should reference the topic: %q", out.Value.Question)
	}
	if out.Value.ReferenceAnswer == "" {
		t.Error("canned result must carry a reference answer")
	}
}

func TestOpenEnded_TranscriptTruncated(t *testing.T) {
	transcript := strings.Repeat("a", transcriptPromptBudget) + "SENTINEL"
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"question": "Q", "reference_answer": "A"}`},
	}}
	g := NewGenerator(c, nil, testModels, zap.NewNop())

	if _, err := g.OpenEnded(context.Background(), GenerateInput{TranscriptText: transcript}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range c.prompts {
		if strings.Contains(p, "SENTINEL") {
			t.Error("transcript content beyond the budget leaked into the prompt")
		}
	}
}

func TestOpenEnded_PersonalizationReachesPrompt(t *testing.T) {
	mem := entities.NewLearningMemory(uuid.New())
	mem.RecordAttempt("Pointers", false)
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"question": "Q", "reference_answer": "A"}`},
	}}
	g := NewGenerator(c, &fakeProfiles{mem: mem}, testModels, zap.NewNop())

	if _, err := g.OpenEnded(context.Background(), GenerateInput{Topic: "Pointers", StudentID: mem.StudentID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, p := range c.prompts {
		if strings.Contains(p, "Struggling with: Pointers") {
			found = true
		}
	}
	if !found {
		t.Error("personalization block missing from system prompt")
	}
}

func TestMultipleChoiceBatch_ParsesAndFilters(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"questions": [
			{"question": "Good", "options": ["a","b","c","d"], "correct_index": 2},
			{"question": "Too few options", "options": ["a","b"], "correct_index": 0},
			{"question": "Bad index", "options": ["a","b","c","d"], "correct_index": 7},
			{"question": "Also good", "options": ["a","b","c","d"], "correct_index": 0}
		]}`},
	}}
	g := NewGenerator(c, nil, testModels, zap.NewNop())

	got, err := g.MultipleChoiceBatch(context.Background(), GenerateInput{Topic: "Slices"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2 well-formed", len(got))
	}
	for _, q := range got {
		if !q.IsMultipleChoice() {
			t.Errorf("question not multiple-choice: %+v", q)
		}
	}
}

func TestMultipleChoiceBatch_MalformedResponseYieldsEmptyBatch(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{{content: `garbage`}}}
	g := NewGenerator(c, nil, testModels, zap.NewNop())

	got, err := g.MultipleChoiceBatch(context.Background(), GenerateInput{Topic: "Slices"}, 3)
	if err != nil {
		t.Fatalf("parse failure must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty batch, got %d", len(got))
	}
}

func TestMultipleChoiceBatch_TransportErrorSurfaces(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{{err: errors.New("down")}}}
	g := NewGenerator(c, nil, testModels, zap.NewNop())

	if _, err := g.MultipleChoiceBatch(context.Background(), GenerateInput{Topic: "Slices"}, 3); err == nil {
		t.Fatal("expected upstream error")
	}
}
