package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/pkg/llm"
	"github.com/reflectlabs/reflective-tutor/pkg/search"
)

type scriptedCompleter struct {
	responses []scriptedResponse
	prompts   []string
}

type scriptedResponse struct {
	content string
	err     error
}

func (s *scriptedCompleter) CompleteJSON(_ context.Context, _ string, messages []llm.Message, _ int, _ float32) (string, error) {
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

type fakeSearcher struct {
	results []search.Resource
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ search.ResultType, _ int) ([]search.Resource, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func testContext() entities.ConversationContext {
	return entities.ConversationContext{
		Topic:       "Binary trees",
		Question:    "Which traversal visits the root first?",
		WrongAnswer: "In-order",
	}
}

func newTestService(c *scriptedCompleter, searcher search.Searcher) (*Service, *MemorySessionStore) {
	store := NewMemorySessionStore()
	return NewService(store, c, searcher, "chat-model", zap.NewNop()), store
}

func TestStartSession_RequiresContext(t *testing.T) {
	svc, _ := newTestService(&scriptedCompleter{}, nil)
	if _, err := svc.StartSession(context.Background(), uuid.New(), entities.ConversationContext{Topic: "X"}); err == nil {
		t.Fatal("expected invalid input error")
	}
}

func TestStartSession_OpensInChatState(t *testing.T) {
	svc, store := newTestService(&scriptedCompleter{}, nil)

	session, err := svc.StartSession(context.Background(), uuid.New(), testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != entities.ConversationStatusChat {
		t.Errorf("status = %s, want CHAT", session.Status)
	}

	stored, _ := store.Get(context.Background(), session.ID)
	if stored == nil {
		t.Fatal("session not persisted")
	}
}

func TestTurn_MissingSession(t *testing.T) {
	svc, _ := newTestService(&scriptedCompleter{}, nil)
	if _, err := svc.Turn(context.Background(), uuid.New(), "hello"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestTurn_ContextAndHistoryReachPrompt(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"reply": "What does pre-order mean?", "status": "CHAT", "resourceRequest": null}`},
		{content: `{"reply": "Exactly. You have it.", "status": "READY", "resourceRequest": null}`},
	}}
	svc, _ := newTestService(c, nil)

	session, _ := svc.StartSession(context.Background(), uuid.New(), testContext())

	if _, err := svc.Turn(context.Background(), session.ID, "I thought in-order was first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.prompts = nil
	if _, err := svc.Turn(context.Background(), session.ID, "Root, then left, then right"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(c.prompts, "\n")
	for _, want := range []string{"Binary trees", "In-order", "I thought in-order was first", "What does pre-order mean?"} {
		if !strings.Contains(joined, want) {
			t.Errorf("second turn prompt missing %q", want)
		}
	}
}

func TestTurn_ReadyIsTerminal(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"reply": "You are ready to move on.", "status": "READY", "resourceRequest": null}`},
	}}
	svc, store := newTestService(c, nil)

	session, _ := svc.StartSession(context.Background(), uuid.New(), testContext())

	result, err := svc.Turn(context.Background(), session.ID, "Root, left, right")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != entities.ConversationStatusReady {
		t.Errorf("status = %s, want READY", result.Status)
	}

	stored, _ := store.Get(context.Background(), session.ID)
	if !stored.IsTerminal() {
		t.Error("persisted session should be terminal")
	}
	if _, err := svc.Turn(context.Background(), session.ID, "one more thing"); err == nil {
		t.Fatal("turn on a READY session must fail")
	}
}

func TestTurn_UnrecognizedStatusStaysChat(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"reply": "Keep going.", "status": "DONE_MAYBE", "resourceRequest": null}`},
	}}
	svc, _ := newTestService(c, nil)

	session, _ := svc.StartSession(context.Background(), uuid.New(), testContext())
	result, err := svc.Turn(context.Background(), session.ID, "hm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != entities.ConversationStatusChat {
		t.Errorf("status = %s, want CHAT", result.Status)
	}
}

func TestTurn_UpstreamFailureLeavesSessionUnchanged(t *testing.T) {
	c := &scriptedCompleter{responses: []scriptedResponse{
		{err: errors.New("timeout")},
	}}
	svc, store := newTestService(c, nil)

	session, _ := svc.StartSession(context.Background(), uuid.New(), testContext())

	if _, err := svc.Turn(context.Background(), session.ID, "hello"); err == nil {
		t.Fatal("expected upstream error")
	}

	stored, _ := store.Get(context.Background(), session.ID)
	if len(stored.Messages) != 0 {
		t.Errorf("failed turn must not persist messages, got %d", len(stored.Messages))
	}
	if stored.Status != entities.ConversationStatusChat {
		t.Errorf("failed turn must not change status, got %s", stored.Status)
	}
}

func TestTurn_ResourceRequestFetchesAndStaysInternal(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Resource{
		{Title: "Tree traversal diagram", Link: "https://example.com/1"},
		{Title: "Traversal animation", Link: "https://example.com/2"},
	}}
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"reply": "Here is a diagram that may help.", "status": "CHAT",
			"resourceRequest": {"type": "images", "query": "binary tree traversal diagram"}}`},
	}}
	svc, store := newTestService(c, searcher)

	session, _ := svc.StartSession(context.Background(), uuid.New(), testContext())
	result, err := svc.Turn(context.Background(), session.ID, "Can you show me?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Resources) != 2 {
		t.Fatalf("got %d resources, want 2", len(result.Resources))
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "binary tree traversal diagram" {
		t.Errorf("queries = %v", searcher.queries)
	}

	// The raw request stays server-side: history records only the reply text.
	stored, _ := store.Get(context.Background(), session.ID)
	for _, m := range stored.Messages {
		if strings.Contains(m.Content, "resourceRequest") {
			t.Error("resource request leaked into conversation history")
		}
	}
}

func TestTurn_SearchFailureDegradesToNoResources(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("search down")}
	c := &scriptedCompleter{responses: []scriptedResponse{
		{content: `{"reply": "Try thinking about the visit order.", "status": "CHAT",
			"resourceRequest": {"type": "videos", "query": "traversal"}}`},
	}}
	svc, _ := newTestService(c, searcher)

	session, _ := svc.StartSession(context.Background(), uuid.New(), testContext())
	result, err := svc.Turn(context.Background(), session.ID, "Show me a video")
	if err != nil {
		t.Fatalf("search failure must not fail the turn: %v", err)
	}
	if len(result.Resources) != 0 {
		t.Errorf("expected no resources, got %d", len(result.Resources))
	}
	if result.Reply == "" {
		t.Error("reply must survive a search failure")
	}
}
