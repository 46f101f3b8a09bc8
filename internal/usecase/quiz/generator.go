package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/memory"
	"github.com/reflectlabs/reflective-tutor/pkg/llm"
)

const defaultBatchCount = 3

// Models names the generation model pair: Default handles the normal path,
// Fallback takes over after a Default failure.
type Models struct {
	Default  string
	Fallback string
}

// ProfileSource yields a student's learning memory for prompt personalization.
type ProfileSource interface {
	Get(ctx context.Context, studentID uuid.UUID) (*entities.LearningMemory, error)
}

// GenerateInput is the material a question is built from. At least one of
// Topic and TranscriptText must be set.
type GenerateInput struct {
	Topic          string
	TranscriptText string
	StudentID      uuid.UUID
}

// Generator produces quiz questions from topic and transcript material.
type Generator struct {
	completer llm.Completer
	profiles  ProfileSource
	models    Models
	logger    *zap.Logger
}

// NewGenerator constructs a question generator.
func NewGenerator(completer llm.Completer, profiles ProfileSource, models Models, logger *zap.Logger) *Generator {
	return &Generator{completer: completer, profiles: profiles, models: models, logger: logger}
}

// OpenEnded generates one open-ended question. The default model is tried
// first, then the fallback model, then a canned question on the topic; the
// method never returns an error for upstream trouble, only for bad input.
func (g *Generator) OpenEnded(ctx context.Context, input GenerateInput) (Outcome[entities.QuizQuestion], error) {
	if input.Topic == "" && input.TranscriptText == "" {
		return Outcome[entities.QuizQuestion]{}, apperrors.ErrInvalidArgument("topic or transcript_text is required")
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: g.systemPrompt(ctx, input.StudentID, openEndedInstruction)},
		{Role: llm.RoleUser, Content: generationUserPrompt(input.Topic, input.TranscriptText)},
	}

	for _, model := range []string{g.models.Default, g.models.Fallback} {
		q, err := g.completeOpenEnded(ctx, model, messages)
		if err != nil {
			g.logger.Warn("question generation attempt failed",
				zap.String("model", model),
				zap.Error(err),
			)
			continue
		}
		if model == g.models.Default {
			return ok(q, model), nil
		}
		return degraded(q, model, "default model failed"), nil
	}

	return degraded(cannedQuestion(input.Topic), "", "all models failed"), nil
}

// MultipleChoiceBatch generates count multiple-choice questions in one call.
// A malformed model response yields an empty batch without error; only
// transport failures surface.
func (g *Generator) MultipleChoiceBatch(ctx context.Context, input GenerateInput, count int) ([]entities.QuizQuestion, error) {
	if input.Topic == "" && input.TranscriptText == "" {
		return nil, apperrors.ErrInvalidArgument("topic or transcript_text is required")
	}
	if count <= 0 {
		count = defaultBatchCount
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: g.systemPrompt(ctx, input.StudentID, multipleChoiceInstruction)},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Write %d questions.\n%s", count, generationUserPrompt(input.Topic, input.TranscriptText))},
	}

	content, err := g.completer.CompleteJSON(ctx, g.models.Default, messages, 2048, 0.7)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable("generation", err)
	}

	return parseMultipleChoiceBatch(content, count), nil
}

// systemPrompt appends the student's personalization block when a profile is
// available; generation proceeds unpersonalized when it is not.
func (g *Generator) systemPrompt(ctx context.Context, studentID uuid.UUID, instruction string) string {
	if g.profiles == nil || studentID == uuid.Nil {
		return instruction
	}
	mem, err := g.profiles.Get(ctx, studentID)
	if err != nil {
		g.logger.Warn("profile lookup failed, generating unpersonalized", zap.Error(err))
		return instruction
	}
	return instruction + "\n\n" + memory.PersonalizationContext(mem)
}

func (g *Generator) completeOpenEnded(ctx context.Context, model string, messages []llm.Message) (entities.QuizQuestion, error) {
	content, err := g.completer.CompleteJSON(ctx, model, messages, 512, 0.7)
	if err != nil {
		return entities.QuizQuestion{}, err
	}

	var parsed struct {
		Question        string `json:"question"`
		ReferenceAnswer string `json:"reference_answer"`
		Answer          string `json:"answer"`
	}
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &parsed); err != nil {
		return entities.QuizQuestion{}, fmt.Errorf("parse generation response: %w", err)
	}
	if parsed.ReferenceAnswer == "" {
		parsed.ReferenceAnswer = parsed.Answer
	}
	if parsed.Question == "" || parsed.ReferenceAnswer == "" {
		return entities.QuizQuestion{}, fmt.Errorf("generation response missing question or reference answer")
	}

	return entities.QuizQuestion{
		Question:        parsed.Question,
		ReferenceAnswer: parsed.ReferenceAnswer,
	}, nil
}

type rawMCQ struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correct_index"`
}

// parseMultipleChoiceBatch keeps only well-formed entries: 4 options and a
// correct index within them.
func parseMultipleChoiceBatch(content string, limit int) []entities.QuizQuestion {
	content = llm.ExtractJSON(content)

	var raw []rawMCQ
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		var wrapper struct {
			Questions []rawMCQ `json:"questions"`
		}
		if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
			return []entities.QuizQuestion{}
		}
		raw = wrapper.Questions
	}

	out := make([]entities.QuizQuestion, 0, len(raw))
	for _, q := range raw {
		if q.Question == "" || len(q.Options) != 4 || q.CorrectIndex == nil {
			continue
		}
		if *q.CorrectIndex < 0 || *q.CorrectIndex > 3 {
			continue
		}
		idx := *q.CorrectIndex
		out = append(out, entities.QuizQuestion{
			Question:     q.Question,
			Options:      q.Options,
			CorrectIndex: &idx,
		})
		if len(out) == limit {
			break
		}
	}
	return out
}

// cannedQuestion is the last resort when every model attempt failed.
func cannedQuestion(topic string) entities.QuizQuestion {
	if topic == "" {
		topic = "the material you just watched"
	}
	return entities.QuizQuestion{
		Question:        fmt.Sprintf("In your own words, explain the key idea behind %s.", topic),
		ReferenceAnswer: fmt.Sprintf("A clear summary of the main concept of %s, covering what it is and why it matters.", topic),
	}
}
