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

// escalationMinAttempts is how much history a student needs before a weak
// topic routes their evaluation straight to the stronger model.
const escalationMinAttempts = 2

const fallbackFeedback = "We couldn't grade this answer right now. Compare your answer against the reference and try again."

// EvaluateInput is one free-text answer to judge. All fields are required.
type EvaluateInput struct {
	Question  string
	Answer    string
	Topic     string
	StudentID uuid.UUID
}

// Evaluator grades free-text answers, escalating to the stronger model for
// students with a track record of struggling on the topic.
type Evaluator struct {
	completer llm.Completer
	profiles  ProfileSource
	models    Models
	logger    *zap.Logger
}

// NewEvaluator constructs an answer evaluator.
func NewEvaluator(completer llm.Completer, profiles ProfileSource, models Models, logger *zap.Logger) *Evaluator {
	return &Evaluator{completer: completer, profiles: profiles, models: models, logger: logger}
}

// Evaluate judges the answer. Model choice starts at the default unless the
// topic is a known weak spot with enough attempt history, in which case the
// fallback model goes first. A failed default attempt retries once on the
// fallback; if everything fails the student gets a safe not-correct result
// rather than an error.
func (e *Evaluator) Evaluate(ctx context.Context, input EvaluateInput) (Outcome[entities.EvaluationResult], error) {
	if input.Question == "" || input.Answer == "" || input.Topic == "" {
		return Outcome[entities.EvaluationResult]{}, apperrors.ErrInvalidArgument("question, answer and topic are required")
	}

	mem := e.loadProfile(ctx, input.StudentID)

	chain := []string{e.models.Default, e.models.Fallback}
	if e.shouldEscalate(mem, input.Topic) {
		chain = []string{e.models.Fallback}
		e.logger.Info("escalating evaluation to stronger model",
			zap.String("topic", input.Topic),
			zap.String("model", e.models.Fallback),
		)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: e.systemPrompt(mem)},
		{Role: llm.RoleUser, Content: evaluationUserPrompt(input.Question, input.Answer, input.Topic)},
	}

	for i, model := range chain {
		result, err := e.complete(ctx, model, messages)
		if err != nil {
			e.logger.Warn("evaluation attempt failed",
				zap.String("model", model),
				zap.Error(err),
			)
			continue
		}
		result = postProcess(result, model)
		if i == 0 {
			return ok(result, model), nil
		}
		return degraded(result, model, "default model failed"), nil
	}

	safe := postProcess(entities.EvaluationResult{
		Correct:  false,
		Feedback: fallbackFeedback,
	}, "")
	return degraded(safe, "", "all models failed"), nil
}

func (e *Evaluator) loadProfile(ctx context.Context, studentID uuid.UUID) *entities.LearningMemory {
	if e.profiles == nil || studentID == uuid.Nil {
		return nil
	}
	mem, err := e.profiles.Get(ctx, studentID)
	if err != nil {
		e.logger.Warn("profile lookup failed, evaluating unpersonalized", zap.Error(err))
		return nil
	}
	return mem
}

func (e *Evaluator) shouldEscalate(mem *entities.LearningMemory, topic string) bool {
	return mem != nil && mem.TotalAttempts >= escalationMinAttempts && mem.HasWeakTopic(topic)
}

func (e *Evaluator) systemPrompt(mem *entities.LearningMemory) string {
	if mem == nil {
		return evaluateInstruction
	}
	return evaluateInstruction + "\n\n" + memory.PersonalizationContext(mem)
}

func (e *Evaluator) complete(ctx context.Context, model string, messages []llm.Message) (entities.EvaluationResult, error) {
	content, err := e.completer.CompleteJSON(ctx, model, messages, 512, 0.2)
	if err != nil {
		return entities.EvaluationResult{}, err
	}

	var parsed struct {
		Correct  *bool  `json:"correct"`
		Feedback string `json:"feedback"`
		Hint     string `json:"hint"`
	}
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &parsed); err != nil {
		return entities.EvaluationResult{}, fmt.Errorf("parse evaluation response: %w", err)
	}
	if parsed.Correct == nil {
		return entities.EvaluationResult{}, fmt.Errorf("evaluation response missing verdict")
	}

	return entities.EvaluationResult{
		Correct:  *parsed.Correct,
		Feedback: parsed.Feedback,
		Hint:     parsed.Hint,
	}, nil
}

// postProcess enforces the result contract: feedback is never empty, a
// correct answer carries no hint, and the model that judged is recorded.
func postProcess(result entities.EvaluationResult, model string) entities.EvaluationResult {
	if result.Feedback == "" {
		if result.Correct {
			result.Feedback = "Correct, well done."
		} else {
			result.Feedback = "Not quite. Review the material and try again."
		}
	}
	if result.Correct {
		result.Hint = ""
	}
	result.ModelUsed = model
	return result
}
