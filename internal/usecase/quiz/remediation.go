package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/pkg/llm"
)

// RemediationInput describes one failed multiple-choice attempt.
type RemediationInput struct {
	TranscriptText   string
	FailedQuestion   entities.QuizQuestion
	WrongAnswerIndex int
}

// Remediator turns a wrong multiple-choice answer into an explanation plus a
// simpler follow-up question.
type Remediator struct {
	completer llm.Completer
	model     string
	logger    *zap.Logger
}

// NewRemediator constructs a remediation generator bound to one model.
func NewRemediator(completer llm.Completer, model string, logger *zap.Logger) *Remediator {
	return &Remediator{completer: completer, model: model, logger: logger}
}

// Generate makes a single model call with no fallback chain; remediation is
// optional enough that a failure is reported to the caller instead of masked.
func (r *Remediator) Generate(ctx context.Context, input RemediationInput) (*entities.Remediation, error) {
	if input.FailedQuestion.Question == "" {
		return nil, apperrors.ErrInvalidArgument("failed_question is required")
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: remediationInstruction},
		{Role: llm.RoleUser, Content: r.userPrompt(input)},
	}

	content, err := r.completer.CompleteJSON(ctx, r.model, messages, 1024, 0.5)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable("remediation", err)
	}

	remediation, err := parseRemediation(content)
	if err != nil {
		r.logger.Warn("remediation response unparseable", zap.Error(err))
		return nil, apperrors.ErrRemediationFailed(err)
	}
	return remediation, nil
}

func (r *Remediator) userPrompt(input RemediationInput) string {
	q := input.FailedQuestion
	prompt := fmt.Sprintf("Question: %s\n", q.Question)
	for i, opt := range q.Options {
		prompt += fmt.Sprintf("  %d. %s\n", i, opt)
	}
	if q.CorrectIndex != nil {
		prompt += fmt.Sprintf("Correct option: %d\n", *q.CorrectIndex)
	}
	if input.WrongAnswerIndex >= 0 && input.WrongAnswerIndex < len(q.Options) {
		prompt += fmt.Sprintf("Student picked option %d: %s\n", input.WrongAnswerIndex, q.Options[input.WrongAnswerIndex])
	}
	if input.TranscriptText != "" {
		prompt += "Transcript excerpt:\n" + truncateTranscript(input.TranscriptText)
	}
	return prompt
}

func parseRemediation(content string) (*entities.Remediation, error) {
	var parsed struct {
		Explanation string `json:"explanation"`
		NewQuestion rawMCQ `json:"new_question"`
	}
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &parsed); err != nil {
		return nil, fmt.Errorf("parse remediation response: %w", err)
	}
	if parsed.Explanation == "" {
		return nil, fmt.Errorf("remediation response missing explanation")
	}

	nq := parsed.NewQuestion
	if nq.Question == "" || len(nq.Options) != 4 || nq.CorrectIndex == nil || *nq.CorrectIndex < 0 || *nq.CorrectIndex > 3 {
		return nil, fmt.Errorf("remediation follow-up question malformed")
	}
	idx := *nq.CorrectIndex

	return &entities.Remediation{
		Explanation: parsed.Explanation,
		NewQuestion: entities.QuizQuestion{
			Question:     nq.Question,
			Options:      nq.Options,
			CorrectIndex: &idx,
		},
	}, nil
}
