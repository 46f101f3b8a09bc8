package quiz

import "github.com/reflectlabs/reflective-tutor/internal/domain/entities"

// GenerateResponse wraps a generated question with how it was produced.
type GenerateResponse struct {
	Question  entities.QuizQuestion `json:"question"`
	Degraded  bool                  `json:"degraded"`
	ModelUsed string                `json:"model_used,omitempty"`
}

// GenerateBatchResponse carries the multiple-choice batch.
type GenerateBatchResponse struct {
	Questions []entities.QuizQuestion `json:"questions"`
}

// EvaluateResponse wraps the verdict with the updated attempt counters so the
// client can show progress without a second round trip.
type EvaluateResponse struct {
	Result        entities.EvaluationResult `json:"result"`
	Degraded      bool                      `json:"degraded"`
	TotalAttempts int                       `json:"total_attempts"`
	AccuracyRate  float64                   `json:"accuracy_rate"`
}
