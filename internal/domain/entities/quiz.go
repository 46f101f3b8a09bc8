package entities

// QuizQuestion is an ephemeral generated question. Exactly one shape per
// question: open-ended (ReferenceAnswer set, no options) or multiple-choice
// (four Options plus CorrectIndex, no reference answer).
type QuizQuestion struct {
	Question        string   `json:"question"`
	ReferenceAnswer string   `json:"reference_answer,omitempty"`
	Options         []string `json:"options,omitempty"`
	CorrectIndex    *int     `json:"correct_index,omitempty"`
}

// IsMultipleChoice reports whether the question carries options.
func (q QuizQuestion) IsMultipleChoice() bool {
	return len(q.Options) > 0 && q.CorrectIndex != nil
}

// EvaluationResult is the judged outcome of a free-text answer.
// Hint is empty whenever Correct is true.
type EvaluationResult struct {
	Correct   bool   `json:"correct"`
	Feedback  string `json:"feedback"`
	Hint      string `json:"hint"`
	ModelUsed string `json:"model_used"`
}

// Remediation pairs a teaching explanation with a strictly simpler follow-up
// question on the same concept, issued after a wrong multiple-choice answer.
type Remediation struct {
	Explanation string       `json:"explanation"`
	NewQuestion QuizQuestion `json:"new_question"`
}
