package quiz

// GenerateRequest asks for one open-ended question. At least one of topic and
// transcript_text must be set; that cross-field rule is checked in the handler.
type GenerateRequest struct {
	Topic          string `json:"topic" validate:"omitempty,max=200"`
	TranscriptText string `json:"transcript_text"`
}

// GenerateBatchRequest asks for a batch of multiple-choice questions.
type GenerateBatchRequest struct {
	Topic          string `json:"topic" validate:"omitempty,max=200"`
	TranscriptText string `json:"transcript_text"`
	Count          int    `json:"count" validate:"omitempty,min=1,max=10"`
}

// EvaluateRequest submits a free-text answer for grading.
type EvaluateRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Topic    string `json:"topic" validate:"required,max=200"`
}

// RemediationRequest reports a failed multiple-choice attempt.
type RemediationRequest struct {
	TranscriptText   string         `json:"transcript_text"`
	FailedQuestion   FailedQuestion `json:"failed_question" validate:"required"`
	WrongAnswerIndex int            `json:"wrong_answer_index" validate:"min=0,max=3"`
}

// FailedQuestion is the multiple-choice question the student got wrong.
type FailedQuestion struct {
	Question     string   `json:"question" validate:"required"`
	Options      []string `json:"options" validate:"required,len=4"`
	CorrectIndex int      `json:"correct_index" validate:"min=0,max=3"`
}
