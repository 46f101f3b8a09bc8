package tutor

// StartSessionRequest opens a tutoring conversation around one failed question.
type StartSessionRequest struct {
	Topic             string `json:"topic" validate:"required,max=200"`
	Question          string `json:"question" validate:"required"`
	WrongAnswer       string `json:"wrong_answer" validate:"required"`
	ReferenceAnswer   string `json:"reference_answer"`
	TranscriptContext string `json:"transcript_context"`
}

// MessageRequest is one student turn in an open session.
type MessageRequest struct {
	Message string `json:"message" validate:"required"`
}
