package entities

import (
	"time"

	"github.com/google/uuid"
)

// ConversationStatus is the tutor session state. READY is terminal.
type ConversationStatus string

const (
	ConversationStatusChat  ConversationStatus = "CHAT"
	ConversationStatusReady ConversationStatus = "READY"
)

// ConversationRole is a message author.
type ConversationRole string

const (
	ConversationRoleUser      ConversationRole = "user"
	ConversationRoleAssistant ConversationRole = "assistant"
)

// ConversationMessage is one turn of the remediation dialogue.
type ConversationMessage struct {
	Role    ConversationRole `json:"role"`
	Content string           `json:"content"`
}

// ConversationContext is the immutable failure context the session was opened
// with. It is embedded into every turn's system instruction.
type ConversationContext struct {
	Topic             string `json:"topic"`
	Question          string `json:"question"`
	WrongAnswer       string `json:"wrong_answer"`
	ReferenceAnswer   string `json:"reference_answer,omitempty"`
	TranscriptContext string `json:"transcript_context,omitempty"`
}

// TutorSession is a short-lived remediation chat session. Stored as JSON in
// the session store with a TTL; not a durable record.
type TutorSession struct {
	ID        uuid.UUID             `json:"id"`
	StudentID uuid.UUID             `json:"student_id"`
	Context   ConversationContext   `json:"context"`
	Messages  []ConversationMessage `json:"messages"`
	Status    ConversationStatus    `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// NewTutorSession opens a session in the CHAT state.
func NewTutorSession(studentID uuid.UUID, ctx ConversationContext) *TutorSession {
	now := time.Now().UTC()
	return &TutorSession{
		ID:        uuid.New(),
		StudentID: studentID,
		Context:   ctx,
		Messages:  []ConversationMessage{},
		Status:    ConversationStatusChat,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsTerminal reports whether the session can accept further turns.
func (s *TutorSession) IsTerminal() bool {
	return s.Status == ConversationStatusReady
}
