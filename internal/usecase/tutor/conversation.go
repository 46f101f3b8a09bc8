package tutor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/pkg/llm"
	"github.com/reflectlabs/reflective-tutor/pkg/search"
)

const tutorInstruction = `You are a patient tutor helping a student who answered a quiz ` +
	`question incorrectly. Guide them toward understanding with questions and small steps; ` +
	`never just hand over the answer. When the student demonstrates they now understand the ` +
	`concept, set status to "READY"; until then keep it "CHAT". If a diagram or video would ` +
	`genuinely help, include a resourceRequest. ` +
	`Respond with JSON: {"reply": "...", "status": "CHAT"|"READY", ` +
	`"resourceRequest": {"type": "images"|"videos", "query": "..."} or null}.`

// ResourceRequest is the model asking for external material on the student's
// behalf. It is consumed server-side and never reaches the client payload.
type ResourceRequest struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// turnReply is the parsed model output for one turn.
type turnReply struct {
	Reply           string           `json:"reply"`
	Status          string           `json:"status"`
	ResourceRequest *ResourceRequest `json:"resourceRequest"`
}

// systemInstruction embeds the session's failure context into the tutor
// prompt. The context never changes over the life of the session.
func systemInstruction(c entities.ConversationContext) string {
	var sb strings.Builder
	sb.WriteString(tutorInstruction)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(fmt.Sprintf("- Topic: %s\n", c.Topic))
	sb.WriteString(fmt.Sprintf("- Question: %s\n", c.Question))
	sb.WriteString(fmt.Sprintf("- Student's wrong answer: %s\n", c.WrongAnswer))
	if c.ReferenceAnswer != "" {
		sb.WriteString(fmt.Sprintf("- Reference answer: %s\n", c.ReferenceAnswer))
	}
	if c.TranscriptContext != "" {
		sb.WriteString("- Relevant transcript excerpt:\n")
		sb.WriteString(c.TranscriptContext)
	}
	return strings.TrimSpace(sb.String())
}

// conversationMessages renders system instruction plus full history for the
// next model call.
func conversationMessages(session *entities.TutorSession, userMessage string) []llm.Message {
	messages := make([]llm.Message, 0, len(session.Messages)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemInstruction(session.Context)})
	for _, m := range session.Messages {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})
	return messages
}

// parseTurnReply requires a non-empty reply; everything else is defaulted
// leniently.
func parseTurnReply(content string) (*turnReply, error) {
	var parsed turnReply
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &parsed); err != nil {
		return nil, fmt.Errorf("parse tutor response: %w", err)
	}
	if parsed.Reply == "" {
		return nil, fmt.Errorf("tutor response missing reply")
	}
	return &parsed, nil
}

// nextState applies the model's proposed status. READY is terminal and only
// the model's explicit judgment reaches it; anything unrecognized stays CHAT.
func nextState(current entities.ConversationStatus, proposed string) entities.ConversationStatus {
	if current == entities.ConversationStatusReady {
		return entities.ConversationStatusReady
	}
	if strings.EqualFold(strings.TrimSpace(proposed), string(entities.ConversationStatusReady)) {
		return entities.ConversationStatusReady
	}
	return entities.ConversationStatusChat
}

// resourceType maps the model's request to a search vertical; unknown types
// fall back to plain web search.
func resourceType(requested string) search.ResultType {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case "images":
		return search.ResultTypeImages
	case "videos":
		return search.ResultTypeVideos
	default:
		return search.ResultTypeSearch
	}
}
