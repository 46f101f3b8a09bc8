package tutor

import (
	"github.com/google/uuid"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/pkg/search"
)

// SessionResponse is the opened session as seen by the client.
type SessionResponse struct {
	ID     uuid.UUID                   `json:"id"`
	Status entities.ConversationStatus `json:"status"`
}

// TurnResponse is the tutor's reply for one exchange. Resources is present
// only when the tutor attached material this turn.
type TurnResponse struct {
	Reply     string                      `json:"reply"`
	Status    entities.ConversationStatus `json:"status"`
	Resources []search.Resource           `json:"resources,omitempty"`
}
