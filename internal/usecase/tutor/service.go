package tutor

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/pkg/llm"
	"github.com/reflectlabs/reflective-tutor/pkg/search"
)

// maxResources caps how many search hits a single reply carries.
const maxResources = 2

// TurnResult is what one exchange returns to the caller. Resources is empty
// unless the model asked for material this turn.
type TurnResult struct {
	Reply     string                      `json:"reply"`
	Status    entities.ConversationStatus `json:"status"`
	Resources []search.Resource           `json:"resources,omitempty"`
}

// Service runs tutor conversations on top of a session store, one chat model
// and the resource fetcher.
type Service struct {
	store     SessionStore
	completer llm.Completer
	searcher  search.Searcher
	model     string
	logger    *zap.Logger
}

// NewService constructs a tutor service.
func NewService(store SessionStore, completer llm.Completer, searcher search.Searcher, model string, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		completer: completer,
		searcher:  searcher,
		model:     model,
		logger:    logger,
	}
}

// StartSession opens a CHAT session around one failed question.
func (s *Service) StartSession(ctx context.Context, studentID uuid.UUID, convCtx entities.ConversationContext) (*entities.TutorSession, error) {
	if convCtx.Topic == "" || convCtx.Question == "" || convCtx.WrongAnswer == "" {
		return nil, apperrors.ErrInvalidArgument("topic, question and wrong_answer are required")
	}

	session := entities.NewTutorSession(studentID, convCtx)
	if err := s.store.Save(ctx, session); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	s.logger.Info("tutor session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("topic", convCtx.Topic),
	)
	return session, nil
}

// Turn runs one exchange. The session is only persisted after a fully
// successful model call, so an upstream failure leaves it exactly as it was.
func (s *Service) Turn(ctx context.Context, sessionID uuid.UUID, userMessage string) (*TurnResult, error) {
	if userMessage == "" {
		return nil, apperrors.ErrInvalidArgument("message is required")
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound(sessionID.String())
	}
	if session.IsTerminal() {
		return nil, apperrors.ErrSessionClosed(sessionID.String())
	}

	content, err := s.completer.CompleteJSON(ctx, s.model, conversationMessages(session, userMessage), 1024, 0.6)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable("tutor", err)
	}
	reply, err := parseTurnReply(content)
	if err != nil {
		return nil, apperrors.ErrParseFailure("tutor", err)
	}

	resources := s.fetchResources(ctx, reply.ResourceRequest)

	session.Messages = append(session.Messages,
		entities.ConversationMessage{Role: entities.ConversationRoleUser, Content: userMessage},
		entities.ConversationMessage{Role: entities.ConversationRoleAssistant, Content: reply.Reply},
	)
	session.Status = nextState(session.Status, reply.Status)

	if err := s.store.Save(ctx, session); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	return &TurnResult{
		Reply:     reply.Reply,
		Status:    session.Status,
		Resources: resources,
	}, nil
}

// fetchResources honors a resource request synchronously. Search trouble
// degrades to no attachments; the reply itself still goes through.
func (s *Service) fetchResources(ctx context.Context, req *ResourceRequest) []search.Resource {
	if req == nil || req.Query == "" || s.searcher == nil {
		return nil
	}

	resources, err := s.searcher.Search(ctx, req.Query, resourceType(req.Type), maxResources)
	if err != nil {
		s.logger.Warn("resource fetch failed",
			zap.String("query", req.Query),
			zap.Error(err),
		)
		return nil
	}
	if len(resources) > maxResources {
		resources = resources[:maxResources]
	}
	return resources
}
