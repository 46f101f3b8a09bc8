package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

// DefaultSessionTTL is how long an idle tutor session survives. Each saved
// turn refreshes the clock.
const DefaultSessionTTL = 30 * time.Minute

// SessionStore persists short-lived tutor sessions.
type SessionStore interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*entities.TutorSession, error)
	Save(ctx context.Context, session *entities.TutorSession) error
}

// RedisSessionStore keeps sessions as JSON values with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed store. A non-positive ttl uses
// DefaultSessionTTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(sessionID uuid.UUID) string {
	return "tutor:session:" + sessionID.String()
}

// Get returns the session, or (nil, nil) when it is missing or expired.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID uuid.UUID) (*entities.TutorSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tutor session: %w", err)
	}

	var session entities.TutorSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode tutor session: %w", err)
	}
	return &session, nil
}

// Save writes the session and resets its TTL.
func (s *RedisSessionStore) Save(ctx context.Context, session *entities.TutorSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode tutor session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save tutor session: %w", err)
	}
	return nil
}

// MemorySessionStore is an in-process store for tests and single-node runs.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entities.TutorSession
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[uuid.UUID]*entities.TutorSession)}
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID uuid.UUID) (*entities.TutorSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	copied.Messages = append([]entities.ConversationMessage{}, session.Messages...)
	return &copied, nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *entities.TutorSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	copied.Messages = append([]entities.ConversationMessage{}, session.Messages...)
	s.sessions[session.ID] = &copied
	return nil
}
