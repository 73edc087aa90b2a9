package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/bitebuddy/pkg/models"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// MemorySessionStore keeps sessions in process memory. It backs single-node
// development setups that run without redis.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]models.Session
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]models.Session),
	}
}

func (s *MemorySessionStore) Create(_ context.Context, userID uint) (*models.Session, error) {
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sweep()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return &session, nil
}

func (s *MemorySessionStore) Lookup(_ context.Context, token string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return 0, ErrSessionNotFound
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, token)
		return 0, ErrSessionNotFound
	}
	return session.UserID, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// sweep drops expired sessions. Callers hold s.mu.
func (s *MemorySessionStore) sweep() {
	now := s.now()
	for token, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
