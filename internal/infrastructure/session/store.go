// Package session keeps conversation sessions in process memory. Sessions
// deliberately do not survive a restart; there is no durable session store.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

const (
	defaultIdleTTL = 24 * time.Hour
	// maxTranscriptTurns bounds transcript growth per session.
	maxTranscriptTurns = 20
)

// Store is an in-memory session table guarded by a single RWMutex. Mutations
// on one token are serialized; operations on distinct tokens only contend on
// the map lock, which is held briefly.
type Store struct {
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &Store{
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*domain.Session),
	}
}

var _ ports.SessionStore = (*Store)(nil)

func (s *Store) Create(_ context.Context, user *domain.User) (*domain.Session, error) {
	now := s.now().UTC()
	session := &domain.Session{
		ID:         uuid.NewString(),
		Username:   user.Username,
		Department: user.Department,
		CreatedAt:  now,
		LastSeen:   now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return snapshot(session), nil
}

// Resolve returns a copy of the session and refreshes its idle clock.
// Expired sessions are removed lazily here — no background sweeper.
func (s *Store) Resolve(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrInvalidSession
	}
	if s.now().Sub(session.LastSeen) > s.idleTTL {
		delete(s.sessions, id)
		return nil, domain.ErrInvalidSession
	}

	session.LastSeen = s.now().UTC()
	return snapshot(session), nil
}

func (s *Store) AppendTurn(_ context.Context, id string, turn domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrInvalidSession
	}

	session.Transcript = append(session.Transcript, turn)
	if len(session.Transcript) > maxTranscriptTurns {
		session.Transcript = session.Transcript[len(session.Transcript)-maxTranscriptTurns:]
	}
	return nil
}

// Reset empties the transcript but keeps the identity binding intact.
func (s *Store) Reset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrInvalidSession
	}
	session.Transcript = nil
	return nil
}

func (s *Store) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrInvalidSession
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// snapshot copies the session so callers never share the stored transcript slice.
func snapshot(session *domain.Session) *domain.Session {
	clone := *session
	clone.Transcript = append([]domain.Turn(nil), session.Transcript...)
	return &clone
}
