package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"healthmini/internal/errors"
	"healthmini/models"
)

// SessionStore is an in-memory SessionRepository. Like the postgres adapter's
// partial unique index, Create rejects a second non-deleted session for the
// same (user, day) with a CONFLICT error.
type SessionStore struct {
	mu       sync.RWMutex
	nextID   int64
	sessions map[int64]*models.ChatSession

	messages *MessageStore
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{nextID: 1, sessions: make(map[int64]*models.ChatSession)}
}

// WithCascade registers the message store a session deletion cascades into.
func (s *SessionStore) WithCascade(messages *MessageStore) *SessionStore {
	s.messages = messages
	return s
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (s *SessionStore) Create(ctx context.Context, session *models.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing.UserID == session.UserID && !existing.IsDeleted && sameDay(existing.CreatedAt, session.CreatedAt) {
			return errors.Conflict("session already exists")
		}
	}
	session.ID = s.nextID
	s.nextID++
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *SessionStore) GetByID(ctx context.Context, sessionID int64) (*models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.IsDeleted {
		return nil, errors.NotFound("session")
	}
	cp := *sess
	return &cp, nil
}

func (s *SessionStore) FindForUserInWindow(ctx context.Context, userID int64, start, end time.Time) ([]*models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ChatSession
	for _, sess := range s.sessions {
		if sess.UserID != userID || sess.IsDeleted {
			continue
		}
		if sess.CreatedAt.Before(start) || sess.CreatedAt.After(end) {
			continue
		}
		cp := *sess
		out = append(out, &cp)
	}
	sortSessions(out)
	return out, nil
}

func (s *SessionStore) FindForUserBefore(ctx context.Context, userID int64, asOf time.Time) ([]*models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ChatSession
	for _, sess := range s.sessions {
		if sess.UserID != userID || sess.IsDeleted || !sess.CreatedAt.Before(asOf) {
			continue
		}
		cp := *sess
		out = append(out, &cp)
	}
	sortSessions(out)
	return out, nil
}

func (s *SessionStore) FindPastEligibility(ctx context.Context, now time.Time) ([]*models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ChatSession
	for _, sess := range s.sessions {
		if sess.DeletionEligibleAt.After(now) {
			continue
		}
		cp := *sess
		out = append(out, &cp)
	}
	sortSessions(out)
	return out, nil
}

func (s *SessionStore) DeleteByIDs(ctx context.Context, sessionIDs []int64) error {
	s.mu.Lock()
	for _, id := range sessionIDs {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if s.messages != nil {
		s.messages.deleteBySessions(sessionIDs)
	}
	return nil
}

func (s *SessionStore) deleteByUser(userID int64) {
	s.mu.Lock()
	var ids []int64
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			ids = append(ids, id)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	if s.messages != nil {
		s.messages.deleteBySessions(ids)
	}
}

func sortSessions(sessions []*models.ChatSession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
}
