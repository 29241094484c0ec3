package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"healthmini/internal/errors"
	"healthmini/models"
)

// MessageStore is an in-memory MessageRepository.
type MessageStore struct {
	mu       sync.RWMutex
	nextID   int64
	messages map[int64]*models.ChatMessage

	// sessionOwner resolves a message's owning user for quota counting,
	// mirroring the JOIN the postgres adapter performs.
	sessions *SessionStore
}

// NewMessageStore creates an empty message store bound to its session store.
func NewMessageStore(sessions *SessionStore) *MessageStore {
	return &MessageStore{nextID: 1, messages: make(map[int64]*models.ChatMessage), sessions: sessions}
}

func (s *MessageStore) Append(ctx context.Context, message *models.ChatMessage) error {
	if s.sessions != nil {
		if _, err := s.sessions.GetByID(ctx, message.SessionID); err != nil {
			return errors.NotFound("session")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	message.ID = s.nextID
	s.nextID++
	cp := *message
	s.messages[message.ID] = &cp
	return nil
}

func (s *MessageStore) ListBySession(ctx context.Context, sessionID int64) ([]*models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ChatMessage
	for _, m := range s.messages {
		if m.SessionID != sessionID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sortMessages(out)
	return out, nil
}

func (s *MessageStore) CountUserMessagesInWindow(ctx context.Context, userID int64, start, end time.Time) (int64, error) {
	owned := s.sessionIDsForUser(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, m := range s.messages {
		if !m.IsUserMessage || !owned[m.SessionID] {
			continue
		}
		if m.Timestamp.Before(start) || m.Timestamp.After(end) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *MessageStore) CountPerUserInWindow(ctx context.Context, start, end time.Time) ([]models.UsageRow, error) {
	owners := s.sessionOwners()
	s.mu.RLock()
	counts := make(map[int64]int64)
	for _, m := range s.messages {
		if !m.IsUserMessage || m.Timestamp.Before(start) || m.Timestamp.After(end) {
			continue
		}
		if userID, ok := owners[m.SessionID]; ok {
			counts[userID]++
		}
	}
	s.mu.RUnlock()

	rows := make([]models.UsageRow, 0, len(counts))
	for userID, n := range counts {
		rows = append(rows, models.UsageRow{UserID: userID, Messages: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows, nil
}

func (s *MessageStore) deleteBySessions(sessionIDs []int64) {
	drop := make(map[int64]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		drop[id] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.messages {
		if drop[m.SessionID] {
			delete(s.messages, id)
		}
	}
}

func (s *MessageStore) sessionIDsForUser(userID int64) map[int64]bool {
	owned := make(map[int64]bool)
	if s.sessions == nil {
		return owned
	}
	s.sessions.mu.RLock()
	defer s.sessions.mu.RUnlock()
	for id, sess := range s.sessions.sessions {
		if sess.UserID == userID {
			owned[id] = true
		}
	}
	return owned
}

func (s *MessageStore) sessionOwners() map[int64]int64 {
	owners := make(map[int64]int64)
	if s.sessions == nil {
		return owners
	}
	s.sessions.mu.RLock()
	defer s.sessions.mu.RUnlock()
	for id, sess := range s.sessions.sessions {
		owners[id] = sess.UserID
	}
	return owners
}

func sortMessages(messages []*models.ChatMessage) {
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}
