// Package memory implements the repository ports with mutex-guarded maps.
// It backs the service tests and the no-database dev mode; semantics mirror
// the postgres adapters, including error codes and cascade deletes.
package memory

import (
	"context"
	"sort"
	"sync"

	"healthmini/internal/errors"
	"healthmini/models"
)

// UserStore is an in-memory UserRepository.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*models.User

	// cascade targets, optional
	sessions *SessionStore
	records  *HealthRecordStore
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{nextID: 1, users: make(map[int64]*models.User)}
}

// WithCascade registers the stores a user deletion cascades into.
func (s *UserStore) WithCascade(sessions *SessionStore, records *HealthRecordStore) *UserStore {
	s.sessions = sessions
	s.records = records
	return s
}

func (s *UserStore) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, errors.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NotFound("user")
}

func (s *UserStore) GetByEmailOrPhone(ctx context.Context, identifier string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.User
	for _, u := range s.users {
		if u.Email == identifier || u.PhoneNumber == identifier {
			if found == nil || u.ID < found.ID {
				found = u
			}
		}
	}
	if found == nil {
		return nil, errors.NotFound("user")
	}
	cp := *found
	return &cp, nil
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return errors.Conflict("user already exists")
		}
	}
	user.ID = s.nextID
	s.nextID++
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return errors.NotFound("user")
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *UserStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	if _, ok := s.users[userID]; !ok {
		s.mu.Unlock()
		return errors.NotFound("user")
	}
	delete(s.users, userID)
	s.mu.Unlock()

	if s.sessions != nil {
		s.sessions.deleteByUser(userID)
	}
	if s.records != nil {
		s.records.deleteByUser(userID)
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
