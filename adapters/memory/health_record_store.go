package memory

import (
	"context"
	"sort"
	"sync"

	"healthmini/models"
)

// HealthRecordStore is an in-memory HealthRecordRepository.
type HealthRecordStore struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]*models.HealthRecord
}

// NewHealthRecordStore creates an empty health record store.
func NewHealthRecordStore() *HealthRecordStore {
	return &HealthRecordStore{nextID: 1, records: make(map[int64]*models.HealthRecord)}
}

func (s *HealthRecordStore) Create(ctx context.Context, record *models.HealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = s.nextID
	s.nextID++
	cp := *record
	s.records[record.ID] = &cp
	return nil
}

func (s *HealthRecordStore) ListByUser(ctx context.Context, userID int64) ([]*models.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.HealthRecord
	for _, r := range s.records {
		if r.UserID != userID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *HealthRecordStore) deleteByUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.records {
		if r.UserID == userID {
			delete(s.records, id)
		}
	}
}
