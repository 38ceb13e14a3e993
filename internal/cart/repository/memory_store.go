package repository

import (
	"context"
	"sync"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	"github.com/allisson/cartkeeper/internal/cart/usecase"
)

// MemoryStore is an in-memory Store implementation for tests and local runs.
// Records are deep-copied on the way in and out so callers never share state
// with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*domain.CartActivityRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*domain.CartActivityRecord),
	}
}

var _ usecase.Store = (*MemoryStore)(nil)

// Upsert writes the full record under its email key.
func (s *MemoryStore) Upsert(_ context.Context, record *domain.CartActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.Email] = record.Clone()
	return nil
}

// Get performs a point lookup by email.
func (s *MemoryStore) Get(_ context.Context, email string) (*domain.CartActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[email]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return record.Clone(), nil
}

// ListActive enumerates records whose status is non-terminal.
func (s *MemoryStore) ListActive(_ context.Context) ([]*domain.CartActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.CartActivityRecord, 0, len(s.records))
	for _, record := range s.records {
		if record.IsTerminal() {
			continue
		}
		records = append(records, record.Clone())
	}
	return records, nil
}

// ListAll enumerates every record, terminal included.
func (s *MemoryStore) ListAll(_ context.Context) ([]*domain.CartActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.CartActivityRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record.Clone())
	}
	return records, nil
}

// Delete removes the record. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, email)
	return nil
}
