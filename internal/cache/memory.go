package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pos-service/internal/model"
)

// MemoryStore is an in-process Store. It backs tests and serves as a degraded
// mode when Redis is unreachable at startup: reads and the pending queue keep
// working, durability is lost until the process exits.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[model.Collection][]json.RawMessage
	pending   []model.SaleRecord
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[model.Collection][]json.RawMessage),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, col model.Collection, filters Filters) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.snapshots[col]
	if !ok {
		return []json.RawMessage{}, nil
	}
	return applyFilters(records, filters), nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, col model.Collection, records any) error {
	raws, err := encodeSnapshot(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[col] = raws
	return nil
}

// Invalidate implements Store.
func (s *MemoryStore) Invalidate(_ context.Context, col model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, col)
	return nil
}

// EnqueuePending implements Store.
func (s *MemoryStore) EnqueuePending(_ context.Context, rec model.SaleRecord) error {
	// Round-trip through JSON so the queued copy is as detached from the
	// caller as the Redis implementation's copy.
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal pending sale: %w", err)
	}
	var stored model.SaleRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("decode pending sale: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, stored)
	return nil
}

// PeekPending implements Store.
func (s *MemoryStore) PeekPending(_ context.Context) (*model.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil, nil
	}
	head := s.pending[0]
	return &head, nil
}

// DropPending implements Store.
func (s *MemoryStore) DropPending(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) > 0 {
		s.pending = s.pending[1:]
	}
	return nil
}

// PendingCount implements Store.
func (s *MemoryStore) PendingCount(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.pending)), nil
}
