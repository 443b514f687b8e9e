package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage implements Storage in process memory. Expired records are
// ignored on read and reclaimed by Sweep.
type MemoryStorage struct {
	mu      sync.Mutex
	records map[string]*Record
	now     func() time.Time
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

// Load retrieves a record by key
func (s *MemoryStorage) Load(ctx context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[key]
	if !ok || !s.now().Before(r.ExpiresAt) {
		return nil, nil
	}

	// Return a copy to prevent external modifications
	out := *r
	return &out, nil
}

// TryMarkProcessing atomically claims a key
func (s *MemoryStorage) TryMarkProcessing(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if r, ok := s.records[key]; ok && now.Before(r.ExpiresAt) {
		return false, nil
	}

	s.records[key] = &Record{
		Key:       key,
		Status:    StatusProcessing,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return true, nil
}

// SaveResult saves the successful result
func (s *MemoryStorage) SaveResult(ctx context.Context, key string, result []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	created := now
	if r, ok := s.records[key]; ok {
		created = r.CreatedAt
	}

	s.records[key] = &Record{
		Key:       key,
		Status:    StatusCompleted,
		Result:    result,
		CreatedAt: created,
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

// Release removes a claim
func (s *MemoryStorage) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

// Sweep removes records expired at now and returns how many were removed
func (s *MemoryStorage) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, r := range s.records {
		if !now.Before(r.ExpiresAt) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored records, expired or not
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
