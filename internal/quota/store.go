package quota

import (
	"context"
	"sync"
)

// Store is the durable per-identity usage counter. Counters are only ever
// incremented or reset, never decremented.
type Store interface {
	// Usage returns the words consumed so far by identity.
	Usage(ctx context.Context, identity string) (int, error)
	// AddUsage atomically adds words to the identity's counter and returns
	// the new total.
	AddUsage(ctx context.Context, identity string, words int) (int, error)
	// Reset zeroes the counter. Used on account re-registration.
	Reset(ctx context.Context, identity string) error
	Ping(ctx context.Context) error
	Close() error
}

// MemoryStore keeps counters in process memory. It backs tests and the
// storeless deployment mode, where usage is additionally client-reported.
type MemoryStore struct {
	mu   sync.Mutex
	used map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{used: make(map[string]int)}
}

func (s *MemoryStore) Usage(_ context.Context, identity string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used[identity], nil
}

func (s *MemoryStore) AddUsage(_ context.Context, identity string, words int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used[identity] += words
	return s.used[identity], nil
}

func (s *MemoryStore) Reset(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.used, identity)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
