package pending

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process pending booking store with lazy expiry.
// Used when Redis is not configured and in tests, where the injected clock
// makes the TTL deterministic. Correctness never depends on a sweeper: an
// expired entry is treated as gone the moment it is read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Booking
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory pending booking store.
// A nil clock defaults to time.Now.
func NewMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		entries: make(map[string]*Booking),
		ttl:     ttl,
		now:     now,
	}
}

func (s *MemoryStore) TTL() time.Duration {
	return s.ttl
}

func (s *MemoryStore) Store(_ context.Context, booking *Booking) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking.ID = uuid.NewString()
	booking.CreatedAt = s.now().UTC()

	copied := *booking
	s.entries[booking.ID] = &copied
	return booking.ID, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookupLocked(id)
	if !ok {
		return nil, ErrNotFound
	}

	copied := *entry
	return &copied, nil
}

// Claim removes and returns the entry under one lock acquisition, so
// concurrent claims for the same id resolve to a single winner.
func (s *MemoryStore) Claim(_ context.Context, id string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookupLocked(id)
	if !ok {
		return nil, ErrNotFound
	}

	delete(s.entries, id)
	copied := *entry
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// lookupLocked returns a live entry, dropping it if the TTL has elapsed.
// Callers must hold s.mu.
func (s *MemoryStore) lookupLocked(id string) (*Booking, bool) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}

	if s.now().Sub(entry.CreatedAt) > s.ttl {
		delete(s.entries, id)
		return nil, false
	}

	return entry, true
}
