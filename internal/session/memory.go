package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryRepository keeps sessions in process memory. Sessions idle for
// longer than the TTL are dropped on the next write.
type MemoryRepository struct {
	ttl  time.Duration
	now  func() time.Time
	mu   sync.RWMutex
	data map[string][]byte
	seen map[string]time.Time
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string][]byte),
		seen: make(map[string]time.Time),
	}
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Session, error) {
	r.mu.RLock()
	data, ok := r.data[id]
	seen := r.seen[id]
	r.mu.RUnlock()
	if !ok || r.expired(seen) {
		return nil, ErrNotFound
	}
	// Sessions are stored encoded so callers never share state.
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MemoryRepository) Put(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.ID] = data
	r.seen[s.ID] = r.now()
	r.evictLocked()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	delete(r.seen, id)
	return nil
}

// Len is the number of stored sessions, expired ones included.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

func (r *MemoryRepository) expired(seen time.Time) bool {
	return r.ttl > 0 && r.now().Sub(seen) > r.ttl
}

func (r *MemoryRepository) evictLocked() {
	for id, seen := range r.seen {
		if r.expired(seen) {
			delete(r.data, id)
			delete(r.seen, id)
		}
	}
}
