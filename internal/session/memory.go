package session

import (
	"context"
	"sync"
	"time"

	"wedhub/internal/models"
)

// MemoryStore keeps sessions in process memory. It backs tests and serves
// as the failover target when Redis is down.
type MemoryStore struct {
	sessions sync.Map
	ttl      time.Duration

	rlMu       sync.Mutex
	rateLimits map[string]*rateLimitEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:        ttl,
		rateLimits: make(map[string]*rateLimitEntry),
	}
}

type memoryEntry struct {
	session   *models.Session
	expiresAt time.Time
}

func (s *MemoryStore) Get(ctx context.Context, actorID string) (*models.Session, error) {
	val, ok := s.sessions.Load(actorID)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if s.ttl > 0 && time.Now().After(entry.expiresAt) {
		s.sessions.Delete(actorID)
		return nil, nil
	}
	return entry.session, nil
}

func (s *MemoryStore) Set(ctx context.Context, sess *models.Session) error {
	s.sessions.Store(sess.ActorID, &memoryEntry{
		session:   sess,
		expiresAt: time.Now().Add(s.ttl),
	})
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, actorID string) error {
	s.sessions.Delete(actorID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// CheckRateLimit counts a request against the actor's current window. The
// whole read-modify-write runs under one lock so concurrent requests for
// the same actor never lose increments.
func (s *MemoryStore) CheckRateLimit(ctx context.Context, actorID string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	s.rlMu.Lock()
	defer s.rlMu.Unlock()

	entry, ok := s.rateLimits[actorID]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{expiresAt: now.Add(window)}
		s.rateLimits[actorID] = entry
	}
	entry.count++

	return entry.count <= limit, nil
}
