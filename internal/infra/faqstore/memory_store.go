package faqstore

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

const (
	// DefaultMaxEntries bounds the memory cache when no limit is configured.
	DefaultMaxEntries = 10000
	sweepInterval     = time.Minute
)

type vectorRecord struct {
	vector    []float32
	expiresAt time.Time
	elem      *list.Element
}

// MemoryStore is an in-process query embedding cache. Expired entries are
// swept on save and the oldest entries are evicted beyond maxEntries.
type MemoryStore struct {
	mu         sync.Mutex
	vectors    map[string]*vectorRecord
	order      *list.List
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

// NewMemoryStore constructs a cache holding at most DefaultMaxEntries vectors.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithLimit(DefaultMaxEntries)
}

// NewMemoryStoreWithLimit constructs a cache holding at most maxEntries
// vectors. A non-positive limit falls back to DefaultMaxEntries.
func NewMemoryStoreWithLimit(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		vectors:    make(map[string]*vectorRecord),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// GetVector implements faq.VectorCache.
func (s *MemoryStore) GetVector(_ context.Context, key string) ([]float32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.vectors[key]
	if !ok {
		return nil, false, nil
	}
	if s.hasExpired(record.expiresAt, s.now()) {
		s.removeLocked(key, record)
		return nil, false, nil
	}
	return append([]float32(nil), record.vector...), true, nil
}

// SaveVector caches the vector with optional TTL.
func (s *MemoryStore) SaveVector(_ context.Context, key string, vector []float32, ttl time.Duration) error {
	now := s.now()
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweepLocked(now)
		s.lastSweep = now
	}

	vec := append([]float32(nil), vector...)
	if record, ok := s.vectors[key]; ok {
		record.vector = vec
		record.expiresAt = exp
		s.order.MoveToBack(record.elem)
		return nil
	}
	s.vectors[key] = &vectorRecord{
		vector:    vec,
		expiresAt: exp,
		elem:      s.order.PushBack(key),
	}
	for len(s.vectors) > s.maxEntries {
		oldest := s.order.Front()
		oldestKey := oldest.Value.(string)
		s.removeLocked(oldestKey, s.vectors[oldestKey])
	}
	return nil
}

// Len reports how many vectors are held. Expired entries not yet swept are
// included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.vectors)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for e := s.order.Front(); e != nil; {
		next := e.Next()
		key := e.Value.(string)
		if record := s.vectors[key]; s.hasExpired(record.expiresAt, now) {
			s.removeLocked(key, record)
		}
		e = next
	}
}

func (s *MemoryStore) removeLocked(key string, record *vectorRecord) {
	s.order.Remove(record.elem)
	delete(s.vectors, key)
}

func (s *MemoryStore) hasExpired(ts, now time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(now)
}

var _ faq.VectorCache = (*MemoryStore)(nil)
