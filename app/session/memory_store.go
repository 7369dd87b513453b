package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryStore keeps encoded sessions in process memory.
// Records are stored encoded, so loaded sessions are always copies.
// Expired records are swept in the background.
type MemoryStore struct {
	records *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return newMemoryStore(memoryCleanupInterval)
}

func newMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		records: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	v, ok := s.records.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal(v.([]byte), &sess); err != nil {
		return nil, err
	}
	sess.ID = id
	return &sess, nil
}

func (s *MemoryStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	s.records.Set(sess.ID, data, ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.records.Delete(id)
	return nil
}

// Len returns the number of stored records, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	return s.records.ItemCount()
}
