package dedupstore

import (
	"context"
	"sync"
	"time"

	"github.com/mduarte/zapatende/internal/domain/chatbot"
	"github.com/mduarte/zapatende/pkg/util"
)

// MemoryStore is an in-process chatbot.DedupStore for tests/dev runs
// without Valkey. Expired entries are swept lazily on each call.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]time.Time)}
}

// MarkProcessed implements chatbot.DedupStore.
func (s *MemoryStore) MarkProcessed(_ context.Context, messageID string, ttl time.Duration) (bool, error) {
	if messageID == "" {
		return true, nil
	}
	now := util.NowUTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, expiry := range s.seen {
		if now.After(expiry) {
			delete(s.seen, id)
		}
	}
	if expiry, ok := s.seen[messageID]; ok && now.Before(expiry) {
		return false, nil
	}
	s.seen[messageID] = now.Add(ttl)
	return true, nil
}

var _ chatbot.DedupStore = (*MemoryStore)(nil)
