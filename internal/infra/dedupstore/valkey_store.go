// Package dedupstore tracks which webhook message IDs were already
// processed so retried deliveries do not produce duplicate replies.
package dedupstore

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/mduarte/zapatende/internal/domain/chatbot"
)

// ValkeyStore marks processed message IDs with SET NX plus a TTL, so the
// dedup window survives restarts and is shared across instances.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "wamsg"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// MarkProcessed claims a message ID. It returns true when this call was the
// first to see the ID within the TTL window.
func (s *ValkeyStore) MarkProcessed(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	if messageID == "" {
		return true, nil
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	cmd := s.client.B().Set().Key(s.key(messageID)).Value("1").Nx().Ex(ttl).Build()
	result := s.client.Do(ctx, cmd)
	if _, err := result.ToString(); err != nil {
		if valkey.IsValkeyNil(err) {
			// SET NX replied nil: the key already existed.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ValkeyStore) key(messageID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, messageID)
}

var _ chatbot.DedupStore = (*ValkeyStore)(nil)
