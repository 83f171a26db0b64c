package session

import (
	"context"
	"time"

	ttlworker "github.com/FloatTech/ttl"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory, expiring them after the TTL.
// Values are copied in and out so concurrent requests never share a draft.
type MemoryStore struct {
	sessions *ttlworker.Cache[string, *Data]
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{sessions: ttlworker.NewCache[string, *Data](ttl)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Data, error) {
	return s.sessions.Get(id).Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, id string, data *Data) error {
	s.sessions.Set(id, data.Clone())
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.sessions.Delete(id)
	return nil
}
