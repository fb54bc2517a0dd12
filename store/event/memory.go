package event

import (
	"context"
	"sync"
	"time"

	"evault/core"
)

type memoryStore struct {
	mu     sync.RWMutex
	events []*core.Event
}

// Memory event store kept in process, for simulations and tests
func Memory() core.IEventStore {
	return &memoryStore{}
}

func (s *memoryStore) Create(_ context.Context, events []*core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, e := range events {
		e.ID = int64(len(s.events) + 1)
		e.CreatedAt = now
		s.events = append(s.events, e)
	}

	return nil
}

func (s *memoryStore) list(fromID int64, limit int, match func(e *core.Event) bool) []*core.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []*core.Event
	for _, e := range s.events {
		if e.ID <= fromID || !match(e) {
			continue
		}

		events = append(events, e)
		if limit > 0 && len(events) >= limit {
			break
		}
	}

	return events
}

func (s *memoryStore) ListByVault(_ context.Context, vault string, fromID int64, limit int) ([]*core.Event, error) {
	return s.list(fromID, limit, func(e *core.Event) bool {
		return e.Vault == vault
	}), nil
}

func (s *memoryStore) ListByAccount(_ context.Context, account string, fromID int64, limit int) ([]*core.Event, error) {
	return s.list(fromID, limit, func(e *core.Event) bool {
		return e.Account == account || e.Counterparty == account
	}), nil
}
