package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/observability"
)

type entry[V any] struct {
	v   V
	exp time.Time
}

// Memory is a process-local Store. Expired entries are dropped on read and
// swept opportunistically every gcEvery writes.
type Memory[V any] struct {
	mu      sync.Mutex
	items   map[Key]entry[V]
	ttl     time.Duration
	now     func() time.Time
	writes  uint64
	gcEvery uint64
}

// NewMemory returns an empty Memory store with default ttl.
func NewMemory[V any](ttl time.Duration) *Memory[V] {
	return &Memory[V]{
		items:   make(map[Key]entry[V]),
		ttl:     ttl,
		now:     time.Now,
		gcEvery: 1024,
	}
}

func (m *Memory[V]) Get(_ context.Context, key Key) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if ok && !m.now().Before(e.exp) {
		delete(m.items, key)
		ok = false
	}
	observability.CountCacheLookup(ok)
	if !ok {
		var zero V
		return zero, false
	}
	return e.v, true
}

func (m *Memory[V]) Set(_ context.Context, key Key, v V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.writes >= m.gcEvery {
		for k, e := range m.items {
			if !now.Before(e.exp) {
				delete(m.items, k)
			}
		}
		m.writes = 0
	}
	m.items[key] = entry[V]{v: v, exp: now.Add(ttl)}
}

func (m *Memory[V]) Invalidate(_ context.Context, key Key) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

func (m *Memory[V]) InvalidateUser(_ context.Context, user domain.RecordID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if k.UserID == user {
			delete(m.items, k)
		}
	}
}

func (m *Memory[V]) Purge(context.Context) {
	m.mu.Lock()
	clear(m.items)
	m.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
