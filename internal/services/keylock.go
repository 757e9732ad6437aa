package services

import (
	"context"
	"sync"
)

// keyLock is a set of mutexes keyed by K whose Acquire honours ctx. Entries
// exist only while some caller holds or waits for them.
type keyLock[K comparable] struct {
	mu sync.Mutex
	m  map[K]*keySlot
}

type keySlot struct {
	ch   chan struct{}
	refs int
}

func newKeyLock[K comparable]() *keyLock[K] {
	return &keyLock[K]{m: make(map[K]*keySlot)}
}

// Acquire blocks until k is free or ctx is done. The returned func releases k
// and must be called exactly once.
func (l *keyLock[K]) Acquire(ctx context.Context, k K) (func(), error) {
	l.mu.Lock()
	s, ok := l.m[k]
	if !ok {
		s = &keySlot{ch: make(chan struct{}, 1)}
		l.m[k] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.drop(k, s)
			})
		}, nil
	case <-ctx.Done():
		l.drop(k, s)
		return nil, ctx.Err()
	}
}

func (l *keyLock[K]) drop(k K, s *keySlot) {
	l.mu.Lock()
	s.refs--
	if s.refs == 0 {
		delete(l.m, k)
	}
	l.mu.Unlock()
}

// size reports how many keys are held or awaited.
func (l *keyLock[K]) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
