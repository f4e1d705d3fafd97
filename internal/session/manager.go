package session

import (
	"context"
	"sync"
)

// Manager serializes work per msisdn so that replies to one user go out in
// order while different users proceed in parallel. An entry lives only while
// some caller holds or waits for it.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

func NewManager() *Manager {
	return &Manager{locks: make(map[string]*entry)}
}

// Do runs fn while holding the lock for msisdn. It returns ctx.Err() if the
// context ends before the lock is acquired.
func (m *Manager) Do(ctx context.Context, msisdn string, fn func(ctx context.Context) error) error {
	e := m.acquire(msisdn)
	defer m.release(msisdn, e)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-e.sem }()

	return fn(ctx)
}

// Len returns the number of msisdns currently held or awaited.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func (m *Manager) acquire(msisdn string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.locks[msisdn]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		m.locks[msisdn] = e
	}
	e.refs++
	return e
}

func (m *Manager) release(msisdn string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(m.locks, msisdn)
	}
}
