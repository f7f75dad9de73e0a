package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Manager hands out one Store per client session, rehydrating from
// persistence on first touch.
type Manager struct {
	mu      sync.RWMutex
	stores  map[string]*Store
	persist Persistence
	log     *zap.Logger
}

func NewManager(persist Persistence, log *zap.Logger) *Manager {
	return &Manager{
		stores:  make(map[string]*Store),
		persist: persist,
		log:     log,
	}
}

// Store returns the session's cart store, creating it on first use.
func (m *Manager) Store(ctx context.Context, session string) *Store {
	m.mu.RLock()
	s, ok := m.stores[session]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[session]; ok {
		return s
	}
	s = NewStore(ctx, session, m.persist, m.log)
	m.stores[session] = s
	return s
}
