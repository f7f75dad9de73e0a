package cart

import (
	"context"
	"sync"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

// MemoryPersistence keeps carts in process memory only. Used in tests and
// when the storefront runs without a configured state dir or Redis.
type MemoryPersistence struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{carts: make(map[string][]domain.CartItem)}
}

func (m *MemoryPersistence) Load(_ context.Context, key string) ([]domain.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items, ok := m.carts[key]
	if !ok {
		return nil, ErrNoSavedCart
	}
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *MemoryPersistence) Save(_ context.Context, key string, items []domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]domain.CartItem, len(items))
	copy(stored, items)
	m.carts[key] = stored
	return nil
}

func (m *MemoryPersistence) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, key)
	return nil
}
