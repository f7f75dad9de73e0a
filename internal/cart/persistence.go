package cart

import (
	"context"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

// Persistence stores the full line list under a session key. Every mutation
// writes the whole list (latest wins); totals are never persisted.
//
// The store defines this interface; Redis, file and in-memory implementations
// satisfy it.
type Persistence interface {
	// Load returns the stored line list, or ErrNoSavedCart when the key is
	// absent or the stored blob cannot be decoded.
	Load(ctx context.Context, key string) ([]domain.CartItem, error)
	Save(ctx context.Context, key string, items []domain.CartItem) error
	Delete(ctx context.Context, key string) error
}
