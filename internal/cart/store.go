package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

// Store holds the canonical ordered line list for one client session. All
// writes funnel through the four mutating operations; reads get derived
// snapshots. Mutations are validate-then-apply: a failed stock check leaves
// both memory and storage untouched.
//
// The store persists on every successful mutation. Storage failures are
// logged and swallowed; the in-memory state stays authoritative for the
// session and never blocks on a broken persistence layer.
type Store struct {
	mu      sync.RWMutex
	key     string
	items   []domain.CartItem
	persist Persistence
	log     *zap.Logger
}

// NewStore rehydrates the session's cart from persistence. A missing or
// corrupt blob starts an empty cart; a failing persistence layer is logged
// and also starts empty.
func NewStore(ctx context.Context, key string, persist Persistence, log *zap.Logger) *Store {
	s := &Store{key: key, persist: persist, log: log}

	items, err := persist.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNoSavedCart) {
			log.Warn("cart load failed, starting empty",
				zap.String("cart_key", key), zap.Error(err))
		}
		return s
	}
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		s.items = append(s.items, it)
	}
	return s
}

// AddItem merges quantity into an existing line for the product, or appends
// a new line with a fresh synthetic id and the price captured now. When the
// product's stock quantity is known and the resulting merged quantity would
// exceed it, the operation fails with ErrInsufficientStock and nothing is
// applied.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(product.ID)
	resulting := quantity
	if idx >= 0 {
		resulting += s.items[idx].Quantity
	}
	if available, known := product.Stock.Quantity(); known && resulting > available {
		return ErrInsufficientStock
	}

	if idx >= 0 {
		// Existing line keeps its captured price and product snapshot.
		s.items[idx].Quantity = resulting
	} else {
		s.items = append(s.items, domain.CartItem{
			ID:       uuid.NewString(),
			Product:  product,
			Quantity: quantity,
			Price:    product.Price,
		})
	}

	s.saveLocked(ctx)
	return nil
}

// UpdateQuantity sets the line's quantity to the exact value. A quantity of
// zero or less removes the line. The same stock guard as AddItem applies,
// against the snapshot captured when the line was added.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return nil
	}
	if quantity <= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		s.saveLocked(ctx)
		return nil
	}
	if available, known := s.items[idx].Product.Stock.Quantity(); known && quantity > available {
		return ErrInsufficientStock
	}

	s.items[idx].Quantity = quantity
	s.saveLocked(ctx)
	return nil
}

// RemoveItem drops the line for the product. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.saveLocked(ctx)
}

// Clear empties the cart and deletes the stored blob.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.persist.Delete(ctx, s.key); err != nil {
		s.log.Warn("cart delete failed, keeping in-memory state",
			zap.String("cart_key", s.key), zap.Error(err))
	}
}

// IsInCart reports whether a line exists for the product.
func (s *Store) IsInCart(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(productID) >= 0
}

// ItemQuantity returns the line's quantity, or 0 when absent.
func (s *Store) ItemQuantity(productID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(productID); idx >= 0 {
		return s.items[idx].Quantity
	}
	return 0
}

// Items returns a copy of the line list in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Cart returns the derived aggregate view.
func (s *Store) Cart() domain.Cart {
	return domain.BuildCart(s.Items())
}

func (s *Store) indexOf(productID int64) int {
	for i, it := range s.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked(ctx context.Context) {
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	if err := s.persist.Save(ctx, s.key, items); err != nil {
		s.log.Warn("cart save failed, keeping in-memory state",
			zap.String("cart_key", s.key), zap.Error(err))
	}
}
