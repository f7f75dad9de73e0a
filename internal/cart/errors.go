package cart

import "errors"

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")

	// ErrNoSavedCart is returned by Persistence.Load when nothing usable is
	// stored under the key. Corrupt blobs map to this too: a cart that cannot
	// be decoded is treated as absent, never as a failure.
	ErrNoSavedCart = errors.New("no saved cart")
)
