package domain

import "encoding/json"

type stockKind int

const (
	stockUnknown stockKind = iota
	stockQuantity
	stockDetailed
)

// Stock describes the available quantity of a product. The catalog exposes it
// either as a bare number or as an object with a low-stock threshold; both
// forms funnel through the same accessors here so consumers never branch on
// the wire shape.
type Stock struct {
	kind      stockKind
	quantity  int
	threshold int
}

// StockUnknown returns a stock descriptor with no availability information.
func StockUnknown() Stock {
	return Stock{kind: stockUnknown}
}

// StockQuantity returns a bare-quantity stock descriptor.
// Negative quantities are clamped to zero.
func StockQuantity(quantity int) Stock {
	if quantity < 0 {
		quantity = 0
	}
	return Stock{kind: stockQuantity, quantity: quantity}
}

// StockDetailed returns a stock descriptor carrying a low-stock threshold.
func StockDetailed(quantity, lowStockThreshold int) Stock {
	if quantity < 0 {
		quantity = 0
	}
	return Stock{kind: stockDetailed, quantity: quantity, threshold: lowStockThreshold}
}

// Known reports whether any quantity information is available.
func (s Stock) Known() bool {
	return s.kind != stockUnknown
}

// Quantity returns the available quantity and whether it is known.
func (s Stock) Quantity() (int, bool) {
	if s.kind == stockUnknown {
		return 0, false
	}
	return s.quantity, true
}

// OutOfStock reports a known quantity of zero. Unknown stock is never
// considered out of stock.
func (s Stock) OutOfStock() bool {
	return s.kind != stockUnknown && s.quantity == 0
}

// Low reports whether the quantity has dropped to the low-stock threshold.
// Only the detailed form carries a threshold.
func (s Stock) Low() bool {
	return s.kind == stockDetailed && s.quantity > 0 && s.quantity <= s.threshold
}

type stockJSON struct {
	Quantity          int  `json:"quantity"`
	LowStockThreshold *int `json:"low_stock_threshold,omitempty"`
}

// MarshalJSON writes the same shapes the catalog uses: null for unknown,
// a bare number for the plain form, an object for the detailed form.
func (s Stock) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case stockQuantity:
		return json.Marshal(s.quantity)
	case stockDetailed:
		t := s.threshold
		return json.Marshal(stockJSON{Quantity: s.quantity, LowStockThreshold: &t})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, a bare number, or {quantity, low_stock_threshold}.
func (s *Stock) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = StockUnknown()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = StockQuantity(n)
		return nil
	}
	var obj stockJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.LowStockThreshold != nil {
		*s = StockDetailed(obj.Quantity, *obj.LowStockThreshold)
	} else {
		*s = StockQuantity(obj.Quantity)
	}
	return nil
}
