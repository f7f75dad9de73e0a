package domain

// CartItem is one line in the cart. Price is captured when the line is
// created and never changes afterwards, even if the catalog price moves.
type CartItem struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Cart is a derived view over the line list. It is rebuilt on every read and
// never mutated directly; Total and ItemCount are always recomputed.
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}

// BuildCart derives the aggregate view from a line list.
func BuildCart(items []CartItem) Cart {
	c := Cart{Items: items}
	for _, it := range items {
		c.Total += it.Price * float64(it.Quantity)
		c.ItemCount += it.Quantity
	}
	return c
}
