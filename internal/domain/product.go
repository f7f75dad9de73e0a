package domain

// Product is a denormalized snapshot of a catalog item. The remote catalog
// owns the live record; the cart captures this snapshot at add-time.
type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Category      string   `json:"category,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Stock         Stock    `json:"stock"`
}

// OnSale reports whether the product carries a discounted price.
func (p Product) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}
