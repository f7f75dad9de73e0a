package domain

import "time"

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	PaymentMpesa          PaymentMethod = "mpesa"
	PaymentCard           PaymentMethod = "card"
	PaymentCashOnDelivery PaymentMethod = "cod"
)

// Valid reports whether the method is one the storefront accepts.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMpesa, PaymentCard, PaymentCashOnDelivery:
		return true
	}
	return false
}

// ShippingAddress is the delivery destination collected at checkout.
type ShippingAddress struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	County     string `json:"county"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderItem is a cart line flattened into the order-creation contract.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is the backend-owned order record as returned by the order
// collaborator, used for the post-checkout confirmation screen.
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Subtotal        float64         `json:"subtotal"`
	Shipping        float64         `json:"shipping"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}
