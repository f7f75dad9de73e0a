// Package pricing derives order totals from cart contents and configured
// jurisdiction rules. Price is a pure function of its inputs: the same cart
// and config always produce the same quote, so displayed totals and
// submitted-order totals cannot diverge.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

// Config holds the storefront's pricing constants.
type Config struct {
	FreeShippingThreshold float64 `koanf:"free_shipping_threshold"`
	FlatShippingFee       float64 `koanf:"flat_shipping_fee"`
	TaxRate               float64 `koanf:"tax_rate"`
}

// Quote is the priced breakdown of a cart. Amounts are decimals so the tax
// multiplication stays exact; line prices remain float64 in the domain.
type Quote struct {
	Subtotal   decimal.Decimal
	Shipping   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

// Breakdown is the JSON-facing view of a Quote.
type Breakdown struct {
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
}

// Breakdown converts the quote to its float64 view.
func (q Quote) Breakdown() Breakdown {
	return Breakdown{
		Subtotal:   q.Subtotal.InexactFloat64(),
		Shipping:   q.Shipping.InexactFloat64(),
		Tax:        q.Tax.InexactFloat64(),
		GrandTotal: q.GrandTotal.InexactFloat64(),
	}
}

// Price computes the quote for the given lines. Shipping is the flat fee
// unless the subtotal strictly exceeds the free-shipping threshold; an empty
// cart prices to all zeros, shipping included.
func Price(items []domain.CartItem, cfg Config) Quote {
	subtotal := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
	}

	shipping := decimal.Zero
	if len(items) > 0 && !subtotal.GreaterThan(decimal.NewFromFloat(cfg.FreeShippingThreshold)) {
		shipping = decimal.NewFromFloat(cfg.FlatShippingFee)
	}

	tax := subtotal.Mul(decimal.NewFromFloat(cfg.TaxRate))

	return Quote{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: subtotal.Add(shipping).Add(tax),
	}
}
