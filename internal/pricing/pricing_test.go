package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

var testConfig = Config{
	FreeShippingThreshold: 50,
	FlatShippingFee:       5.99,
	TaxRate:               0.16,
}

func line(id int64, price float64, qty int) domain.CartItem {
	return domain.CartItem{
		ID:       "line",
		Product:  domain.Product{ID: id, Price: price},
		Quantity: qty,
		Price:    price,
	}
}

func TestPrice_EmptyCartIsAllZero(t *testing.T) {
	q := Price(nil, testConfig)

	assert.True(t, q.Subtotal.IsZero())
	assert.True(t, q.Shipping.IsZero(), "empty cart must not be charged shipping")
	assert.True(t, q.Tax.IsZero())
	assert.True(t, q.GrandTotal.IsZero())
}

func TestPrice_CheckoutScenario(t *testing.T) {
	items := []domain.CartItem{
		line(7, 24.99, 2),
		line(9, 10.00, 1),
	}

	q := Price(items, testConfig)

	assert.Equal(t, "59.98", q.Subtotal.String())
	assert.True(t, q.Shipping.IsZero())
	assert.Equal(t, "9.5968", q.Tax.String())
	assert.Equal(t, "69.5768", q.GrandTotal.String())
}

func TestPrice_FreeShippingBoundaryIsStrict(t *testing.T) {
	// Exactly at the threshold still pays the flat fee.
	at := Price([]domain.CartItem{line(1, 25.00, 2)}, testConfig)
	assert.Equal(t, "5.99", at.Shipping.String())

	// One cent over ships free.
	over := Price([]domain.CartItem{line(1, 50.01, 1)}, testConfig)
	assert.True(t, over.Shipping.IsZero())
}

func TestPrice_BelowThresholdAddsFlatFee(t *testing.T) {
	q := Price([]domain.CartItem{line(1, 10.00, 1)}, testConfig)

	assert.Equal(t, "10", q.Subtotal.String())
	assert.Equal(t, "5.99", q.Shipping.String())
	assert.Equal(t, "1.6", q.Tax.String())
	assert.Equal(t, "17.59", q.GrandTotal.String())
}

func TestPrice_Idempotent(t *testing.T) {
	items := []domain.CartItem{
		line(7, 24.99, 2),
		line(9, 10.00, 1),
	}

	first := Price(items, testConfig)
	second := Price(items, testConfig)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Shipping.Equal(second.Shipping))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
}

func TestPrice_SubtotalMatchesDerivedCartTotal(t *testing.T) {
	items := []domain.CartItem{
		line(7, 24.99, 2),
		line(9, 10.00, 3),
		line(3, 7.50, 1),
	}

	q := Price(items, testConfig)
	c := domain.BuildCart(items)

	require.InDelta(t, c.Total, q.Subtotal.InexactFloat64(), 1e-9)
	assert.Equal(t, 6, c.ItemCount)
}

func TestBreakdown_Float64View(t *testing.T) {
	q := Price([]domain.CartItem{line(7, 24.99, 2), line(9, 10.00, 1)}, testConfig)
	b := q.Breakdown()

	assert.InDelta(t, 59.98, b.Subtotal, 1e-9)
	assert.InDelta(t, 0, b.Shipping, 1e-9)
	assert.InDelta(t, 9.5968, b.Tax, 1e-9)
	assert.InDelta(t, 69.5768, b.GrandTotal, 1e-9)
}
