package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/griffinsgri4/coast-storefront/internal/backend"
	"github.com/griffinsgri4/coast-storefront/internal/cart"
	"github.com/griffinsgri4/coast-storefront/internal/checkout"
	"github.com/griffinsgri4/coast-storefront/internal/domain"
	"github.com/griffinsgri4/coast-storefront/internal/pricing"
)

var testPricing = pricing.Config{
	FreeShippingThreshold: 50,
	FlatShippingFee:       5.99,
	TaxRate:               0.16,
}

type catalogMock struct {
	products map[int64]domain.Product
	err      error
}

func (c *catalogMock) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.products[id]
	if !ok {
		return nil, &backend.APIError{Status: http.StatusNotFound, Message: "product not found"}
	}
	return &p, nil
}

func (c *catalogMock) ListProducts(context.Context) ([]domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	return out, nil
}

type gatewayMock struct {
	createErr error
	triggered int
}

func (g *gatewayMock) CreateOrder(_ context.Context, req backend.CreateOrderRequest) (*domain.Order, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &domain.Order{ID: "ord-1001", Items: req.Items, Status: "pending"}, nil
}

func (g *gatewayMock) TriggerPushPayment(context.Context, string, string) error {
	g.triggered++
	return nil
}

func (g *gatewayMock) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	return &domain.Order{ID: id, Status: "paid"}, nil
}

func testRouter(t *testing.T, catalog *catalogMock, gateway *gatewayMock) chi.Router {
	t.Helper()
	log := zap.NewNop()
	carts := cart.NewManager(cart.NewMemoryPersistence(), log)
	svc := checkout.NewService(gateway, testPricing, log)

	return NewRouter(
		RouterConfig{SessionCookie: "cart_session", RequestTimeout: 5 * time.Second},
		NewCartHandler(carts, catalog, testPricing, log),
		NewCheckoutHandler(carts, svc, log),
		NewOrderHandler(gateway, log),
		NewProductHandler(catalog, log),
		log,
	)
}

func defaultCatalog() *catalogMock {
	return &catalogMock{products: map[int64]domain.Product{
		7: {ID: 7, Name: "Mascara", Price: 24.99, Stock: domain.StockQuantity(5)},
		9: {ID: 9, Name: "Lip Balm", Price: 10.00, Stock: domain.StockDetailed(3, 1)},
	}}
}

func doRequest(t *testing.T, router chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "test-session"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddItem_CreatesLine(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 7, Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(7), resp.Items[0].Product.ID)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.InDelta(t, 49.98, resp.Total, 1e-9)
	assert.InDelta(t, 5.99, resp.Quote.Shipping, 1e-9)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", map[string]int64{"product_id": 7})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Quantity)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 7, Quantity: 6})
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "insufficient_stock", resp.Code)

	// Nothing was applied.
	rec = doRequest(t, router, http.MethodGet, "/api/v1/cart", nil)
	var c CartResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Empty(t, c.Items)
}

func TestAddItem_BadRequests(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 0, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 7, Quantity: 100})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{not json"))
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "test-session"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 404, Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateQuantity_AndRemove(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 7, Quantity: 2})

	rec := doRequest(t, router, http.MethodPut, "/api/v1/cart/items/7", UpdateQuantityRequestDTO{Quantity: 4})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Items[0].Quantity)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestClearCart(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 7, Quantity: 2})
	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 9, Quantity: 1})

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.ItemCount)
}

func TestGetCart_IssuesSessionCookie(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "cart_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestGetOrderEndpoint(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders/ord-1001", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var order domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "ord-1001", order.ID)
	assert.Equal(t, "paid", order.Status)
}

func TestListProductsEndpoint(t *testing.T) {
	router := testRouter(t, defaultCatalog(), &gatewayMock{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)
}
