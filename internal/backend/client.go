// Package backend is the JSON-over-HTTPS client for the remote storefront
// API, which owns the catalog, orders, payments and stock.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

// DefaultTimeout bounds every backend call unless configured otherwise.
const DefaultTimeout = 10 * time.Second

// APIError is a failure response from the backend. Error() is already the
// human-readable message to display: the server's message verbatim when one
// was provided, the caller's fallback otherwise.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the remote REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	sfg     singleflight.Group // collapses concurrent reads of the same order
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// CreateOrderRequest is the order-creation contract.
type CreateOrderRequest struct {
	Items           []domain.OrderItem     `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

// CreateOrder posts the order and returns the created record.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	var order domain.Order
	err := c.do(ctx, http.MethodPost, "/orders", req, &order,
		"Your order could not be placed. Please try again.")
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type pushPaymentRequest struct {
	OrderID string `json:"order_id"`
	Phone   string `json:"phone"`
}

// TriggerPushPayment asks the backend to send a mobile-money payment prompt
// for an already-created order. Fire-and-acknowledge: a failure here never
// rolls the order back.
func (c *Client) TriggerPushPayment(ctx context.Context, orderID, phone string) error {
	return c.do(ctx, http.MethodPost, "/payments/push",
		pushPaymentRequest{OrderID: orderID, Phone: phone}, nil,
		"The payment prompt could not be sent.")
}

// GetOrder fetches the confirmation read model for an order id. Concurrent
// fetches of the same id share one request.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	v, err, _ := c.sfg.Do("order:"+id, func() (interface{}, error) {
		var order domain.Order
		err := c.do(ctx, http.MethodGet, "/orders/"+id, nil, &order,
			"Order details are unavailable right now.")
		if err != nil {
			return nil, err
		}
		return &order, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Order), nil
}

// GetProduct fetches a single catalog item with its current stock.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product,
		"Product details are unavailable right now.")
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts fetches the catalog listing.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := c.do(ctx, http.MethodGet, "/products", nil, &products,
		"The catalog is unavailable right now.")
	if err != nil {
		return nil, err
	}
	return products, nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: serverMessage(resp.Body, fallback)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// serverMessage prefers the backend's message field, then its error field,
// then the fallback.
func serverMessage(body io.Reader, fallback string) string {
	var eb errorBody
	if err := json.NewDecoder(body).Decode(&eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	return fallback
}
