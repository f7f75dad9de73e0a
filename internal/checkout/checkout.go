// Package checkout assembles an order from the cart and the checkout form
// and submits it to the remote order collaborator.
package checkout

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/griffinsgri4/coast-storefront/internal/backend"
	"github.com/griffinsgri4/coast-storefront/internal/cart"
	"github.com/griffinsgri4/coast-storefront/internal/domain"
	"github.com/griffinsgri4/coast-storefront/internal/pricing"
)

var (
	ErrEmptyCart  = errors.New("cart is empty, nothing to checkout")
	ErrInProgress = errors.New("checkout already in progress for this session")
)

// OrderGateway is the slice of the backend the checkout flow needs.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*domain.Order, error)
	TriggerPushPayment(ctx context.Context, orderID, phone string) error
}

// Result is what the confirmation screen needs after a successful submit.
type Result struct {
	OrderID string            `json:"order_id"`
	Order   *domain.Order     `json:"order"`
	Quote   pricing.Breakdown `json:"quote"`

	// PaymentPromptSent reports whether the mobile-money prompt went out.
	// The order stands either way.
	PaymentPromptSent bool   `json:"payment_prompt_sent"`
	Message           string `json:"message,omitempty"`
}

// Service runs the staged checkout flow: validate shipping, validate the
// payment method's inputs, and only then call the order collaborator.
type Service struct {
	gateway OrderGateway
	cfg     pricing.Config
	log     *zap.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewService(gateway OrderGateway, cfg pricing.Config, log *zap.Logger) *Service {
	return &Service{
		gateway:  gateway,
		cfg:      cfg,
		log:      log,
		inFlight: make(map[string]bool),
	}
}

// Submit validates the form, creates the order, clears the cart, and for
// mobile money fires the payment prompt keyed by the created order's id.
// On any failure the cart is left untouched so the user can retry, and the
// in-flight guard is always released.
func (s *Service) Submit(ctx context.Context, session string, store *cart.Store, form Form) (*Result, error) {
	items := store.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if errs := ValidateShipping(form.Shipping); errs != nil {
		return nil, errs
	}
	if errs := ValidatePayment(form); errs != nil {
		return nil, errs
	}

	if !s.begin(session) {
		return nil, ErrInProgress
	}
	defer s.end(session)

	quote := pricing.Price(items, s.cfg)

	req := backend.CreateOrderRequest{
		Items:           make([]domain.OrderItem, 0, len(items)),
		ShippingAddress: form.Shipping,
		PaymentMethod:   string(form.PaymentMethod),
	}
	for _, it := range items {
		req.Items = append(req.Items, domain.OrderItem{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.log.Error("order creation failed",
			zap.String("session", session),
			zap.Int("line_count", len(items)),
			zap.Error(err))
		return nil, err
	}

	// The order is durably created; the cart can go.
	store.Clear(ctx)

	res := &Result{
		OrderID: order.ID,
		Order:   order,
		Quote:   quote.Breakdown(),
	}

	if form.PaymentMethod == domain.PaymentMpesa {
		// Create-then-trigger: the prompt is only sent once an order record
		// exists to correlate it with, and its failure never undoes the order.
		if err := s.gateway.TriggerPushPayment(ctx, order.ID, normalizePhone(form.Mpesa.Phone)); err != nil {
			s.log.Error("push payment trigger failed",
				zap.String("order_id", order.ID), zap.Error(err))
			res.Message = "Your order was placed, but we could not send the payment prompt. You can pay from the order page."
		} else {
			res.PaymentPromptSent = true
		}
	}

	s.log.Info("order placed",
		zap.String("session", session),
		zap.String("order_id", order.ID),
		zap.String("payment_method", string(form.PaymentMethod)))
	return res, nil
}

func (s *Service) begin(session string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[session] {
		return false
	}
	s.inFlight[session] = true
	return true
}

func (s *Service) end(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, session)
}

// InProgress reports whether a submit is running for the session.
func (s *Service) InProgress(session string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[session]
}
