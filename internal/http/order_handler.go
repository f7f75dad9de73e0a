package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

// OrderReader serves the post-checkout confirmation screen.
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

type OrderHandler struct {
	orders OrderReader
	log    *zap.Logger
}

func NewOrderHandler(orders OrderReader, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "order_id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id is required")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
