package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

// ProductLister proxies the remote catalog listing.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type ProductHandler struct {
	catalog ProductLister
	log     *zap.Logger
}

func NewProductHandler(catalog ProductLister, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, log: log}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}
