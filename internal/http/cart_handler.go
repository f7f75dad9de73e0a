package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/griffinsgri4/coast-storefront/internal/backend"
	"github.com/griffinsgri4/coast-storefront/internal/cart"
	"github.com/griffinsgri4/coast-storefront/internal/domain"
	"github.com/griffinsgri4/coast-storefront/internal/pricing"
)

// ProductFetcher is the slice of the backend the cart handlers need.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type CartHandler struct {
	carts    *cart.Manager
	products ProductFetcher
	pricing  pricing.Config
	log      *zap.Logger
}

func NewCartHandler(carts *cart.Manager, products ProductFetcher, cfg pricing.Config, log *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, products: products, pricing: cfg, log: log}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	domain.Cart
	Quote pricing.Breakdown `json:"quote"`
}

func (h *CartHandler) cartResponse(store *cart.Store) CartResponseDTO {
	c := store.Cart()
	return CartResponseDTO{
		Cart:  c,
		Quote: pricing.Price(c.Items, h.pricing).Breakdown(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.Store(r.Context(), getSession(r.Context()))
	respondJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleBackendError(w, err)
		return
	}

	store := h.carts.Store(r.Context(), getSession(r.Context()))
	if err := store.AddItem(r.Context(), *product, req.Quantity); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.cartResponse(store))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	store := h.carts.Store(r.Context(), getSession(r.Context()))
	if err := store.UpdateQuantity(r.Context(), productID, req.Quantity); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	store := h.carts.Store(r.Context(), getSession(r.Context()))
	store.RemoveItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.Store(r.Context(), getSession(r.Context()))
	store.Clear(r.Context())
	respondJSON(w, http.StatusOK, h.cartResponse(store))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock",
			"Not enough stock available for the requested quantity.")
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func handleBackendError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		respondError(w, status, "backend_error", apiErr.Message)
		return
	}
	respondError(w, http.StatusBadGateway, "backend_unavailable",
		"The store is unreachable right now. Please try again.")
}
