package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/griffinsgri4/coast-storefront/internal/cart"
	"github.com/griffinsgri4/coast-storefront/internal/checkout"
)

type CheckoutHandler struct {
	carts   *cart.Manager
	service *checkout.Service
	log     *zap.Logger
}

func NewCheckoutHandler(carts *cart.Manager, service *checkout.Service, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, service: service, log: log}
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	session := getSession(r.Context())
	store := h.carts.Store(r.Context(), session)

	result, err := h.service.Submit(r.Context(), session, store, form)
	if err != nil {
		var fieldErrs checkout.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			respondFieldErrors(w, fieldErrs)
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart",
				"Your cart is empty. Add something before checking out.")
		case errors.Is(err, checkout.ErrInProgress):
			respondError(w, http.StatusConflict, "checkout_in_progress",
				"Your order is already being submitted.")
		default:
			handleBackendError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, result)
}
