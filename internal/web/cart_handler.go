package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/format"
	"github.com/Son-2003/e-commerse-sub000/internal/store"
)

type CartHandler struct {
	store   *store.Store
	timeout time.Duration
}

func NewCartHandler(store *store.Store, timeout time.Duration) *CartHandler {
	return &CartHandler{store: store, timeout: timeout}
}

type CartResponseDTO struct {
	Items         []domain.CartLine `json:"items"`
	Count         int               `json:"count"`
	Amount        float64           `json:"amount"`
	AmountDisplay string            `json:"amount_display"`
}

func (h *CartHandler) cartResponse() CartResponseDTO {
	amount := h.store.Amount()
	return CartResponseDTO{
		Items:         h.store.Lines(),
		Count:         h.store.Count(),
		Amount:        amount,
		AmountDisplay: format.Money(amount),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var line domain.CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if line.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if line.Quantity <= 0 || line.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.store.AddToCart(ctx, line); err != nil {
		respondError(w, http.StatusInternalServerError, "persist_failed", "could not save the cart")
		return
	}
	respondJSON(w, http.StatusCreated, h.cartResponse())
}

func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	line, ok := lineFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DecrementFromCart(ctx, line); err != nil {
		respondError(w, http.StatusInternalServerError, "persist_failed", "could not save the cart")
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	line, ok := lineFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.RemoveFromCart(ctx, line); err != nil {
		respondError(w, http.StatusInternalServerError, "persist_failed", "could not save the cart")
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.ClearCart(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "persist_failed", "could not clear the cart")
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

// SetBuyNow replaces the buy-now selection without touching the cart.
func (h *CartHandler) SetBuyNow(w http.ResponseWriter, r *http.Request) {
	var lines []domain.CartLine
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	for _, line := range lines {
		if line.ProductID <= 0 || line.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_line", "every line needs a product and a positive quantity")
			return
		}
	}

	h.store.SetBuyNow(lines)
	respondJSON(w, http.StatusOK, map[string]any{"items": h.store.BuyNow()})
}

func (h *CartHandler) ClearBuyNow(w http.ResponseWriter, r *http.Request) {
	h.store.ClearBuyNow()
	w.WriteHeader(http.StatusNoContent)
}

// lineFromPath builds the (product, size) selector the cart mutations key
// on, from the URL path and the optional size query parameter.
func lineFromPath(w http.ResponseWriter, r *http.Request) (domain.CartLine, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return domain.CartLine{}, false
	}
	return domain.CartLine{ProductID: productID, Size: r.URL.Query().Get("size")}, true
}
