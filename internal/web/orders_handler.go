package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/store"
)

type orderAPI interface {
	List(ctx context.Context, filter domain.OrderFilter) (*domain.Page[domain.OrderResponse], error)
	Get(ctx context.Context, id int64) (*domain.OrderResponse, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.OrderResponse, error)
}

type OrderHandler struct {
	orders  orderAPI
	store   *store.Store
	timeout time.Duration
}

func NewOrderHandler(orders orderAPI, store *store.Store, timeout time.Duration) *OrderHandler {
	return &OrderHandler{orders: orders, store: store, timeout: timeout}
}

// List is the customer's order history: free search text, any number of
// status values and an optional date floor, served through the store cache.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	filter := domain.OrderFilter{
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page"),
		Size:   queryInt(r, "size"),
	}
	for _, status := range r.URL.Query()["status"] {
		filter.Statuses = append(filter.Statuses, domain.OrderStatus(status))
	}
	if raw := r.URL.Query().Get("dateFrom"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_date", "dateFrom must be RFC3339 or YYYY-MM-DD")
			return
		}
		filter.DateFrom = &from
	}

	page, err := h.store.Orders.Fetch(ctx, cacheKey(filter), func(ctx context.Context) (*domain.Page[domain.OrderResponse], error) {
		return h.orders.List(ctx, filter)
	})
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := orderIDFromPath(w, r)
	if !ok {
		return
	}
	order, err := h.orders.Get(ctx, orderID)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Cancel moves a pending order to CANCELLED and drops the cached listing
// so the next fetch reflects it.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := orderIDFromPath(w, r)
	if !ok {
		return
	}
	order, err := h.orders.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled)
	if err != nil {
		respondFailure(w, err)
		return
	}
	h.store.Orders.Invalidate()
	respondJSON(w, http.StatusOK, order)
}

func orderIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return 0, false
	}
	return orderID, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
