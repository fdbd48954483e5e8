package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/store"
)

// productAPI is the slice of the catalog surface the handler calls.
type productAPI interface {
	List(ctx context.Context, filter domain.ProductFilter) (*domain.Page[domain.Product], error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type ProductHandler struct {
	products productAPI
	store    *store.Store
	timeout  time.Duration
}

func NewProductHandler(products productAPI, store *store.Store, timeout time.Duration) *ProductHandler {
	return &ProductHandler{products: products, store: store, timeout: timeout}
}

// List serves the catalog page through the store cache: identical filters
// collapse into one upstream request, and the fetched page replaces the
// cached one wholesale.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	filter := domain.ProductFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Page:     queryInt(r, "page"),
		Size:     queryInt(r, "size"),
	}

	page, err := h.store.Products.Fetch(ctx, cacheKey(filter), func(ctx context.Context) (*domain.Page[domain.Product], error) {
		return h.products.List(ctx, filter)
	})
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, err := h.products.Get(ctx, productID)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// cacheKey derives the store-cache key from the filter that produced the
// fetch, so a changed filter forces a fresh request.
func cacheKey(filter any) string {
	data, err := json.Marshal(filter)
	if err != nil {
		return ""
	}
	return string(data)
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}
