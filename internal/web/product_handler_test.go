package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/storage"
	"github.com/Son-2003/e-commerse-sub000/internal/store"
)

type productAPIMock struct {
	page    *domain.Page[domain.Product]
	filters []domain.ProductFilter
	err     error
}

func (m *productAPIMock) List(_ context.Context, filter domain.ProductFilter) (*domain.Page[domain.Product], error) {
	m.filters = append(m.filters, filter)
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

func (m *productAPIMock) Get(context.Context, int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.page.Content) == 0 {
		return nil, &api.RemoteError{StatusCode: http.StatusNotFound, Message: "product not found"}
	}
	return &m.page.Content[0], nil
}

func newProductFixture(mock *productAPIMock) (chi.Router, *store.Store) {
	s := store.New(context.Background(), storage.NewMemoryKV())
	h := NewProductHandler(mock, s, time.Second)

	r := chi.NewRouter()
	r.Get("/products", h.List)
	r.Get("/products/{product_id}", h.Get)
	return r, s
}

func TestProductList_Success(t *testing.T) {
	mock := &productAPIMock{page: &domain.Page[domain.Product]{
		Content: []domain.Product{
			{ID: 1, Name: "Shirt", Price: 150000, InStock: true},
			{ID: 2, Name: "Jeans", Price: 420000, InStock: true},
		},
		TotalElements: 2,
		TotalPages:    1,
	}}
	r, s := newProductFixture(mock)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("GET", "/products?search=shirt&category=tops&page=2", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var page domain.Page[domain.Product]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&page))
	assert.Len(t, page.Content, 2)

	require.Len(t, mock.filters, 1)
	assert.Equal(t, "shirt", mock.filters[0].Search)
	assert.Equal(t, "tops", mock.filters[0].Category)
	assert.Equal(t, 2, mock.filters[0].Page)

	// The fetched page landed in the store cache, keyed by its filter.
	cached, loading, errMsg := s.Products.Snapshot()
	require.NotNil(t, cached)
	assert.False(t, loading)
	assert.Empty(t, errMsg)
	assert.Equal(t, int64(2), cached.TotalElements)
}

func TestProductList_RemoteFailureKeepsMessage(t *testing.T) {
	mock := &productAPIMock{err: &api.RemoteError{StatusCode: http.StatusBadGateway, Message: "catalog unavailable"}}
	r, s := newProductFixture(mock)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("GET", "/products", nil))

	require.Equal(t, http.StatusBadGateway, recorder.Code)
	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "catalog unavailable", response.Error)

	_, _, errMsg := s.Products.Snapshot()
	assert.NotEmpty(t, errMsg)
}

func TestProductGet_InvalidID(t *testing.T) {
	r, _ := newProductFixture(&productAPIMock{page: &domain.Page[domain.Product]{}})

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("GET", "/products/abc", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestProductGet_NotFoundPassesThrough(t *testing.T) {
	r, _ := newProductFixture(&productAPIMock{page: &domain.Page[domain.Product]{}})

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("GET", "/products/42", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
