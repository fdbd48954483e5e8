package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/storage"
	"github.com/Son-2003/e-commerse-sub000/internal/store"
)

func newCartFixture(t *testing.T) (*CartHandler, *store.Store, *storage.MemoryKV, chi.Router) {
	t.Helper()
	kv := storage.NewMemoryKV()
	s := store.New(context.Background(), kv)
	h := NewCartHandler(s, time.Second)

	r := chi.NewRouter()
	r.Get("/cart", h.Get)
	r.Post("/cart/items", h.AddItem)
	r.Post("/cart/items/{product_id}/decrement", h.DecrementItem)
	r.Delete("/cart/items/{product_id}", h.RemoveItem)
	r.Delete("/cart", h.Clear)
	r.Put("/cart/buy-now", h.SetBuyNow)
	r.Delete("/cart/buy-now", h.ClearBuyNow)
	return h, s, kv, r
}

func addBody(productID int64, size string, qty int) string {
	line := domain.CartLine{ProductID: productID, Name: "Shirt", UnitPrice: 150000, Size: size, Quantity: qty}
	data, _ := json.Marshal(line)
	return string(data)
}

func TestAddItem_Success(t *testing.T) {
	_, s, kv, r := newCartFixture(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/cart/items", strings.NewReader(addBody(1, "M", 2)))
	r.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response.Items, 1)
	assert.Equal(t, 2, response.Items[0].Quantity)
	assert.Equal(t, float64(300000), response.Amount)
	assert.Equal(t, "300.000₫", response.AmountDisplay)

	// The snapshot hit the KV before the response went out.
	assert.True(t, kv.Has(storage.KeyCart))
	assert.Len(t, s.Lines(), 1)
}

func TestAddItem_InvalidQuantityRejected(t *testing.T) {
	_, s, _, r := newCartFixture(t)

	for _, body := range []string{addBody(1, "M", 0), addBody(1, "M", 100), addBody(0, "M", 1)} {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("POST", "/cart/items", strings.NewReader(body))
		r.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	}
	assert.Empty(t, s.Lines())
}

func TestAddItem_SameLineMergesQuantities(t *testing.T) {
	_, s, _, r := newCartFixture(t)

	for _, qty := range []int{2, 3} {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("POST", "/cart/items", strings.NewReader(addBody(1, "M", qty)))
		r.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddItem_DifferentSizeIsDistinctLine(t *testing.T) {
	_, s, _, r := newCartFixture(t)

	for _, size := range []string{"M", "L"} {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("POST", "/cart/items", strings.NewReader(addBody(1, size, 1)))
		r.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}
	assert.Len(t, s.Lines(), 2)
}

func TestDecrementItem_RemovesLineAtOne(t *testing.T) {
	_, s, _, r := newCartFixture(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", strings.NewReader(addBody(7, "M", 1))))
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items/7/decrement?size=M", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, s.Lines())
}

func TestRemoveItem_SizeScoped(t *testing.T) {
	_, s, _, r := newCartFixture(t)

	for _, size := range []string{"M", "L"} {
		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", strings.NewReader(addBody(7, size, 1))))
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/cart/items/7?size=M", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "L", lines[0].Size)
}

func TestClear_DeletesSnapshot(t *testing.T) {
	_, s, kv, r := newCartFixture(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", strings.NewReader(addBody(1, "M", 1))))
	require.Equal(t, http.StatusCreated, recorder.Code)
	require.True(t, kv.Has(storage.KeyCart))

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/cart", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Empty(t, s.Lines())
	assert.False(t, kv.Has(storage.KeyCart))
}

func TestBuyNow_DoesNotTouchCart(t *testing.T) {
	_, s, _, r := newCartFixture(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", strings.NewReader(addBody(1, "M", 1))))
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	body := "[" + addBody(9, "XL", 1) + "]"
	r.ServeHTTP(recorder, httptest.NewRequest("PUT", "/cart/buy-now", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Len(t, s.Lines(), 1)
	assert.True(t, s.UsingBuyNow())

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/cart/buy-now", nil))
	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.False(t, s.UsingBuyNow())
}
