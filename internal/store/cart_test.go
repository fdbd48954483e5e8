package store

import (
	"context"
	"testing"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id int64, size string, price float64, qty int) domain.CartLine {
	return domain.CartLine{ProductID: id, Size: size, UnitPrice: price, Quantity: qty}
}

func newTestStore(t *testing.T) (*Store, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	return New(context.Background(), kv), kv
}

func TestAddToCart_DistinctPairs(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 1)))
	require.NoError(t, sut.AddToCart(ctx, line(1, "L", 50, 1)))
	require.NoError(t, sut.AddToCart(ctx, line(2, "", 30, 2)))

	assert.Equal(t, 3, sut.Count())
	lines := sut.Lines()
	// Insertion order preserved.
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, "M", lines[0].Size)
	assert.Equal(t, int64(2), lines[2].ProductID)
}

func TestAddToCart_MergesSameLineBySummingQuantities(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 1)))
	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 1)))

	assert.Equal(t, 1, sut.Count())
	assert.Equal(t, 2, sut.Lines()[0].Quantity)
	assert.Equal(t, 100.0, sut.Amount())

	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 3)))
	assert.Equal(t, 5, sut.Lines()[0].Quantity)
}

func TestAddToCart_RejectsNonPositiveQuantity(t *testing.T) {
	sut, _ := newTestStore(t)
	err := sut.AddToCart(context.Background(), line(1, "M", 50, 0))
	require.Error(t, err)
	assert.Equal(t, 0, sut.Count())
}

func TestDecrementFromCart_RemovesLineAtOne(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 2)))
	require.NoError(t, sut.DecrementFromCart(ctx, line(1, "M", 0, 0)))
	assert.Equal(t, 1, sut.Lines()[0].Quantity)

	require.NoError(t, sut.DecrementFromCart(ctx, line(1, "M", 0, 0)))
	assert.Equal(t, 0, sut.Count())

	// Decrementing an absent line is a no-op.
	require.NoError(t, sut.DecrementFromCart(ctx, line(1, "M", 0, 0)))
	assert.Equal(t, 0, sut.Count())
}

func TestRemoveFromCart_ByIDOnly_DropsAllSizes(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 1)))
	require.NoError(t, sut.AddToCart(ctx, line(1, "L", 50, 1)))
	require.NoError(t, sut.AddToCart(ctx, line(2, "M", 30, 1)))

	require.NoError(t, sut.RemoveFromCart(ctx, domain.CartLine{ProductID: 1}))

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)
}

func TestRemoveFromCart_ByIDAndSize_DropsExactMatchOnly(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 1)))
	require.NoError(t, sut.AddToCart(ctx, line(1, "L", 50, 1)))

	require.NoError(t, sut.RemoveFromCart(ctx, domain.CartLine{ProductID: 1, Size: "M"}))

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "L", lines[0].Size)
}

func TestAmount(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, 0.0, sut.Amount())

	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 2)))
	require.NoError(t, sut.AddToCart(ctx, line(2, "", 19.5, 3)))

	assert.InDelta(t, 50*2+19.5*3, sut.Amount(), 1e-9)
}

func TestClearCart_RemovesPersistedKey(t *testing.T) {
	sut, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 1)))
	require.True(t, kv.Has(storage.KeyCart))

	require.NoError(t, sut.ClearCart(ctx))
	assert.Equal(t, 0, sut.Count())
	assert.False(t, kv.Has(storage.KeyCart))
}

func TestBuyNow_PreferredByCheckoutAndNeverMerged(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, sut.AddToCart(ctx, line(1, "M", 50, 1)))
	assert.False(t, sut.UsingBuyNow())
	assert.Equal(t, int64(1), sut.CheckoutLines()[0].ProductID)

	sut.SetBuyNow([]domain.CartLine{line(9, "", 120, 1)})
	assert.True(t, sut.UsingBuyNow())
	checkout := sut.CheckoutLines()
	require.Len(t, checkout, 1)
	assert.Equal(t, int64(9), checkout[0].ProductID)

	// The cart itself is untouched.
	assert.Equal(t, 1, sut.Count())
	assert.Equal(t, int64(1), sut.Lines()[0].ProductID)

	sut.ClearBuyNow()
	assert.False(t, sut.UsingBuyNow())
	assert.Equal(t, int64(1), sut.CheckoutLines()[0].ProductID)
}
