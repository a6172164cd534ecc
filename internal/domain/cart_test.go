package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/IH-CoordinationService/pkg/ptr"
)

func TestCart_Totals(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: 1, Name: "Vitamin D", Price: 100, DiscountPrice: ptr.Ptr(80.0), Quantity: 2},
			{ProductID: 2, Name: "Blood test", Price: 50, Quantity: 1},
		},
	}

	assert.Equal(t, 3, cart.TotalCount())
	assert.InDelta(t, 210.0, cart.TotalPrice(), 0.001)
	assert.InDelta(t, 250.0, cart.OriginalTotal(), 0.001)
	assert.InDelta(t, 40.0, cart.TotalSavings(), 0.001)
}

func TestCart_Totals_Empty(t *testing.T) {
	cart := &Cart{}

	assert.Equal(t, 0, cart.TotalCount())
	assert.Zero(t, cart.TotalPrice())
	assert.Zero(t, cart.TotalSavings())
}

func TestCart_Merge_SameProductSumsQuantity(t *testing.T) {
	cart := &Cart{}

	cart.Merge(CartItem{ProductID: 7, Name: "Vitamin D", Price: 100, Quantity: 2})
	cart.Merge(CartItem{ProductID: 7, Name: "Vitamin D", Price: 100, Quantity: 3})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.TotalCount())
}

func TestCart_Merge_DifferentProductsAppend(t *testing.T) {
	cart := &Cart{}

	cart.Merge(CartItem{ProductID: 1, Quantity: 1})
	cart.Merge(CartItem{ProductID: 2, Quantity: 1})

	require.Len(t, cart.Items, 2)
	assert.Equal(t, int64(1), cart.Items[0].ProductID)
	assert.Equal(t, int64(2), cart.Items[1].ProductID)
}

func TestCart_RemoveItem(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}

	require.True(t, cart.RemoveItem(1))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].ProductID)
	assert.Equal(t, 1, cart.TotalCount())

	assert.False(t, cart.RemoveItem(99))
}

func TestCart_SetQuantity(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{{ProductID: 1, Quantity: 2}},
	}

	require.True(t, cart.SetQuantity(1, 7))
	assert.Equal(t, 7, cart.FindItem(1).Quantity)

	assert.False(t, cart.SetQuantity(99, 1))
}

func TestCartItem_UnitPrice(t *testing.T) {
	full := CartItem{Price: 100}
	discounted := CartItem{Price: 100, DiscountPrice: ptr.Ptr(80.0)}

	assert.InDelta(t, 100.0, full.UnitPrice(), 0.001)
	assert.False(t, full.HasDiscount())

	assert.InDelta(t, 80.0, discounted.UnitPrice(), 0.001)
	assert.True(t, discounted.HasDiscount())
}
