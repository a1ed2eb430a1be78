package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

var cashPayment = domain.PaymentMethod{Kind: "cash"}

// the worked example: one ride, two stores
func exampleCart() domain.Cart {
	return domain.Cart{
		SessionID: sess,
		Lines: []domain.LineItem{
			{Type: domain.ItemTypeRide, ItemID: 1, Name: "Coaster", UnitPrice: dec("10.00"), Quantity: 2},
			{Type: domain.ItemTypeStore, ItemID: 7, StoreID: 1, Name: "Mug", UnitPrice: dec("8.00"), Quantity: 1},
			{Type: domain.ItemTypeStore, ItemID: 9, StoreID: 2, Name: "Hat", UnitPrice: dec("15.00"), Quantity: 3},
		},
	}
}

func TestDecomposeExampleCart(t *testing.T) {
	groups := usecase.Decompose(exampleCart(), parkTaxRate, cashPayment)
	require.Len(t, groups, 3)

	ride := groups[0].Request
	assert.Equal(t, domain.ItemTypeRide, ride.Type)
	assert.Equal(t, "20.00", ride.Subtotal.StringFixed(2))
	assert.Equal(t, "1.65", ride.Tax.StringFixed(2))
	assert.Equal(t, "21.65", ride.Total.StringFixed(2))

	store1 := groups[1].Request
	assert.Equal(t, domain.ItemTypeStore, store1.Type)
	assert.Equal(t, int64(1), store1.StoreID)
	assert.Equal(t, "8.00", store1.Subtotal.StringFixed(2))
	assert.Equal(t, "0.66", store1.Tax.StringFixed(2))
	assert.Equal(t, "8.66", store1.Total.StringFixed(2))

	store2 := groups[2].Request
	assert.Equal(t, int64(2), store2.StoreID)
	assert.Equal(t, "45.00", store2.Subtotal.StringFixed(2))
	assert.Equal(t, "3.71", store2.Tax.StringFixed(2))
	assert.Equal(t, "48.71", store2.Total.StringFixed(2))

	// grand total is the sum of group totals, not a re-rounding
	assert.Equal(t, "79.02", usecase.GrandTotal(groups).StringFixed(2))
}

func TestDecomposePartitionCompleteness(t *testing.T) {
	cart := exampleCart()
	groups := usecase.Decompose(cart, parkTaxRate, cashPayment)

	// every cart line appears in exactly one group
	seen := map[domain.LineKey]int{}
	for _, g := range groups {
		for _, li := range g.Lines {
			seen[li.Key()]++
		}
	}
	require.Len(t, seen, len(cart.Lines))
	for _, li := range cart.Lines {
		assert.Equal(t, 1, seen[li.Key()], "line %v", li.Key())
	}
}

func TestDecomposeStableOrdering(t *testing.T) {
	// store lines deliberately added with ids out of order, ride last
	cart := domain.Cart{
		SessionID: sess,
		Lines: []domain.LineItem{
			{Type: domain.ItemTypeStore, ItemID: 9, StoreID: 5, Name: "Hat", UnitPrice: dec("15.00"), Quantity: 1},
			{Type: domain.ItemTypeStore, ItemID: 8, StoreID: 2, Name: "Shirt", UnitPrice: dec("25.00"), Quantity: 1},
			{Type: domain.ItemTypeRide, ItemID: 1, Name: "Coaster", UnitPrice: dec("10.00"), Quantity: 1},
		},
	}

	groups := usecase.Decompose(cart, parkTaxRate, cashPayment)
	require.Len(t, groups, 3)
	assert.Equal(t, domain.ItemTypeRide, groups[0].Request.Type)
	assert.Equal(t, int64(2), groups[1].Request.StoreID)
	assert.Equal(t, int64(5), groups[2].Request.StoreID)
}

func TestDecomposeNoRideLines(t *testing.T) {
	cart := domain.Cart{
		SessionID: sess,
		Lines: []domain.LineItem{
			{Type: domain.ItemTypeStore, ItemID: 7, StoreID: 3, Name: "Mug", UnitPrice: dec("8.00"), Quantity: 2},
		},
	}

	groups := usecase.Decompose(cart, parkTaxRate, cashPayment)
	require.Len(t, groups, 1)
	assert.Equal(t, domain.ItemTypeStore, groups[0].Request.Type)
	assert.Equal(t, int64(3), groups[0].Request.StoreID)
}

func TestDecomposeEmptyCart(t *testing.T) {
	groups := usecase.Decompose(domain.Cart{SessionID: sess}, parkTaxRate, cashPayment)
	assert.Empty(t, groups)
}

func TestDecomposeFreshIdempotencyKeys(t *testing.T) {
	cart := exampleCart()

	first := usecase.Decompose(cart, parkTaxRate, cashPayment)
	second := usecase.Decompose(cart, parkTaxRate, cashPayment)

	keys := map[string]bool{}
	for _, g := range append(first, second...) {
		require.NotEmpty(t, g.Request.IdempotencyKey)
		assert.False(t, keys[g.Request.IdempotencyKey], "key reused")
		keys[g.Request.IdempotencyKey] = true
	}
}

func TestDecomposeCarriesPaymentMethod(t *testing.T) {
	card := domain.PaymentMethod{Kind: "card", CardNumber: "4111111111111111"}
	groups := usecase.Decompose(exampleCart(), parkTaxRate, card)
	for _, g := range groups {
		assert.Equal(t, card, g.Request.PaymentMethod)
	}
}
