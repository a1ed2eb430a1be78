package usecase

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
)

// CheckoutGroup pairs one OrderRequest with the cart lines it was
// built from, so the orchestrator can drop exactly those lines once
// the group's order is created.
type CheckoutGroup struct {
	Lines   []domain.LineItem
	Request domain.OrderRequest
}

func (g CheckoutGroup) Keys() []domain.LineKey {
	keys := make([]domain.LineKey, len(g.Lines))
	for i, li := range g.Lines {
		keys[i] = li.Key()
	}
	return keys
}

// Decompose partitions the cart into submission order: the ride group
// first (if any ride lines exist), then one group per store in
// ascending store id. Each group is priced independently, so every
// resulting order is internally consistent even though the grand
// total is a sum of per-group totals rather than one whole-cart
// rounding pass. Each request gets a fresh idempotency key.
func Decompose(cart domain.Cart, taxRate decimal.Decimal, pm domain.PaymentMethod) []CheckoutGroup {
	var groups []CheckoutGroup

	if rides := cart.RideLines(); len(rides) > 0 {
		groups = append(groups, buildGroup(domain.ItemTypeRide, 0, rides, taxRate, pm))
	}

	storeIDs := cart.StoreIDs()
	slices.Sort(storeIDs)
	for _, id := range storeIDs {
		groups = append(groups, buildGroup(domain.ItemTypeStore, id, cart.StoreLines(id), taxRate, pm))
	}

	return groups
}

func buildGroup(typ domain.ItemType, storeID int64, lines []domain.LineItem, taxRate decimal.Decimal, pm domain.PaymentMethod) CheckoutGroup {
	totals := Price(lines, taxRate)

	items := make([]domain.OrderItem, len(lines))
	for i, li := range lines {
		items[i] = domain.OrderItem{Name: li.Name, UnitPrice: li.UnitPrice, Quantity: li.Quantity}
	}

	return CheckoutGroup{
		Lines: lines,
		Request: domain.OrderRequest{
			Type:           typ,
			StoreID:        storeID,
			Items:          items,
			Subtotal:       totals.Subtotal,
			Tax:            totals.Tax,
			Total:          totals.Total,
			PaymentMethod:  pm,
			IdempotencyKey: uuid.NewString(),
		},
	}
}

// GrandTotal sums the independently-rounded group totals. This is the
// figure shown to the customer; it is deliberately not a re-rounding
// of the whole cart.
func GrandTotal(groups []CheckoutGroup) decimal.Decimal {
	sum := decimal.Zero
	for _, g := range groups {
		sum = sum.Add(g.Request.Total)
	}
	return sum
}
