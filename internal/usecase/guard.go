package usecase

import (
	"context"
	"math"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/logging"
)

// InventoryGuard caps line quantities at mutation time. Ride tickets
// are capped at the per-order limit; merchandise at the last-known
// stock level. The stock check is soft: the cache can be stale, and
// the backend re-checks authoritatively at order creation.
type InventoryGuard struct {
	rideLimit int
	stock     StockReader
}

func NewInventoryGuard(rideLimit int, stock StockReader) *InventoryGuard {
	return &InventoryGuard{rideLimit: rideLimit, stock: stock}
}

// MaxQuantity returns the largest quantity the guard allows for this
// line right now. For store items with no cached stock (or a failing
// cache) it passes the request through unclamped.
func (g *InventoryGuard) MaxQuantity(ctx context.Context, li domain.LineItem) int {
	switch li.Type {
	case domain.ItemTypeRide:
		return g.rideLimit
	case domain.ItemTypeStore:
		qty, ok, err := g.stock.Stock(ctx, li.StoreID, li.ItemID)
		if err != nil {
			logging.FromCtx(ctx).Warn("stock lookup failed, soft-allowing",
				"store_id", li.StoreID, "item_id", li.ItemID, "error", err)
			return math.MaxInt
		}
		if !ok {
			return math.MaxInt
		}
		return qty
	default:
		return 0
	}
}

// CanSetQuantity reports whether qty is within the current cap.
func (g *InventoryGuard) CanSetQuantity(ctx context.Context, li domain.LineItem, qty int) bool {
	return qty > 0 && qty <= g.MaxQuantity(ctx, li)
}
