package kafka

import (
	"context"
	"fmt"

	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

// StockChangedHandler writes authoritative stock levels through to the
// local cache so the inventory guard's soft checks stay close to the
// truth between checkouts.
type StockChangedHandler struct {
	Stock usecase.StockWriter
}

func NewStockChangedHandler(stock usecase.StockWriter) *StockChangedHandler {
	return &StockChangedHandler{Stock: stock}
}

func (h *StockChangedHandler) Handle(ctx context.Context, ev usecase.StockChangedMsg) error {
	if ev.StoreID <= 0 || ev.ItemID <= 0 {
		// malformed event, nothing to cache
		return nil
	}
	qty := ev.Quantity
	if qty < 0 {
		qty = 0
	}
	if err := h.Stock.SetStock(ctx, ev.StoreID, ev.ItemID, qty); err != nil {
		return fmt.Errorf("stock.SetStock: %w", err)
	}
	return nil
}
