package usecase

import (
	"context"
	"time"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
)

// OrderPersistence is the park backend. Each call creates exactly one
// order and atomically adjusts stock server-side; a stock shortfall
// surfaces as domain.ErrStockConflict.
type OrderPersistence interface {
	CreateRideOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRecord, error)
	CreateStoreOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRecord, error)
}

// CartArchive is durable, best-effort storage for a session's cart so
// it survives restarts. Not transactional with the backend.
type CartArchive interface {
	Save(ctx context.Context, sessionID string, lines []domain.LineItem) error
	Load(ctx context.Context, sessionID string) ([]domain.LineItem, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// StockReader exposes the last-known stock level for a store item.
// ok=false means no cached value; the guard treats that as a pass and
// leaves enforcement to the backend.
type StockReader interface {
	Stock(ctx context.Context, storeID, itemID int64) (int, bool, error)
}

// StockWriter is the write side of the stock cache, fed by the stock
// change listener.
type StockWriter interface {
	SetStock(ctx context.Context, storeID, itemID int64, qty int) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// CheckoutAttempt is the journal row shape (kept out of domain).
type CheckoutAttempt struct {
	ID             string
	SessionID      string
	IdempotencyKey string
	Outcome        string
	GrandTotal     string
	GroupsJSON     string
	Payment        domain.PaymentMethod
	CreatedAt      time.Time
}

// CheckoutJournal records every attempt, succeeded or not, for the
// ops portal. Journaling is best-effort and never fails a checkout.
type CheckoutJournal interface {
	RecordAttempt(ctx context.Context, a *CheckoutAttempt) error
	GetAttempt(ctx context.Context, id string) (*CheckoutAttempt, error)
}

// EventPublisher announces checkouts that created at least one order.
type EventPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, msg CheckoutCompletedMsg) error
}
