package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/logging"
)

var ErrDuplicate = errors.New("duplicate checkout attempt")

type CheckoutInput struct {
	SessionID      string
	IdempotencyKey string
	Payment        domain.PaymentMethod
}

// GroupResult is the per-group outcome of one attempt. Exactly one of
// Record and Err is set.
type GroupResult struct {
	Request domain.OrderRequest
	Record  *domain.OrderRecord
	Err     error
}

type CheckoutOutput struct {
	AttemptID  string
	Outcome    domain.CheckoutOutcome
	Results    []GroupResult
	GrandTotal decimal.Decimal
}

// Checkout runs one cart-to-orders attempt: decompose, submit each
// group sequentially, then settle the cart according to the outcome.
// Submission is deliberately serialized so a failure on group k is
// unambiguous and the cart decision can be made after all groups
// resolve. There is no compensation for already-created orders;
// partial failure stays visible to the caller.
type Checkout struct {
	cart    *CartStore
	orders  OrderPersistence
	journal CheckoutJournal
	idem    IdempotencyStore
	events  EventPublisher

	taxRate        decimal.Decimal
	requestTimeout time.Duration
}

func NewCheckout(cart *CartStore, orders OrderPersistence, journal CheckoutJournal, idem IdempotencyStore, events EventPublisher, taxRate decimal.Decimal, requestTimeout time.Duration) *Checkout {
	return &Checkout{
		cart:           cart,
		orders:         orders,
		journal:        journal,
		idem:           idem,
		events:         events,
		taxRate:        taxRate,
		requestTimeout: requestTimeout,
	}
}

func (c *Checkout) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	log := logging.FromCtx(ctx)

	if in.IdempotencyKey != "" {
		if id, ok, _ := c.idem.Recall(ctx, in.SessionID, in.IdempotencyKey); ok {
			return CheckoutOutput{}, fmt.Errorf("%w: already settled as attempt %s", ErrDuplicate, id)
		}
		ok, err := c.idem.TryLock(ctx, in.SessionID, in.IdempotencyKey)
		if err != nil {
			return CheckoutOutput{}, fmt.Errorf("idem.TryLock: %w", err)
		}
		if !ok {
			return CheckoutOutput{}, ErrDuplicate
		}
	}

	lines := c.cart.Lines(ctx, in.SessionID)
	if len(lines) == 0 {
		return CheckoutOutput{}, domain.ErrEmptyCart
	}

	groups := Decompose(domain.Cart{SessionID: in.SessionID, Lines: lines}, c.taxRate, in.Payment)

	attemptID := uuid.NewString()
	results := make([]GroupResult, 0, len(groups))
	succeeded, failed := 0, 0

	// one request at a time, every group attempted even after a failure
	for _, g := range groups {
		rec, err := c.submit(ctx, g.Request)
		if err != nil {
			failed++
			groupFailures.WithLabelValues(failureReason(err)).Inc()
			log.Warn("order group failed",
				"attempt", attemptID, "type", string(g.Request.Type),
				"store_id", g.Request.StoreID, "error", err)
			results = append(results, GroupResult{Request: g.Request, Err: err})
			continue
		}
		succeeded++
		ordersCreated.WithLabelValues(string(g.Request.Type)).Inc()
		results = append(results, GroupResult{Request: g.Request, Record: &rec})
	}

	out := CheckoutOutput{
		AttemptID:  attemptID,
		Results:    results,
		GrandTotal: GrandTotal(groups),
	}

	switch {
	case failed == 0:
		out.Outcome = domain.OutcomeCompleted
		c.cart.Clear(ctx, in.SessionID)
	case succeeded == 0:
		out.Outcome = domain.OutcomeFailed
		// cart left fully intact
	default:
		out.Outcome = domain.OutcomePartiallyFailed
		// drop only the groups that became orders; failed groups stay
		// in the cart so the customer can adjust and retry
		var done []domain.LineKey
		for i, r := range results {
			if r.Err == nil {
				done = append(done, groups[i].Keys()...)
			}
		}
		c.cart.RemoveKeys(ctx, in.SessionID, done)
	}
	checkoutOutcomes.WithLabelValues(string(out.Outcome)).Inc()

	c.record(ctx, in, out)

	if succeeded > 0 {
		if err := c.events.PublishCheckoutCompleted(ctx, newCheckoutCompletedMsg(in.SessionID, out)); err != nil {
			log.Warn("checkout event publish failed", "attempt", attemptID, "error", err)
		}
	}

	if in.IdempotencyKey != "" && out.Outcome == domain.OutcomeCompleted {
		_ = c.idem.Remember(ctx, in.SessionID, in.IdempotencyKey, attemptID)
	}

	return out, nil
}

// submit issues one order-creation call with its own timeout.
func (c *Checkout) submit(ctx context.Context, req domain.OrderRequest) (domain.OrderRecord, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}
	if req.Type == domain.ItemTypeRide {
		return c.orders.CreateRideOrder(ctx, req)
	}
	return c.orders.CreateStoreOrder(ctx, req)
}

// record journals the attempt best-effort.
func (c *Checkout) record(ctx context.Context, in CheckoutInput, out CheckoutOutput) {
	type journalGroup struct {
		Type     string `json:"type"`
		StoreID  int64  `json:"storeId,omitempty"`
		OrderID  string `json:"orderId,omitempty"`
		Total    string `json:"total"`
		Error    string `json:"error,omitempty"`
		IdemKey  string `json:"idempotencyKey"`
		NumItems int    `json:"numItems"`
	}

	jgs := make([]journalGroup, len(out.Results))
	for i, r := range out.Results {
		jg := journalGroup{
			Type:     string(r.Request.Type),
			StoreID:  r.Request.StoreID,
			Total:    r.Request.Total.StringFixed(2),
			IdemKey:  r.Request.IdempotencyKey,
			NumItems: len(r.Request.Items),
		}
		if r.Record != nil {
			jg.OrderID = r.Record.OrderID
		}
		if r.Err != nil {
			jg.Error = r.Err.Error()
		}
		jgs[i] = jg
	}
	groupsJSON, _ := json.Marshal(jgs)

	err := c.journal.RecordAttempt(ctx, &CheckoutAttempt{
		ID:             out.AttemptID,
		SessionID:      in.SessionID,
		IdempotencyKey: in.IdempotencyKey,
		Outcome:        string(out.Outcome),
		GrandTotal:     out.GrandTotal.StringFixed(2),
		GroupsJSON:     string(groupsJSON),
		Payment:        in.Payment,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		logging.FromCtx(ctx).Warn("checkout journal write failed", "attempt", out.AttemptID, "error", err)
	}
}

func failureReason(err error) string {
	if errors.Is(err, domain.ErrStockConflict) {
		return "stock_conflict"
	}
	return "network"
}
