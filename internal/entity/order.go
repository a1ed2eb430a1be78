package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals is one independently-rounded pricing triple. Total is always
// round2(Subtotal+Tax) for the same group, never a re-rounding of a
// larger aggregate.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// PaymentMethod is captured as-is; card fields are not validated or
// tokenized against a gateway here.
type PaymentMethod struct {
	Kind       string `json:"kind"` // "card" | "cash"
	CardNumber string `json:"cardNumber,omitempty"`
	CardHolder string `json:"cardHolder,omitempty"`
	CardExpiry string `json:"cardExpiry,omitempty"`
}

// OrderItem is the wire shape of one line inside an OrderRequest.
type OrderItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// OrderRequest is what gets submitted to the park backend for one
// group. Built fresh at checkout time and never mutated afterwards.
// IdempotencyKey is client-generated so a retried submission can be
// deduplicated server-side.
type OrderRequest struct {
	Type           ItemType        `json:"type"`
	StoreID        int64           `json:"storeId,omitempty"`
	Items          []OrderItem     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	IdempotencyKey string          `json:"-"`
}

// OrderRecord is the backend's receipt for one created order.
type OrderRecord struct {
	OrderID   string          `json:"orderId"`
	Type      ItemType        `json:"type"`
	StoreID   int64           `json:"storeId,omitempty"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

type CheckoutOutcome string

const (
	OutcomeCompleted       CheckoutOutcome = "COMPLETED"
	OutcomePartiallyFailed CheckoutOutcome = "PARTIALLY_FAILED"
	OutcomeFailed          CheckoutOutcome = "FAILED"
)
