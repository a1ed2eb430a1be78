package usecase

// Published on RabbitMQ after a checkout that created at least one order.
type CheckoutCompletedMsg struct {
	AttemptID  string            `json:"attemptId"`
	SessionID  string            `json:"sessionId"`
	Outcome    string            `json:"outcome"`
	GrandTotal string            `json:"grandTotal"`
	Orders     []CreatedOrderMsg `json:"orders"`
}

type CreatedOrderMsg struct {
	OrderID string `json:"orderId"`
	Type    string `json:"type"`
	StoreID int64  `json:"storeId,omitempty"`
	Total   string `json:"total"`
}

// Consumed from the park backend's Kafka stock feed; keeps the local
// soft-check cache in step with authoritative inventory.
type StockChangedMsg struct {
	StoreID  int64 `json:"storeId"`
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

func newCheckoutCompletedMsg(sessionID string, out CheckoutOutput) CheckoutCompletedMsg {
	msg := CheckoutCompletedMsg{
		AttemptID:  out.AttemptID,
		SessionID:  sessionID,
		Outcome:    string(out.Outcome),
		GrandTotal: out.GrandTotal.StringFixed(2),
	}
	for _, r := range out.Results {
		if r.Record == nil {
			continue
		}
		msg.Orders = append(msg.Orders, CreatedOrderMsg{
			OrderID: r.Record.OrderID,
			Type:    string(r.Request.Type),
			StoreID: r.Request.StoreID,
			Total:   r.Record.Total.StringFixed(2),
		})
	}
	return msg
}
