package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yenminh269/themepark-checkout/internal/adapter/repo"
	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
	journal  usecase.CheckoutJournal
}

func NewCheckoutHandler(checkout *usecase.Checkout, journal usecase.CheckoutJournal) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, journal: journal}
}

type checkoutReq struct {
	Payment struct {
		Kind       string `json:"kind" binding:"required,oneof=card cash"`
		CardNumber string `json:"cardNumber"`
		CardHolder string `json:"cardHolder"`
		CardExpiry string `json:"cardExpiry"`
	} `json:"payment" binding:"required"`
}

type groupResultView struct {
	Type     string `json:"type"`
	StoreID  int64  `json:"storeId,omitempty"`
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
	OrderID  string `json:"orderId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type checkoutResp struct {
	AttemptID  string            `json:"attemptId"`
	Outcome    string            `json:"outcome"`
	GrandTotal string            `json:"grandTotal"`
	Groups     []groupResultView `json:"groups"`
}

// Checkout handler: one cart-to-orders attempt. The response always
// enumerates every group so a partial failure is never collapsed into
// a single pass/fail.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sess := sessionID(c)
	if sess == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_session"})
		return
	}

	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated submissions

	// generous budget: groups are submitted one at a time
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	out, err := h.checkout.Execute(ctx, usecase.CheckoutInput{
		SessionID:      sess,
		IdempotencyKey: idemKey,
		Payment: domain.PaymentMethod{
			Kind:       req.Payment.Kind,
			CardNumber: req.Payment.CardNumber,
			CardHolder: req.Payment.CardHolder,
			CardExpiry: req.Payment.CardExpiry,
		},
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrDuplicate) {
			status = http.StatusConflict
		}
		if errors.Is(err, domain.ErrEmptyCart) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	groups := make([]groupResultView, len(out.Results))
	for i, r := range out.Results {
		gv := groupResultView{
			Type:     string(r.Request.Type),
			StoreID:  r.Request.StoreID,
			Subtotal: r.Request.Subtotal.StringFixed(2),
			Tax:      r.Request.Tax.StringFixed(2),
			Total:    r.Request.Total.StringFixed(2),
		}
		if r.Record != nil {
			gv.OrderID = r.Record.OrderID
		}
		if r.Err != nil {
			gv.Error = r.Err.Error()
		}
		groups[i] = gv
	}

	c.JSON(http.StatusOK, checkoutResp{
		AttemptID:  out.AttemptID,
		Outcome:    string(out.Outcome),
		GrandTotal: out.GrandTotal.StringFixed(2),
		Groups:     groups,
	})
}

// GET /v1/checkout/:id returns the journaled attempt, for the ops portal.
func (h *CheckoutHandler) GetAttempt(c *gin.Context) {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	a, err := h.journal.GetAttempt(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          a.ID,
		"session_id":  a.SessionID,
		"outcome":     a.Outcome,
		"grand_total": a.GrandTotal,
		"groups":      a.GroupsJSON,
		"created_at":  a.CreatedAt,
	})
}
