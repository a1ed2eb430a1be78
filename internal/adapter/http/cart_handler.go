package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

type CartHandler struct {
	cart *usecase.CartStore
}

func NewCartHandler(cart *usecase.CartStore) *CartHandler {
	return &CartHandler{cart: cart}
}

// sessionID identifies the customer's browser/kiosk session. The JWT
// authenticates the calling client app, not the shopper.
func sessionID(c *gin.Context) string {
	return c.GetHeader("X-Session-Id")
}

type addLineReq struct {
	Type      string `json:"type" binding:"required,oneof=ride store"`
	ItemID    int64  `json:"itemId" binding:"required,gt=0"`
	StoreID   int64  `json:"storeId"`
	Name      string `json:"name" binding:"required"`
	UnitPrice string `json:"unitPrice" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type lineView struct {
	Type      string `json:"type"`
	ItemID    int64  `json:"itemId"`
	StoreID   int64  `json:"storeId,omitempty"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

func toLineView(li domain.LineItem) lineView {
	return lineView{
		Type:      string(li.Type),
		ItemID:    li.ItemID,
		StoreID:   li.StoreID,
		Name:      li.Name,
		UnitPrice: li.UnitPrice.StringFixed(2),
		Quantity:  li.Quantity,
	}
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sess := sessionID(c)
	if sess == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_session"})
		return
	}

	lines := h.cart.Lines(c.Request.Context(), sess)
	views := make([]lineView, len(lines))
	for i, li := range lines {
		views[i] = toLineView(li)
	}
	c.JSON(http.StatusOK, gin.H{"lines": views})
}

// POST /v1/cart/items
func (h *CartHandler) AddLine(c *gin.Context) {
	sess := sessionID(c)
	if sess == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_session"})
		return
	}

	var req addLineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_unit_price"})
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	line, applied, err := h.cart.AddLine(ctx, sess, domain.LineItem{
		Type:      domain.ItemType(req.Type),
		ItemID:    req.ItemID,
		StoreID:   req.StoreID,
		Name:      req.Name,
		UnitPrice: price,
		Quantity:  qty,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// a capped increment is not an error; the UI disables the control
	resp := gin.H{"applied": applied}
	if applied || line.Quantity > 0 {
		resp["line"] = toLineView(line)
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /v1/cart/items?type=&item_id=&store_id=&all=
func (h *CartHandler) RemoveLine(c *gin.Context) {
	sess := sessionID(c)
	if sess == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_session"})
		return
	}

	var q struct {
		Type    string `form:"type" binding:"required,oneof=ride store"`
		ItemID  int64  `form:"item_id" binding:"required,gt=0"`
		StoreID int64  `form:"store_id"`
		All     bool   `form:"all"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	key := domain.LineKey{Type: domain.ItemType(q.Type), ItemID: q.ItemID}
	if key.Type == domain.ItemTypeStore {
		key.StoreID = q.StoreID
	}
	if !h.cart.RemoveLine(ctx, sess, key, q.All) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /v1/cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess := sessionID(c)
	if sess == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_session"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	h.cart.Clear(ctx, sess)
	c.Status(http.StatusNoContent)
}
