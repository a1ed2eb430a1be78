package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterhttp "github.com/yenminh269/themepark-checkout/internal/adapter/http"
	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

type memArchive struct {
	blobs map[string][]domain.LineItem
}

func (a *memArchive) Save(_ context.Context, session string, lines []domain.LineItem) error {
	a.blobs[session] = lines
	return nil
}

func (a *memArchive) Load(_ context.Context, session string) ([]domain.LineItem, bool, error) {
	lines, ok := a.blobs[session]
	return lines, ok, nil
}

func (a *memArchive) Delete(_ context.Context, session string) error {
	delete(a.blobs, session)
	return nil
}

var _ usecase.CartArchive = (*memArchive)(nil)

type memStock map[[2]int64]int

func (s memStock) Stock(_ context.Context, storeID, itemID int64) (int, bool, error) {
	n, ok := s[[2]int64{storeID, itemID}]
	return n, ok, nil
}

var _ usecase.StockReader = (memStock)(nil)

func newCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	guard := usecase.NewInventoryGuard(8, memStock{{1, 7}: 2})
	cart := usecase.NewCartStore(guard, &memArchive{blobs: map[string][]domain.LineItem{}})
	h := adapterhttp.NewCartHandler(cart)

	r := gin.New()
	r.GET("/v1/cart", h.GetCart)
	r.POST("/v1/cart/items", h.AddLine)
	r.DELETE("/v1/cart/items", h.RemoveLine)
	r.POST("/v1/cart/clear", h.ClearCart)
	return r
}

func doJSON(r *gin.Engine, method, path, session, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set("X-Session-Id", session)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartAddAndGet(t *testing.T) {
	r := newCartRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/cart/items", "sess-1",
		`{"type":"ride","itemId":3,"name":"Coaster","unitPrice":"10.00","quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"applied": true,
		"line": {"type":"ride","itemId":3,"name":"Coaster","unitPrice":"10.00","quantity":2}
	}`, w.Body.String())

	// same key merges rather than appending
	w = doJSON(r, http.MethodPost, "/v1/cart/items", "sess-1",
		`{"type":"ride","itemId":3,"name":"Coaster","unitPrice":"10.00"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":3`)

	w = doJSON(r, http.MethodGet, "/v1/cart", "sess-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"lines": [{"type":"ride","itemId":3,"name":"Coaster","unitPrice":"10.00","quantity":3}]
	}`, w.Body.String())
}

func TestCartAddClampedByStock(t *testing.T) {
	r := newCartRouter(t)

	// stock for (store 1, item 7) is 2; asking for 5 clamps to 2
	w := doJSON(r, http.MethodPost, "/v1/cart/items", "sess-1",
		`{"type":"store","itemId":7,"storeId":1,"name":"Hat","unitPrice":"15.00","quantity":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":2`)

	// already at cap: nothing applied
	w = doJSON(r, http.MethodPost, "/v1/cart/items", "sess-1",
		`{"type":"store","itemId":7,"storeId":1,"name":"Hat","unitPrice":"15.00"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"applied":false`)
}

func TestCartAddValidation(t *testing.T) {
	r := newCartRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad type", `{"type":"food","itemId":1,"name":"x","unitPrice":"1.00"}`},
		{"missing item id", `{"type":"ride","name":"x","unitPrice":"1.00"}`},
		{"bad price", `{"type":"ride","itemId":1,"name":"x","unitPrice":"ten"}`},
		{"negative price", `{"type":"ride","itemId":1,"name":"x","unitPrice":"-1.00"}`},
		{"store without storeId", `{"type":"store","itemId":1,"name":"x","unitPrice":"1.00"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/v1/cart/items", "sess-1", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCartMissingSession(t *testing.T) {
	r := newCartRouter(t)

	w := doJSON(r, http.MethodGet, "/v1/cart", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_session")
}

func TestCartRemoveLine(t *testing.T) {
	r := newCartRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/cart/items", "sess-1",
		`{"type":"ride","itemId":3,"name":"Coaster","unitPrice":"10.00","quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	// decrement by one
	w = doJSON(r, http.MethodDelete, "/v1/cart/items?type=ride&item_id=3", "sess-1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/cart", "sess-1", "")
	assert.Contains(t, w.Body.String(), `"quantity":1`)

	// all=true drops the line entirely
	w = doJSON(r, http.MethodDelete, "/v1/cart/items?type=ride&item_id=3&all=true", "sess-1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodDelete, "/v1/cart/items?type=ride&item_id=3", "sess-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartClear(t *testing.T) {
	r := newCartRouter(t)

	doJSON(r, http.MethodPost, "/v1/cart/items", "sess-1",
		`{"type":"ride","itemId":3,"name":"Coaster","unitPrice":"10.00"}`)

	w := doJSON(r, http.MethodPost, "/v1/cart/clear", "sess-1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/cart", "sess-1", "")
	assert.JSONEq(t, `{"lines":[]}`, w.Body.String())
}
