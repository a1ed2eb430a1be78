package parkapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

// Client talks HTTP/JSON to the park backend's order endpoints. Each
// call creates one order; the backend decrements stock atomically and
// answers 409 when authoritative stock cannot satisfy a line.
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateRideOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRecord, error) {
	return c.createOrder(ctx, "/orders/rides", req)
}

func (c *Client) CreateStoreOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRecord, error) {
	return c.createOrder(ctx, "/orders/stores", req)
}

func (c *Client) createOrder(ctx context.Context, path string, req domain.OrderRequest) (domain.OrderRecord, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("X-Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return domain.OrderRecord{}, fmt.Errorf("%w: %s", domain.ErrStockConflict, readError(resp.Body))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.OrderRecord{}, fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, readError(resp.Body))
	}

	var rec domain.OrderRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return domain.OrderRecord{}, fmt.Errorf("decode response: %w", err)
	}
	if rec.OrderID == "" {
		return domain.OrderRecord{}, fmt.Errorf("POST %s: response missing orderId", path)
	}
	return rec, nil
}

// readError pulls a short error message out of a failure body.
func readError(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 2048))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

var _ usecase.OrderPersistence = (*Client)(nil)
