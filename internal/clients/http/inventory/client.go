// Package inventory is the typed client for the inventory service.
package inventory

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Apurer/go-order-saga/internal/clients/http/rest"
)

// Client reads and adjusts stock levels in the inventory service.
type Client struct {
	rest *rest.Client
}

// NewClient builds the inventory client for the given base URL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	restClient, err := rest.New(baseURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("build inventory client: %w", err)
	}
	return &Client{rest: restClient}, nil
}

type stockResponse struct {
	ProductID int64 `json:"productId"`
	Quantity  int32 `json:"quantity"`
}

type quantityRequest struct {
	Quantity int32 `json:"quantity"`
}

// GetStockQuantity fetches the available quantity for a product.
func (c *Client) GetStockQuantity(ctx context.Context, productID int64) (int32, error) {
	var stock stockResponse
	if err := c.rest.Do(ctx, http.MethodGet, fmt.Sprintf("/inventory/%d", productID), nil, &stock); err != nil {
		return 0, err
	}
	return stock.Quantity, nil
}

// ReduceStock withdraws quantity from a product's stock. The service
// rejects the call when stock is insufficient; this is the authoritative
// check behind the orchestrator's advisory one.
func (c *Client) ReduceStock(ctx context.Context, productID int64, quantity int32) error {
	return c.rest.Do(ctx, http.MethodPut, fmt.Sprintf("/inventory/reduce/%d", productID), quantityRequest{Quantity: quantity}, nil)
}

// RevertStock returns a previously reduced quantity. Idempotent: the
// service clamps the revert to outstanding reductions.
func (c *Client) RevertStock(ctx context.Context, productID int64, quantity int32) error {
	return c.rest.Do(ctx, http.MethodPut, fmt.Sprintf("/inventory/revert/%d", productID), quantityRequest{Quantity: quantity}, nil)
}
