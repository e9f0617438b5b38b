// Package catalog is the typed client for the catalog service.
package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Apurer/go-order-saga/internal/clients/http/rest"
)

// Client resolves product pricing from the catalog service.
type Client struct {
	rest *rest.Client
}

// NewClient builds the catalog client for the given base URL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	restClient, err := rest.New(baseURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("build catalog client: %w", err)
	}
	return &Client{rest: restClient}, nil
}

type productResponse struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

// GetUnitPrice fetches the current unit price for a product.
func (c *Client) GetUnitPrice(ctx context.Context, productID int64) (float64, error) {
	var product productResponse
	if err := c.rest.Do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, &product); err != nil {
		return 0, err
	}
	return product.Price, nil
}
