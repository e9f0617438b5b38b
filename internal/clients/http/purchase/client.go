// Package purchase is the typed client for the purchase-record service.
package purchase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Apurer/go-order-saga/internal/clients/http/rest"
	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

// Client creates and deletes purchase records.
type Client struct {
	rest *rest.Client
}

// NewClient builds the purchase client for the given base URL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	restClient, err := rest.New(baseURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("build purchase client: %w", err)
	}
	return &Client{rest: restClient}, nil
}

type createPurchaseRequest struct {
	ProductID      int64   `json:"productId"`
	Quantity       int32   `json:"quantity"`
	TotalPrice     float64 `json:"totalPrice"`
	PaymentMethod  string  `json:"paymentMethod"`
	MailingAddress string  `json:"mailingAddress"`
}

type purchaseResponse struct {
	ID int64 `json:"id"`
}

// CreatePurchase records the completed order and returns the purchase id.
func (c *Client) CreatePurchase(ctx context.Context, req ports.CreatePurchaseRequest) (int64, error) {
	payload := createPurchaseRequest{
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		TotalPrice:     req.TotalPrice,
		PaymentMethod:  req.PaymentMethod,
		MailingAddress: req.MailingAddress,
	}
	var created purchaseResponse
	if err := c.rest.Do(ctx, http.MethodPost, "/purchases", payload, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// DeletePurchase removes a purchase record. Idempotent: deleting an
// unknown id succeeds.
func (c *Client) DeletePurchase(ctx context.Context, purchaseID int64) error {
	return c.rest.Do(ctx, http.MethodDelete, fmt.Sprintf("/purchases/%d", purchaseID), nil, nil)
}
