// Package payment is the typed client for the payment service.
package payment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Apurer/go-order-saga/internal/clients/http/rest"
	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

// Client creates and deletes payments in the payment service.
type Client struct {
	rest *rest.Client
}

// NewClient builds the payment client for the given base URL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	restClient, err := rest.New(baseURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("build payment client: %w", err)
	}
	return &Client{rest: restClient}, nil
}

type createPaymentRequest struct {
	ProductID     int64  `json:"productId"`
	Quantity      int32  `json:"quantity"`
	PaymentMethod string `json:"paymentMethod"`
}

type paymentResponse struct {
	ID     int64   `json:"id"`
	Amount float64 `json:"amount"`
}

// CreatePayment charges for the order and returns the payment id. The
// payment service reduces inventory as part of this call.
func (c *Client) CreatePayment(ctx context.Context, req ports.CreatePaymentRequest) (int64, error) {
	payload := createPaymentRequest{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		PaymentMethod: req.PaymentMethod,
	}
	var created paymentResponse
	if err := c.rest.Do(ctx, http.MethodPost, "/payments", payload, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// DeletePayment removes a payment. Idempotent: deleting an unknown id
// succeeds.
func (c *Client) DeletePayment(ctx context.Context, paymentID int64) error {
	return c.rest.Do(ctx, http.MethodDelete, fmt.Sprintf("/payments/%d", paymentID), nil, nil)
}
