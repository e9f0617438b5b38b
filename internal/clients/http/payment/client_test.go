package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

func TestCreatePayment_ReturnsAssignedID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(42), body["productId"])
		require.Equal(t, "card", body["paymentMethod"])
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "amount": 76.5})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	id, err := client.CreatePayment(context.Background(), ports.CreatePaymentRequest{
		ProductID:     42,
		Quantity:      3,
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
}

func TestCreatePayment_InsufficientStockIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"title": "Insufficient Stock"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	_, err = client.CreatePayment(context.Background(), ports.CreatePaymentRequest{ProductID: 42, Quantity: 3, PaymentMethod: "card"})
	require.ErrorIs(t, err, ports.ErrRejected)
}

func TestDeletePayment_TargetsPaymentID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)
	require.NoError(t, client.DeletePayment(context.Background(), 7))
	require.Equal(t, "DELETE /payments/7", gotPath)
}
