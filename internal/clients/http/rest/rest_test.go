package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

func TestDo_DecodesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/1", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "price": 9.5})
	}))
	defer server.Close()

	client, err := New(server.URL, nil)
	require.NoError(t, err)

	var out struct {
		ID    int64   `json:"id"`
		Price float64 `json:"price"`
	}
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/products/1", nil, &out))
	require.Equal(t, int64(1), out.ID)
	require.Equal(t, 9.5, out.Price)
}

func TestDo_SendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(3), body["quantity"])
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := New(server.URL, nil)
	require.NoError(t, err)
	err = client.Do(context.Background(), http.MethodPut, "/inventory/reduce/1", map[string]any{"quantity": 3}, nil)
	require.NoError(t, err)
}

func TestDo_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, want: ports.ErrNotFound},
		{name: "bad request", status: http.StatusBadRequest, want: ports.ErrRejected},
		{name: "conflict", status: http.StatusConflict, want: ports.ErrRejected},
		{name: "server error", status: http.StatusInternalServerError, want: ports.ErrUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, want: ports.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client, err := New(server.URL, nil)
			require.NoError(t, err)
			err = client.Do(context.Background(), http.MethodGet, "/inventory/1", nil, nil)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDo_SurfacesProblemDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"title": "Insufficient stock", "detail": "have 2, want 5"})
	}))
	defer server.Close()

	client, err := New(server.URL, nil)
	require.NoError(t, err)
	err = client.Do(context.Background(), http.MethodPut, "/inventory/reduce/1", nil, nil)
	require.ErrorIs(t, err, ports.ErrRejected)
	require.Contains(t, err.Error(), "have 2, want 5")
}

func TestDo_TimeoutMapsToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL, &http.Client{Timeout: 20 * time.Millisecond})
	require.NoError(t, err)
	err = client.Do(context.Background(), http.MethodGet, "/inventory/1", nil, nil)
	require.ErrorIs(t, err, ports.ErrUnavailable)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("   ", nil)
	require.Error(t, err)
}
