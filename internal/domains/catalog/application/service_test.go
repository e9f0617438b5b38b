package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-saga/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-order-saga/internal/domains/catalog/ports"
)

func TestCreateProduct_AssignsIDAndActivates(t *testing.T) {
	svc := NewService(memory.NewRepository())

	product, err := svc.CreateProduct(context.Background(), "gopher plush", 25.5)
	require.NoError(t, err)
	require.Equal(t, int64(1), product.ID)
	require.True(t, product.Active)

	fetched, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, "gopher plush", fetched.Name)
	require.Equal(t, 25.5, fetched.Price)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.CreateProduct(context.Background(), "  ", 10)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), "gopher plush", 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProduct(t *testing.T) {
	svc := NewService(memory.NewRepository())
	product, err := svc.CreateProduct(context.Background(), "gopher plush", 25.5)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(context.Background(), product.ID, "gopher plush xl", 30)
	require.NoError(t, err)
	require.Equal(t, "gopher plush xl", updated.Name)
	require.Equal(t, float64(30), updated.Price)

	_, err = svc.UpdateProduct(context.Background(), 99, "ghost", 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestToggleActivation(t *testing.T) {
	svc := NewService(memory.NewRepository())
	product, err := svc.CreateProduct(context.Background(), "gopher plush", 25.5)
	require.NoError(t, err)

	toggled, err := svc.ToggleActivation(context.Background(), product.ID)
	require.NoError(t, err)
	require.False(t, toggled.Active)

	toggled, err = svc.ToggleActivation(context.Background(), product.ID)
	require.NoError(t, err)
	require.True(t, toggled.Active)
}

func TestDeleteProduct(t *testing.T) {
	svc := NewService(memory.NewRepository())
	product, err := svc.CreateProduct(context.Background(), "gopher plush", 25.5)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID))
	_, err = svc.GetProduct(context.Background(), product.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, svc.DeleteProduct(context.Background(), product.ID), ports.ErrNotFound)
}
