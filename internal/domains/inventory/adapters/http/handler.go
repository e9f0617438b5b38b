// Package http exposes the inventory service over gin.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-order-saga/internal/domains/inventory/application"
	"github.com/Apurer/go-order-saga/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-saga/internal/domains/inventory/ports"
	collab "github.com/Apurer/go-order-saga/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-order-saga/internal/shared/errors"
)

// StockAPI wires HTTP transport with the inventory service.
type StockAPI struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

// NewStockAPI creates the transport adapter backed by the provided service.
func NewStockAPI(service ports.Service) *StockAPI {
	return &StockAPI{
		service:   service,
		responder: apierrors.NewChainedResponder("", mapInventoryError),
	}
}

// RegisterRoutes attaches the inventory endpoints to the router.
func (api *StockAPI) RegisterRoutes(router gin.IRouter) {
	router.GET("/inventory", api.ListStocks)
	router.GET("/inventory/:id", api.GetStock)
	router.POST("/inventory", api.AddStock)
	router.PUT("/inventory/reduce/:id", api.ReduceStock)
	router.PUT("/inventory/revert/:id", api.RevertStock)
}

type addStockRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
}

type quantityRequest struct {
	Quantity int32 `json:"quantity" binding:"required"`
}

type stockResponse struct {
	ProductID int64     `json:"productId"`
	Quantity  int32     `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Get /inventory
func (api *StockAPI) ListStocks(c *gin.Context) {
	levels, err := api.service.ListStocks(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromLevels(levels))
}

// Get /inventory/:id
func (api *StockAPI) GetStock(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	level, err := api.service.GetStock(c.Request.Context(), id)
	if err != nil {
		api.respondLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, fromLevel(level))
}

// Post /inventory
func (api *StockAPI) AddStock(c *gin.Context) {
	var payload addStockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	level, err := api.service.AddStock(c.Request.Context(), payload.ProductID, payload.Quantity)
	if err != nil {
		api.respondLookupError(c, payload.ProductID, err)
		return
	}
	c.JSON(http.StatusCreated, fromLevel(level))
}

// Put /inventory/reduce/:id
func (api *StockAPI) ReduceStock(c *gin.Context) {
	api.adjust(c, api.service.ReduceStock)
}

// Put /inventory/revert/:id
func (api *StockAPI) RevertStock(c *gin.Context) {
	api.adjust(c, api.service.RevertStock)
}

func (api *StockAPI) adjust(c *gin.Context, op func(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error)) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	var payload quantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	level, err := op(c.Request.Context(), id, payload.Quantity)
	if err != nil {
		api.respondLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, fromLevel(level))
}

func (api *StockAPI) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("product id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (api *StockAPI) respondLookupError(c *gin.Context, id int64, err error) {
	if errors.Is(err, ports.ErrNotFound) {
		api.responder.Respond(c, apierrors.NewNotFoundProblem("stock record", id))
		return
	}
	if errors.Is(err, application.ErrUnknownProduct) {
		api.responder.Respond(c, apierrors.NewNotFoundProblem("product", id))
		return
	}
	api.responder.RespondError(c, err)
}

func mapInventoryError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, domain.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, collab.ErrUnavailable):
		return apierrors.ErrUpstreamUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func fromLevel(level *domain.StockLevel) stockResponse {
	return stockResponse{
		ProductID: level.ProductID,
		Quantity:  level.Quantity,
		UpdatedAt: level.UpdatedAt,
	}
}

func fromLevels(levels []*domain.StockLevel) []stockResponse {
	result := make([]stockResponse, 0, len(levels))
	for _, level := range levels {
		result = append(result, fromLevel(level))
	}
	return result
}
