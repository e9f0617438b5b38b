// Package http exposes the purchase service over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-order-saga/internal/domains/purchases/application"
	"github.com/Apurer/go-order-saga/internal/domains/purchases/domain"
	"github.com/Apurer/go-order-saga/internal/domains/purchases/ports"
	apierrors "github.com/Apurer/go-order-saga/internal/shared/errors"
)

// PurchaseAPI wires HTTP transport with the purchase service.
type PurchaseAPI struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

// NewPurchaseAPI creates the transport adapter backed by the provided service.
func NewPurchaseAPI(service ports.Service) *PurchaseAPI {
	return &PurchaseAPI{
		service:   service,
		responder: apierrors.NewChainedResponder("", mapPurchaseError),
	}
}

// RegisterRoutes attaches the purchase endpoints to the router.
func (api *PurchaseAPI) RegisterRoutes(router gin.IRouter) {
	router.GET("/purchases", api.ListPurchases)
	router.GET("/purchases/:id", api.GetPurchase)
	router.POST("/purchases", api.CreatePurchase)
	router.DELETE("/purchases/:id", api.DeletePurchase)
}

type createPurchaseRequest struct {
	ProductID      int64   `json:"productId" binding:"required"`
	Quantity       int32   `json:"quantity" binding:"required"`
	TotalPrice     float64 `json:"totalPrice" binding:"required"`
	PaymentMethod  string  `json:"paymentMethod"`
	MailingAddress string  `json:"mailingAddress" binding:"required"`
}

type purchaseResponse struct {
	ID             int64     `json:"id"`
	ProductID      int64     `json:"productId"`
	Quantity       int32     `json:"quantity"`
	TotalPrice     float64   `json:"totalPrice"`
	PaymentMethod  string    `json:"paymentMethod"`
	MailingAddress string    `json:"mailingAddress"`
	PurchasedAt    time.Time `json:"purchasedAt"`
}

// Get /purchases
func (api *PurchaseAPI) ListPurchases(c *gin.Context) {
	purchases, err := api.service.ListPurchases(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromPurchases(purchases))
}

// Get /purchases/:id
func (api *PurchaseAPI) GetPurchase(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	purchase, err := api.service.GetPurchase(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			api.responder.Respond(c, apierrors.NewNotFoundProblem("purchase", id))
			return
		}
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromPurchase(purchase))
}

// Post /purchases
func (api *PurchaseAPI) CreatePurchase(c *gin.Context) {
	var payload createPurchaseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	purchase, err := api.service.CreatePurchase(c.Request.Context(),
		payload.ProductID, payload.Quantity, payload.TotalPrice, payload.PaymentMethod, payload.MailingAddress)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromPurchase(purchase))
}

// Delete /purchases/:id
// Removing an absent purchase still succeeds.
func (api *PurchaseAPI) DeletePurchase(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	if err := api.service.DeletePurchase(c.Request.Context(), id); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (api *PurchaseAPI) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("purchase id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func mapPurchaseError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, application.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func fromPurchase(purchase *domain.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:             purchase.ID,
		ProductID:      purchase.ProductID,
		Quantity:       purchase.Quantity,
		TotalPrice:     purchase.TotalPrice,
		PaymentMethod:  purchase.PaymentMethod,
		MailingAddress: purchase.MailingAddress,
		PurchasedAt:    purchase.PurchasedAt,
	}
}

func fromPurchases(purchases []*domain.Purchase) []purchaseResponse {
	result := make([]purchaseResponse, 0, len(purchases))
	for _, purchase := range purchases {
		result = append(result, fromPurchase(purchase))
	}
	return result
}
