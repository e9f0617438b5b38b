// Package http exposes the payment service over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	collab "github.com/Apurer/go-order-saga/internal/domains/orders/ports"
	"github.com/Apurer/go-order-saga/internal/domains/payments/application"
	"github.com/Apurer/go-order-saga/internal/domains/payments/domain"
	"github.com/Apurer/go-order-saga/internal/domains/payments/ports"
	apierrors "github.com/Apurer/go-order-saga/internal/shared/errors"
)

// PaymentAPI wires HTTP transport with the payment service.
type PaymentAPI struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

// NewPaymentAPI creates the transport adapter backed by the provided service.
func NewPaymentAPI(service ports.Service) *PaymentAPI {
	return &PaymentAPI{
		service:   service,
		responder: apierrors.NewChainedResponder("", mapPaymentError),
	}
}

// RegisterRoutes attaches the payment endpoints to the router.
func (api *PaymentAPI) RegisterRoutes(router gin.IRouter) {
	router.GET("/payments", api.ListPayments)
	router.GET("/payments/:id", api.GetPayment)
	router.POST("/payments", api.CreatePayment)
	router.DELETE("/payments/:id", api.DeletePayment)
}

type createPaymentRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Quantity  int32  `json:"quantity" binding:"required"`
	Method    string `json:"paymentMethod" binding:"required"`
}

type paymentResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Quantity  int32     `json:"quantity"`
	Method    string    `json:"paymentMethod"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Get /payments
func (api *PaymentAPI) ListPayments(c *gin.Context) {
	payments, err := api.service.ListPayments(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromPayments(payments))
}

// Get /payments/:id
func (api *PaymentAPI) GetPayment(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	payment, err := api.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		api.respondLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, fromPayment(payment))
}

// Post /payments
func (api *PaymentAPI) CreatePayment(c *gin.Context) {
	var payload createPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	payment, err := api.service.CreatePayment(c.Request.Context(),
		payload.ProductID, payload.Quantity, domain.Method(payload.Method))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromPayment(payment))
}

// Delete /payments/:id
// Removing an absent payment still succeeds.
func (api *PaymentAPI) DeletePayment(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	if err := api.service.DeletePayment(c.Request.Context(), id); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (api *PaymentAPI) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("payment id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (api *PaymentAPI) respondLookupError(c *gin.Context, id int64, err error) {
	if errors.Is(err, ports.ErrNotFound) {
		api.responder.Respond(c, apierrors.NewNotFoundProblem("payment", id))
		return
	}
	api.responder.RespondError(c, err)
}

func mapPaymentError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrUnknownProduct):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrStockRejected):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, collab.ErrUnavailable):
		return apierrors.ErrUpstreamUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func fromPayment(payment *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:        payment.ID,
		ProductID: payment.ProductID,
		Quantity:  payment.Quantity,
		Method:    string(payment.Method),
		Amount:    payment.Amount,
		CreatedAt: payment.CreatedAt,
	}
}

func fromPayments(payments []*domain.Payment) []paymentResponse {
	result := make([]paymentResponse, 0, len(payments))
	for _, payment := range payments {
		result = append(result, fromPayment(payment))
	}
	return result
}
