// Package http exposes the order saga over gin.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Apurer/go-order-saga/internal/domains/orders/application"
	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-order-saga/internal/shared/errors"
)

// OrderAPI wires HTTP transport with the saga service.
type OrderAPI struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

// NewOrderAPI creates the transport adapter backed by the provided service.
func NewOrderAPI(service ports.Service) *OrderAPI {
	return &OrderAPI{
		service:   service,
		responder: apierrors.NewChainedResponder("", mapOrderError),
	}
}

// RegisterRoutes attaches the order endpoints to the router. The
// process-level /healthz route is owned by the app wiring, not here.
func (api *OrderAPI) RegisterRoutes(router gin.IRouter) {
	router.POST("/orders", api.CreateOrder)
}

type createOrderRequest struct {
	ProductID      int64  `json:"productId" binding:"required"`
	Quantity       int32  `json:"quantity" binding:"required"`
	PaymentMethod  string `json:"paymentMethod" binding:"required"`
	MailingAddress string `json:"mailingAddress" binding:"required"`
}

type orderResponse struct {
	OrderID    string  `json:"orderId"`
	Status     string  `json:"status"`
	ProductID  int64   `json:"productId"`
	Quantity   int32   `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
	PaymentID  int64   `json:"paymentId"`
	PurchaseID int64   `json:"purchaseId"`
}

// Post /orders
// Runs the order saga to a terminal outcome.
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, bindingProblem(err))
		return
	}
	confirmation, err := api.service.CreateOrder(c.Request.Context(), ports.CreateOrderInput{
		ProductID:      payload.ProductID,
		Quantity:       payload.Quantity,
		PaymentMethod:  payload.PaymentMethod,
		MailingAddress: payload.MailingAddress,
	})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse{
		OrderID:    confirmation.OrderID,
		Status:     string(confirmation.State),
		ProductID:  confirmation.ProductID,
		Quantity:   confirmation.Quantity,
		UnitPrice:  confirmation.UnitPrice,
		TotalPrice: confirmation.TotalPrice,
		PaymentID:  confirmation.PaymentID,
		PurchaseID: confirmation.PurchaseID,
	})
}

// bindingProblem distinguishes field-level validation failures from
// malformed payloads: the former carry the offending fields as a
// problem extension.
func bindingProblem(err error) apierrors.ProblemDetail {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		return apierrors.NewValidationProblem(fields)
	}
	return apierrors.ErrBadRequest.WithDetail(err.Error())
}

// mapOrderError translates saga failures into problem responses. The
// first failure of the saga determines the status; compensation outcomes
// never surface here.
func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrRejected):
		return apierrors.ErrPaymentRejected.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrUnavailable):
		return apierrors.ErrUpstreamUnavailable.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
