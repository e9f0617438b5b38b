// Package http exposes the catalog service over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-order-saga/internal/domains/catalog/application"
	"github.com/Apurer/go-order-saga/internal/domains/catalog/domain"
	"github.com/Apurer/go-order-saga/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-order-saga/internal/shared/errors"
)

// ProductAPI wires HTTP transport with the catalog service.
type ProductAPI struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

// NewProductAPI creates the transport adapter backed by the provided service.
func NewProductAPI(service ports.Service) *ProductAPI {
	return &ProductAPI{
		service:   service,
		responder: apierrors.NewChainedResponder("", mapCatalogError),
	}
}

// RegisterRoutes attaches the catalog endpoints to the router.
func (api *ProductAPI) RegisterRoutes(router gin.IRouter) {
	router.GET("/products", api.ListProducts)
	router.GET("/products/:id", api.GetProduct)
	router.POST("/products", api.CreateProduct)
	router.PUT("/products/:id", api.UpdateProduct)
	router.PATCH("/products/:id", api.ToggleActivation)
	router.DELETE("/products/:id", api.DeleteProduct)
}

type productPayload struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"required"`
}

type productResponse struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

// Get /products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProducts(products))
}

// Get /products/:id
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		api.respondLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, fromProduct(product))
}

// Post /products
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), payload.Name, payload.Price)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromProduct(product))
}

// Put /products/:id
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), id, payload.Name, payload.Price)
	if err != nil {
		api.respondLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, fromProduct(product))
}

// Patch /products/:id
// Flips product availability.
func (api *ProductAPI) ToggleActivation(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	product, err := api.service.ToggleActivation(c.Request.Context(), id)
	if err != nil {
		api.respondLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, fromProduct(product))
}

// Delete /products/:id
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		api.respondLookupError(c, id, err)
		return
	}
	c.Status(http.StatusOK)
}

func (api *ProductAPI) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("product id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (api *ProductAPI) respondLookupError(c *gin.Context, id int64, err error) {
	if errors.Is(err, ports.ErrNotFound) {
		api.responder.Respond(c, apierrors.NewNotFoundProblem("product", id))
		return
	}
	api.responder.RespondError(c, err)
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, application.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func fromProduct(product *domain.Product) productResponse {
	return productResponse{
		ID:     product.ID,
		Name:   product.Name,
		Price:  product.Price,
		Active: product.Active,
	}
}

func fromProducts(products []*domain.Product) []productResponse {
	result := make([]productResponse, 0, len(products))
	for _, product := range products {
		result = append(result, fromProduct(product))
	}
	return result
}
