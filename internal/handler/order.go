package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frescolabs/storefront-api/internal/dto"
	"github.com/frescolabs/storefront-api/internal/middleware"
	"github.com/frescolabs/storefront-api/internal/model"
	"github.com/frescolabs/storefront-api/internal/service"
)

type OrderHandler struct {
	sessionSvc *service.SessionService
}

func NewOrderHandler(sessionSvc *service.SessionService) *OrderHandler {
	return &OrderHandler{sessionSvc: sessionSvc}
}

// Checkout validates the raw card data from the checkout form, then hands the
// derived payment method to the session service. Number and CVV never travel
// further than this handler.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pm, err := service.ValidateCard(service.CardInput{
		Number: req.Card.Number, Expiry: req.Card.Expiry, CVV: req.Card.CVV,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	addr := model.Address{
		Street: req.Address.Street, City: req.Address.City, State: req.Address.State,
		PostalCode: req.Address.PostalCode, Country: req.Address.Country,
	}

	order, err := h.sessionSvc.Checkout(c.Request.Context(), middleware.GetSessionID(c), addr, pm, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.sessionSvc.Orders(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{Orders: orders, Total: len(orders)})
}

func (h *OrderHandler) EmailOrder(c *gin.Context) {
	orderID := c.Param("id")
	if err := h.sessionSvc.EmailOrder(c.Request.Context(), middleware.GetSessionID(c), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Se ha enviado un recibo del pedido #" + orderID + " a tu correo electrónico.",
	})
}
