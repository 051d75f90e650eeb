package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/frescolabs/storefront-api/internal/dto"
	"github.com/frescolabs/storefront-api/internal/middleware"
	"github.com/frescolabs/storefront-api/internal/model"
	"github.com/frescolabs/storefront-api/internal/service"
)

type AccountHandler struct {
	accountSvc *service.AccountService
	sessionSvc *service.SessionService
}

func NewAccountHandler(accountSvc *service.AccountService, sessionSvc *service.SessionService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc, sessionSvc: sessionSvc}
}

func (h *AccountHandler) Get(c *gin.Context) {
	user, err := h.accountSvc.Get(c.Request.Context(), middleware.GetUserEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{User: user})
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := middleware.GetUserEmail(c)
	user, err := h.accountSvc.UpdateProfile(c.Request.Context(), email,
		req.Name, req.Email, req.Phone, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshSessionUser(c, user)
	c.JSON(http.StatusOK, gin.H{"message": "Perfil actualizado con éxito.", "user": user})
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	email := middleware.GetUserEmail(c)
	deleted, err := h.accountSvc.DeleteAccount(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "No se pudo encontrar la cuenta para eliminar."})
		return
	}

	// The session is now stale: drop user, cart and wishlist.
	_ = h.sessionSvc.Logout(c.Request.Context(), middleware.GetSessionID(c))
	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Tu cuenta y todos tus datos asociados han sido eliminados exitosamente.",
	})
}

func (h *AccountHandler) AddAddress(c *gin.Context) {
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accountSvc.AddAddress(c.Request.Context(), middleware.GetUserEmail(c), model.Address{
		Street: req.Street, City: req.City, State: req.State,
		PostalCode: req.PostalCode, Country: req.Country,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
		return
	}

	h.refreshSessionUser(c, user)
	c.JSON(http.StatusCreated, gin.H{"message": "Dirección añadida con éxito.", "user": user})
}

func (h *AccountHandler) UpdateAddress(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accountSvc.UpdateAddress(c.Request.Context(), middleware.GetUserEmail(c), model.Address{
		ID: id, Street: req.Street, City: req.City, State: req.State,
		PostalCode: req.PostalCode, Country: req.Country,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
		return
	}

	h.refreshSessionUser(c, user)
	c.JSON(http.StatusOK, gin.H{"message": "Dirección actualizada con éxito.", "user": user})
}

func (h *AccountHandler) DeleteAddress(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	user, err := h.accountSvc.DeleteAddress(c.Request.Context(), middleware.GetUserEmail(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
		return
	}

	h.refreshSessionUser(c, user)
	c.JSON(http.StatusOK, gin.H{"message": "Dirección eliminada con éxito.", "user": user})
}

func (h *AccountHandler) AddPaymentMethod(c *gin.Context) {
	var req dto.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accountSvc.AddPaymentMethod(c.Request.Context(), middleware.GetUserEmail(c), service.CardInput{
		Number: req.Number, Expiry: req.Expiry, CVV: req.CVV,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
		return
	}

	h.refreshSessionUser(c, user)
	c.JSON(http.StatusCreated, gin.H{"message": "Método de pago añadido con éxito.", "user": user})
}

func (h *AccountHandler) DeletePaymentMethod(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	user, err := h.accountSvc.DeletePaymentMethod(c.Request.Context(), middleware.GetUserEmail(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
		return
	}

	h.refreshSessionUser(c, user)
	c.JSON(http.StatusOK, gin.H{"message": "Método de pago eliminado con éxito.", "user": user})
}

func (h *AccountHandler) refreshSessionUser(c *gin.Context, user *model.User) {
	_ = h.sessionSvc.SetCurrentUser(c.Request.Context(), middleware.GetSessionID(c), user)
}
