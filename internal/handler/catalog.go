package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/frescolabs/storefront-api/internal/dto"
	"github.com/frescolabs/storefront-api/internal/middleware"
	"github.com/frescolabs/storefront-api/internal/service"
)

type CatalogHandler struct {
	catalogSvc *service.CatalogService
	accountSvc *service.AccountService
}

func NewCatalogHandler(catalogSvc *service.CatalogService, accountSvc *service.AccountService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc, accountSvc: accountSvc}
}

func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.catalogSvc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	product, err := h.catalogSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// SubmitReview appends a review authored by the logged-in user's display
// name.
func (h *CatalogHandler) SubmitReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accountSvc.Get(c.Request.Context(), middleware.GetUserEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.catalogSvc.SubmitReview(c.Request.Context(), id, user.Name, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}
