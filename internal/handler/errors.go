package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frescolabs/storefront-api/internal/service"
)

// respondError maps domain sentinels to HTTP status codes and the
// user-facing messages the storefront shows verbatim.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Este correo electrónico ya está registrado."})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo electrónico o contraseña incorrectos."})
	case errors.Is(err, service.ErrNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "Debes verificar tu correo electrónico antes de iniciar sesión."})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "El código no es válido o ya fue utilizado."})
	case errors.Is(err, service.ErrEmailInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "El nuevo correo electrónico ya está en uso."})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado."})
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado."})
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "El carrito está vacío."})
	case errors.Is(err, service.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Debes iniciar sesión para realizar esta acción."})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
