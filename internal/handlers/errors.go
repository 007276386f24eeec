package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/internal/services"
)

// respondServiceError maps service errors to HTTP responses. Insufficient
// funds gets its own shape so the UI can show the shortfall.
func respondServiceError(c *gin.Context, err error) {
	var insufficient *repository.InsufficientFundsError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     insufficient.Error(),
			"code":      "insufficient_funds",
			"currency":  insufficient.Currency,
			"required":  insufficient.Required,
			"available": insufficient.Available,
			"shortfall": insufficient.Shortfall(),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, repository.ErrCashBoxNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyPaid), errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidCurrency),
		errors.Is(err, services.ErrClientDeleted),
		errors.Is(err, services.ErrProjectDeleted),
		errors.Is(err, services.ErrNoExchangeRate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
