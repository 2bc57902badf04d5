package handlers

import (
	"errors"
	"net/http"

	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps core errors to a status and a distinct message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientPoints):
		c.JSON(http.StatusConflict, gin.H{"error": "not enough stat points"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUpstream):
		logger.WithContext(c.Request.Context()).Warn("upstream failure", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "identity provider unavailable"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid name or password"})
	default:
		logger.WithContext(c.Request.Context()).Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
