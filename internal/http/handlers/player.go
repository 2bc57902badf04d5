package handlers

import (
	"net/http"

	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/http/middleware"
	"rpg_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// currentPlayer resolves the caller's player or writes an error response.
func (h *Handler) currentPlayer(c *gin.Context) (*domain.Player, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	p, err := h.Players.Resolve(c.Request.Context(), identity(c, claims))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return p, true
}

func (h *Handler) Train(c *gin.Context) {
	var req service.TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	p, ok := h.currentPlayer(c)
	if !ok {
		return
	}

	updated, err := h.Training.Train(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": updated})
}

func (h *Handler) Save(c *gin.Context) {
	p, ok := h.currentPlayer(c)
	if !ok {
		return
	}
	saved, err := h.Players.Save(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": saved})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req domain.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	p, ok := h.currentPlayer(c)
	if !ok {
		return
	}

	updated, err := h.Players.UpdateSettings(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": updated})
}

type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) Rename(c *gin.Context) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	p, ok := h.currentPlayer(c)
	if !ok {
		return
	}

	updated, err := h.Players.Rename(c.Request.Context(), p, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": updated})
}
