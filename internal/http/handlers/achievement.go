package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListAchievements(c *gin.Context) {
	p, ok := h.currentPlayer(c)
	if !ok {
		return
	}
	views, err := h.Achievements.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": views})
}

// CheckAchievements evaluates the caller and returns only what this call unlocked.
func (h *Handler) CheckAchievements(c *gin.Context) {
	p, ok := h.currentPlayer(c)
	if !ok {
		return
	}
	unlocked, err := h.Achievements.Check(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
}
