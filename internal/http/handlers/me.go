package handlers

import (
	"net/http"

	"rpg_tracker/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Me returns the caller's account and player, creating the player on
// first access.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	account, err := h.Auth.Account(ctx, claims.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}
	player, err := h.Players.Resolve(ctx, identity(c, claims))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": account,
		"player":  player,
	})
}
