package handlers

import (
	"net/http"

	"rpg_tracker/internal/http/middleware"
	"rpg_tracker/internal/logger"
	"rpg_tracker/internal/service"
	"rpg_tracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades to a websocket that receives the caller's achievement unlocks.
// Browsers cannot set headers here, so the token may come as a query param.
func (h *Handler) WS(hub *ws.Hub, upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = middleware.TokenFromRequest(c)
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		ctx := c.Request.Context()
		claims, err := h.Auth.Tokens().Parse(ctx, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		p, err := h.Players.Resolve(ctx, service.Identity{AccountID: claims.AccountID, AccountName: claims.AccountName})
		if err != nil {
			respondError(c, err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithContext(ctx).Warn("ws upgrade error", "error", err)
			return
		}

		client := ws.NewClient(p.ID, conn, hub)
		go client.Run()
	}
}
