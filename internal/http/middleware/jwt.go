package middleware

import (
	"errors"
	"net/http"
	"strings"

	"rpg_tracker/internal/logger"
	"rpg_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookie holds the session token for browser clients.
	TokenCookie = "token"

	ctxClaims = "claims"
	ctxUserID = "user_id"
)

// TokenFromRequest reads the bearer token, then the session cookie.
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// JWT resolves the caller and stores the claims in the gin context.
func JWT(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := TokenFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		claims, err := tokens.Parse(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenRevoked) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			logger.WithContext(c.Request.Context()).Error("token check failed", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "auth unavailable"})
			return
		}

		c.Set(ctxClaims, claims)
		c.Set(ctxUserID, claims.AccountID)
		ctx := logger.ContextWith(c.Request.Context(), "account_id", claims.AccountID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by JWT.
func ClaimsFrom(c *gin.Context) (*service.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok
}
