package handlers

import (
	"net/http"
	"time"

	"rpg_tracker/internal/http/middleware"
	"rpg_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	stateCookie = "oauth_state"
	stateTTL    = 10 * time.Minute
)

type CredentialsRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) setSession(c *gin.Context, sess *service.Session) {
	maxAge := int(time.Until(sess.Claims.ExpiresAt.Time).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, sess.Token, maxAge, "/", "", h.CookieSecure, true)
}

func sessionBody(sess *service.Session) gin.H {
	return gin.H{
		"token":      sess.Token,
		"expires_at": sess.Claims.ExpiresAt.Time,
		"account":    sess.Account,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and password are required"})
		return
	}

	sess, err := h.Auth.Register(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSession(c, sess)
	c.JSON(http.StatusCreated, sessionBody(sess))
}

func (h *Handler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and password are required"})
		return
	}

	sess, err := h.Auth.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSession(c, sess)
	c.JSON(http.StatusOK, sessionBody(sess))
}

func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.Auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// DiscordStart redirects to the Discord consent page.
func (h *Handler) DiscordStart(c *gin.Context) {
	if h.Discord == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "discord sign-in is not configured"})
		return
	}
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int(stateTTL.Seconds()), "/", "", h.CookieSecure, true)
	c.Redirect(http.StatusFound, h.Discord.AuthCodeURL(state))
}

// DiscordCallback completes the OAuth flow and opens a session.
func (h *Handler) DiscordCallback(c *gin.Context) {
	if h.Discord == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "discord sign-in is not configured"})
		return
	}

	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.CookieSecure, true)

	if e := c.Query("error"); e != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "discord sign-in was denied"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
		return
	}

	ctx := c.Request.Context()
	profile, err := h.Discord.Exchange(ctx, code)
	if err != nil {
		respondError(c, err)
		return
	}
	sess, err := h.Auth.LoginDiscord(ctx, profile)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSession(c, sess)
	c.Redirect(http.StatusFound, "/")
}
