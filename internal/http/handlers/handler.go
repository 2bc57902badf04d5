package handlers

import (
	"rpg_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth         *service.AuthService
	Players      *service.PlayerService
	Training     *service.TrainingService
	Achievements *service.AchievementService
	// Discord is nil when Discord sign-in is not configured
	Discord      *service.DiscordOAuth
	CookieSecure bool
}

// identity builds the caller identity from verified claims.
func identity(c *gin.Context, claims *service.Claims) service.Identity {
	return service.Identity{
		AccountID:   claims.AccountID,
		AccountName: claims.AccountName,
		Locale:      service.PreferredLocale(c.GetHeader("Accept-Language")),
	}
}
