package http

import (
	"os"
	"path/filepath"
	"time"

	"rpg_tracker/internal/http/handlers"
	"rpg_tracker/internal/http/middleware"
	"rpg_tracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Limits groups the rate limits applied to route groups.
type Limits struct {
	API         int
	APIWindow   time.Duration
	Auth        int
	AuthWindow  time.Duration
	Train       int
	TrainWindow time.Duration
}

// Options configures RegisterRoutes.
type Options struct {
	Handler       *handlers.Handler
	Health        *handlers.HealthHandler
	Hub           *ws.Hub
	Limits        Limits
	AllowedOrigin string
	// FrontendDir is served as static files when set.
	FrontendDir string
}

func RegisterRoutes(r *gin.Engine, opts Options) {
	r.Use(middleware.RequestContext(), middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", opts.Health.Health)
	r.GET("/healthz", opts.Health.Liveness)
	r.GET("/readyz", opts.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(opts.Limits.API, opts.Limits.APIWindow))
	registerAPIRoutes(v1, opts)

	// Legacy /api routes
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(opts.Limits.API, opts.Limits.APIWindow))
	api.GET("/health", opts.Health.Health)
	registerAPIRoutes(api, opts)

	// WebSocket for achievement notifications
	r.GET("/ws", opts.Handler.WS(opts.Hub, ws.NewUpgrader(opts.AllowedOrigin)))

	if opts.FrontendDir != "" {
		registerFrontend(r, opts.FrontendDir)
	}
}

func registerAPIRoutes(api *gin.RouterGroup, opts Options) {
	h := opts.Handler
	jwt := middleware.JWT(h.Auth.Tokens())
	authRL := middleware.RedisRateLimit(opts.Limits.Auth, opts.Limits.AuthWindow)

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", authRL, h.Register)
		auth.POST("/login", authRL, h.Login)
		auth.POST("/logout", jwt, h.Logout)
		auth.GET("/discord", authRL, h.DiscordStart)
		auth.GET("/discord/callback", authRL, h.DiscordCallback)
	}

	api.GET("/me", jwt, h.Me)

	// Player progression
	trainRL := middleware.PlayerRateLimit("train", opts.Limits.Train, opts.Limits.TrainWindow)
	player := api.Group("/player")
	player.Use(jwt)
	{
		player.POST("/train", trainRL, h.Train)
		player.POST("/save", h.Save)
		player.PATCH("/settings", h.UpdateSettings)
		player.POST("/rename", h.Rename)
	}

	// Achievements
	achievements := api.Group("/achievements")
	achievements.Use(jwt)
	{
		achievements.GET("", h.ListAchievements)
		achievements.POST("/check", h.CheckAchievements)
	}
}

func registerFrontend(r *gin.Engine, dir string) {
	index := filepath.Join(dir, "index.html")
	r.StaticFS("/assets", gin.Dir(filepath.Join(dir, "assets"), false))
	r.NoRoute(func(c *gin.Context) {
		if _, err := os.Stat(index); err != nil {
			c.JSON(404, gin.H{"error": "not found"})
			return
		}
		c.File(index)
	})
}
