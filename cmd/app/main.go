package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rpg_tracker/internal/achievement"
	"rpg_tracker/internal/config"
	"rpg_tracker/internal/db"
	httpServer "rpg_tracker/internal/http"
	"rpg_tracker/internal/http/handlers"
	"rpg_tracker/internal/http/middleware"
	"rpg_tracker/internal/logger"
	"rpg_tracker/internal/migrations"
	"rpg_tracker/internal/repository"
	"rpg_tracker/internal/repository/memory"
	"rpg_tracker/internal/service"
	"rpg_tracker/internal/ws"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var version = "dev"

type stores struct {
	players      service.PlayerStore
	achievements service.AchievementStore
	accounts     service.AccountStore
	audit        service.AuditStore
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	checks := map[string]handlers.Pinger{}

	var st stores
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		mem := memory.New()
		st = stores{players: mem, achievements: mem, accounts: mem, audit: mem}
	default:
		dbPool := db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
		if err := migrations.Apply(ctx, dbPool, func(name string) {
			logger.Info("migration applied", "name", name)
		}); err != nil {
			logger.Fatal("migrations failed", "error", err)
		}
		checks["database"] = dbPool
		st = stores{
			players:      repository.NewPlayerRepository(dbPool),
			achievements: repository.NewAchievementRepository(dbPool),
			accounts:     repository.NewAccountRepository(dbPool),
			audit:        repository.NewAuditRepository(dbPool),
		}
	}

	var revoker service.Revoker = service.NewMemoryRevoker()
	if client := middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); client != nil {
		defer client.Close()
		revoker = service.NewRedisRevoker(client)
		checks["redis"] = redisPinger{client: client}
	}

	tokens, err := service.NewTokenManager(cfg.JWTSecret, revoker)
	if err != nil {
		logger.Fatal("token manager", "error", err)
	}

	hub := ws.NewHub()
	defer hub.Close()

	audit := service.NewAuditService(st.audit)
	achievements := service.NewAchievementService(achievement.DefaultCatalog(), st.achievements, audit, hub)
	if err := achievements.Seed(ctx); err != nil {
		logger.Fatal("seed achievements", "error", err)
	}

	h := &handlers.Handler{
		Auth:         service.NewAuthService(st.accounts, tokens, audit),
		Players:      service.NewPlayerService(st.players, audit),
		Training:     service.NewTrainingService(st.players, audit),
		Achievements: achievements,
		CookieSecure: cfg.CookieSecure,
	}
	if cfg.DiscordEnabled() {
		h.Discord = service.NewDiscordOAuth(service.DiscordConfig{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
		})
	} else {
		logger.Info("discord sign-in disabled")
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, httpServer.Options{
		Handler: h,
		Health:  handlers.NewHealthHandler(version, checks),
		Hub:     hub,
		Limits: httpServer.Limits{
			API:         cfg.RateLimit,
			APIWindow:   cfg.RateWindow,
			Auth:        cfg.AuthRateLimit,
			AuthWindow:  cfg.AuthRateWindow,
			Train:       cfg.TrainRateLimit,
			TrainWindow: cfg.TrainRateWindow,
		},
		AllowedOrigin: cfg.AllowedOrigin,
		FrontendDir:   cfg.FrontendDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "storage", cfg.Storage, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
