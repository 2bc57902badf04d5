package cli

import (
	"context"
	"errors"
	"os"

	"rpg_tracker/internal/db"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds connection settings for admin commands.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`
}

var cfg Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	_ = godotenv.Load()
	cfg = Config{}
	_ = env.Parse(&cfg)

	rootCmd := &cobra.Command{
		Use:   "rpgctl",
		Short: "Admin tool for the RPG tracker",
		Long: `rpgctl manages the RPG tracker database: schema migrations,
achievement catalog seeding, accounts, tokens and the audit log.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres DSN (env: DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Token signing secret (env: JWT_SECRET)")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newAuditCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB(ctx context.Context) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL not set")
	}
	return db.Open(ctx, cfg.DatabaseURL)
}
