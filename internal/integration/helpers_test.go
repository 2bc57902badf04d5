package integration

import (
	"context"
	"os"
	"strings"
	"testing"

	"rpg_tracker/internal/db"
	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/migrations"
	"rpg_tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// openPool connects to DATABASE_URL and applies migrations, or skips.
func openPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := db.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.Apply(context.Background(), pool, nil))
	return pool
}

// uniqueName returns an account name that does not collide across runs.
func uniqueName(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func createAccount(t *testing.T, pool *pgxpool.Pool) *domain.Account {
	t.Helper()
	acc := &domain.Account{Name: uniqueName("it")}
	require.NoError(t, repository.NewAccountRepository(pool).CreateAccount(context.Background(), acc))
	return acc
}
