package repository

import (
	"context"

	"rpg_tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, name, password_hash, discord_id, created_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Name, &a.PasswordHash, &a.DiscordID, &a.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

// CreateAccount inserts a and fills its id and created_at.
func (r *AccountRepository) CreateAccount(ctx context.Context, a *domain.Account) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (name, password_hash, discord_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		a.Name, a.PasswordHash, a.DiscordID,
	).Scan(&a.ID, &a.CreatedAt)
	return mapErr(err)
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

// GetAccountByName matches names case-insensitively.
func (r *AccountRepository) GetAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(name) = lower($1)`, name))
}

func (r *AccountRepository) GetAccountByDiscordID(ctx context.Context, discordID string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE discord_id = $1`, discordID))
}
