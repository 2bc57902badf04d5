package repository

import (
	"context"
	"errors"
	"time"

	"rpg_tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `id, account_id, name, gender, level, experience, hp, max_hp, gold, gems, weapon,
	strength, dexterity, vitality, stat_points, locale, theme, created_at, last_save`

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	if err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.Name,
		&p.Gender,
		&p.Level,
		&p.Experience,
		&p.HP,
		&p.MaxHP,
		&p.Gold,
		&p.Gems,
		&p.Weapon,
		&p.Strength,
		&p.Dexterity,
		&p.Vitality,
		&p.StatPoints,
		&p.Locale,
		&p.Theme,
		&p.CreatedAt,
		&p.LastSave,
	); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *PlayerRepository) GetPlayerByAccount(ctx context.Context, accountID int64) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE account_id = $1`, accountID))
}

func (r *PlayerRepository) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

// CreatePlayerIfAbsent inserts p unless the account already has a player.
// On conflict the existing record is re-read instead of failing.
func (r *PlayerRepository) CreatePlayerIfAbsent(ctx context.Context, p *domain.Player) (*domain.Player, bool, error) {
	created, err := scanPlayer(r.db.QueryRow(ctx,
		`INSERT INTO players (account_id, name, gender, level, experience, hp, max_hp, gold, gems, weapon,
				strength, dexterity, vitality, stat_points, locale, theme, created_at, last_save)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 ON CONFLICT (account_id) DO NOTHING
		 RETURNING `+playerColumns,
		p.AccountID, p.Name, p.Gender, p.Level, p.Experience, p.HP, p.MaxHP, p.Gold, p.Gems, p.Weapon,
		p.Strength, p.Dexterity, p.Vitality, p.StatPoints, p.Locale, p.Theme, p.CreatedAt, p.LastSave,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	existing, err := r.GetPlayerByAccount(ctx, p.AccountID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// ApplyAllocation spends stat points only if enough remain, in a single
// statement, so concurrent requests cannot overdraw.
func (r *PlayerRepository) ApplyAllocation(ctx context.Context, playerID int64, alloc domain.Allocation, at time.Time) (*domain.Player, error) {
	p, err := scanPlayer(r.db.QueryRow(ctx,
		`UPDATE players
		 SET strength = strength + $2,
		     dexterity = dexterity + $3,
		     vitality = vitality + $4,
		     stat_points = stat_points - $5,
		     max_hp = $7 + (vitality + $4) * $8,
		     last_save = $6
		 WHERE id = $1 AND stat_points >= $5
		 RETURNING `+playerColumns,
		playerID, alloc.Strength, alloc.Dexterity, alloc.Vitality, alloc.Points(), at,
		domain.BaseHP, domain.HPPerVitality,
	))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Could be not found or insufficient points, check which
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`, playerID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInsufficientPoints
}

func (r *PlayerRepository) TouchLastSave(ctx context.Context, playerID int64, at time.Time) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`UPDATE players SET last_save = $2 WHERE id = $1 RETURNING `+playerColumns,
		playerID, at))
}

func (r *PlayerRepository) UpdateSettings(ctx context.Context, playerID int64, upd domain.SettingsUpdate) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`UPDATE players
		 SET locale = COALESCE($2, locale), theme = COALESCE($3, theme)
		 WHERE id = $1
		 RETURNING `+playerColumns,
		playerID, upd.Locale, upd.Theme))
}

func (r *PlayerRepository) RenamePlayer(ctx context.Context, playerID int64, name string) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`UPDATE players SET name = $2 WHERE id = $1 RETURNING `+playerColumns,
		playerID, name))
}
