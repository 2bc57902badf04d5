package repository

import (
	"context"
	"errors"

	"rpg_tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AchievementRepository struct {
	db *pgxpool.Pool
}

func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// UpsertAchievements writes the catalog definitions in one transaction.
func (r *AchievementRepository) UpsertAchievements(ctx context.Context, defs []domain.Achievement) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, a := range defs {
		_, err := tx.Exec(ctx,
			`INSERT INTO achievements (id, title_en, title_ru, description_en, description_ru, icon,
					requirement_type, requirement_value, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (id) DO UPDATE SET
				title_en = EXCLUDED.title_en,
				title_ru = EXCLUDED.title_ru,
				description_en = EXCLUDED.description_en,
				description_ru = EXCLUDED.description_ru,
				icon = EXCLUDED.icon,
				requirement_type = EXCLUDED.requirement_type,
				requirement_value = EXCLUDED.requirement_value,
				sort_order = EXCLUDED.sort_order`,
			a.ID, a.Title.EN, a.Title.RU, a.Description.EN, a.Description.RU, a.Icon,
			string(a.RequirementKind), a.RequirementValue, a.SortOrder,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *AchievementRepository) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title_en, title_ru, description_en, description_ru, icon,
				requirement_type, requirement_value, sort_order
		 FROM achievements
		 ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		var kind string
		if err := rows.Scan(&a.ID, &a.Title.EN, &a.Title.RU, &a.Description.EN, &a.Description.RU, &a.Icon,
			&kind, &a.RequirementValue, &a.SortOrder); err != nil {
			return nil, err
		}
		a.RequirementKind = domain.RequirementKind(kind)
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *AchievementRepository) ListUnlocked(ctx context.Context, playerID int64) ([]domain.Unlock, error) {
	rows, err := r.db.Query(ctx,
		`SELECT player_id, achievement_id, unlocked_at
		 FROM player_achievements
		 WHERE player_id = $1
		 ORDER BY unlocked_at, achievement_id`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Unlock])
}

// RecordUnlocks inserts all unlocks in one transaction. Rows that already
// exist are skipped and left out of the result.
func (r *AchievementRepository) RecordUnlocks(ctx context.Context, playerID int64, unlocks []domain.Unlock) ([]domain.Unlock, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	inserted := make([]domain.Unlock, 0, len(unlocks))
	for _, u := range unlocks {
		var got domain.Unlock
		err := tx.QueryRow(ctx,
			`INSERT INTO player_achievements (player_id, achievement_id, unlocked_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (player_id, achievement_id) DO NOTHING
			 RETURNING player_id, achievement_id, unlocked_at`,
			playerID, u.AchievementID, u.UnlockedAt,
		).Scan(&got.PlayerID, &got.AchievementID, &got.UnlockedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, mapErr(err)
		}
		inserted = append(inserted, got)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return inserted, nil
}
