package service

import (
	"context"
	"time"

	"rpg_tracker/internal/domain"
)

// PlayerStore persists player records. Implementations return
// domain.ErrNotFound for unknown ids and domain.ErrInsufficientPoints when
// an allocation would overdraw stat points.
type PlayerStore interface {
	GetPlayerByAccount(ctx context.Context, accountID int64) (*domain.Player, error)
	// CreatePlayerIfAbsent inserts p unless the account already owns a
	// player, and returns whichever record exists afterwards.
	CreatePlayerIfAbsent(ctx context.Context, p *domain.Player) (player *domain.Player, created bool, err error)
	// ApplyAllocation checks and spends points in one atomic step.
	ApplyAllocation(ctx context.Context, playerID int64, alloc domain.Allocation, at time.Time) (*domain.Player, error)
	TouchLastSave(ctx context.Context, playerID int64, at time.Time) (*domain.Player, error)
	UpdateSettings(ctx context.Context, playerID int64, upd domain.SettingsUpdate) (*domain.Player, error)
	RenamePlayer(ctx context.Context, playerID int64, name string) (*domain.Player, error)
}

// AchievementStore persists the catalog and unlock records.
type AchievementStore interface {
	UpsertAchievements(ctx context.Context, defs []domain.Achievement) error
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
	ListUnlocked(ctx context.Context, playerID int64) ([]domain.Unlock, error)
	// RecordUnlocks stores all unlocks or none, skipping ones already
	// present, and returns the unlocks it actually inserted.
	RecordUnlocks(ctx context.Context, playerID int64, unlocks []domain.Unlock) ([]domain.Unlock, error)
}

// AccountStore persists identities. CreateAccount returns
// domain.ErrConflict on a duplicate name or discord id.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *domain.Account) error
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByName(ctx context.Context, name string) (*domain.Account, error)
	GetAccountByDiscordID(ctx context.Context, discordID string) (*domain.Account, error)
}

// AuditStore persists audit log entries.
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
