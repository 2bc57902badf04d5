package service

import (
	"context"
	"time"

	"rpg_tracker/internal/achievement"
	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/logger"
)

// Notifier receives achievements unlocked for a player.
type Notifier interface {
	NotifyUnlocks(playerID int64, unlocked []AchievementView)
}

// AchievementView is a catalog entry localized for one player.
type AchievementView struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Icon             string     `json:"icon"`
	RequirementType  string     `json:"requirement_type"`
	RequirementValue int64      `json:"requirement_value"`
	Unlocked         bool       `json:"unlocked"`
	UnlockedAt       *time.Time `json:"unlocked_at,omitempty"`
}

func newView(a domain.Achievement, locale string) AchievementView {
	return AchievementView{
		ID:               a.ID,
		Title:            a.Title.In(locale),
		Description:      a.Description.In(locale),
		Icon:             a.Icon,
		RequirementType:  string(a.RequirementKind),
		RequirementValue: a.RequirementValue,
	}
}

// AchievementService evaluates and records achievement unlocks.
type AchievementService struct {
	catalog  *achievement.Catalog
	store    AchievementStore
	audit    *AuditService
	notifier Notifier
	now      func() time.Time
}

// NewAchievementService creates an achievement service over an immutable catalog.
func NewAchievementService(catalog *achievement.Catalog, store AchievementStore, audit *AuditService, notifier Notifier) *AchievementService {
	return &AchievementService{
		catalog:  catalog,
		store:    store,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock overrides the time source used for unlock timestamps.
func (s *AchievementService) WithClock(now func() time.Time) *AchievementService {
	s.now = now
	return s
}

// Catalog returns the catalog the service evaluates against.
func (s *AchievementService) Catalog() *achievement.Catalog {
	return s.catalog
}

// Seed upserts the catalog into the store and warns about stored
// definitions the catalog no longer contains.
func (s *AchievementService) Seed(ctx context.Context) error {
	if err := s.store.UpsertAchievements(ctx, s.catalog.Entries()); err != nil {
		return err
	}
	stored, err := s.store.ListAchievements(ctx)
	if err != nil {
		return err
	}
	for _, a := range stored {
		if _, ok := s.catalog.Get(a.ID); !ok {
			logger.Warn("stored achievement is not in catalog", "achievement_id", a.ID)
		}
	}
	logger.Info("achievement catalog seeded", "count", s.catalog.Len())
	return nil
}

// List returns the whole catalog with the player's unlock state.
func (s *AchievementService) List(ctx context.Context, p *domain.Player) ([]AchievementView, error) {
	unlocks, err := s.store.ListUnlocked(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		byID[u.AchievementID] = u.UnlockedAt
	}

	entries := s.catalog.Entries()
	views := make([]AchievementView, 0, len(entries))
	for _, a := range entries {
		v := newView(a, p.Locale)
		if at, ok := byID[a.ID]; ok {
			v.Unlocked = true
			v.UnlockedAt = &at
		}
		views = append(views, v)
	}
	return views, nil
}

// Check evaluates p against the catalog, records every newly satisfied
// entry atomically and returns the ones unlocked by this call.
func (s *AchievementService) Check(ctx context.Context, p *domain.Player) ([]AchievementView, error) {
	unlocks, err := s.store.ListUnlocked(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	already := make(map[string]bool, len(unlocks))
	for _, u := range unlocks {
		already[u.AchievementID] = true
	}

	satisfied := achievement.Evaluate(p, s.catalog, already)
	if len(satisfied) == 0 {
		return []AchievementView{}, nil
	}

	// timestamps follow evaluation order
	base := s.now().UTC().Truncate(time.Microsecond)
	pending := make([]domain.Unlock, 0, len(satisfied))
	for i, a := range satisfied {
		pending = append(pending, domain.Unlock{
			PlayerID:      p.ID,
			AchievementID: a.ID,
			UnlockedAt:    base.Add(time.Duration(i) * time.Microsecond),
		})
	}

	recorded, err := s.store.RecordUnlocks(ctx, p.ID, pending)
	if err != nil {
		return nil, err
	}

	views := make([]AchievementView, 0, len(recorded))
	unlocked := make([]domain.Achievement, 0, len(recorded))
	for _, u := range recorded {
		a, ok := s.catalog.Get(u.AchievementID)
		if !ok {
			continue
		}
		at := u.UnlockedAt
		v := newView(a, p.Locale)
		v.Unlocked = true
		v.UnlockedAt = &at
		views = append(views, v)
		unlocked = append(unlocked, a)
		AchievementsUnlocked.WithLabelValues(a.ID).Inc()
	}

	if len(views) > 0 {
		logger.WithContext(ctx).Info("achievements unlocked", "player_id", p.ID, "count", len(views))
		s.audit.LogUnlocks(ctx, p, unlocked)
		if s.notifier != nil {
			s.notifier.NotifyUnlocks(p.ID, views)
		}
	}
	return views, nil
}
