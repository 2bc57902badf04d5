package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/logger"
)

const (
	MinPlayerNameLen = 3
	MaxPlayerNameLen = 20
)

var themeColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Identity is what the identity layer resolved for the caller.
type Identity struct {
	AccountID   int64
	AccountName string
	// Locale preferred by the client, used only when a player is created.
	Locale string
}

// PlayerService owns the player record lifecycle and settings.
type PlayerService struct {
	players PlayerStore
	audit   *AuditService
	now     func() time.Time
}

// NewPlayerService creates a player service
func NewPlayerService(players PlayerStore, audit *AuditService) *PlayerService {
	return &PlayerService{players: players, audit: audit, now: time.Now}
}

// WithClock overrides the time source.
func (s *PlayerService) WithClock(now func() time.Time) *PlayerService {
	s.now = now
	return s
}

// Resolve returns the caller's player, creating the default record on first
// access. Concurrent first accesses yield a single record.
func (s *PlayerService) Resolve(ctx context.Context, id Identity) (*domain.Player, error) {
	p, err := s.players.GetPlayerByAccount(ctx, id.AccountID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	def := domain.NewDefaultPlayer(id.AccountID, defaultPlayerName(id.AccountName), s.now().UTC())
	if loc, ok := NormalizeLocale(id.Locale); ok {
		def.Locale = loc
	}

	p, created, err := s.players.CreatePlayerIfAbsent(ctx, def)
	if err != nil {
		return nil, err
	}
	if created {
		PlayersCreated.Inc()
		logger.WithContext(ctx).Info("player created", "account_id", id.AccountID, "player_id", p.ID)
		s.audit.Log(ctx, id.AccountID, domain.AuditActionPlayerCreated, domain.AuditCategoryProgression, map[string]any{
			"player_id": p.ID,
		})
	}
	return p, nil
}

// Save refreshes the last_save timestamp.
func (s *PlayerService) Save(ctx context.Context, p *domain.Player) (*domain.Player, error) {
	return s.players.TouchLastSave(ctx, p.ID, s.now().UTC())
}

// UpdateSettings validates and applies locale/theme changes.
func (s *PlayerService) UpdateSettings(ctx context.Context, p *domain.Player, upd domain.SettingsUpdate) (*domain.Player, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if upd.Locale != nil {
		loc, ok := NormalizeLocale(*upd.Locale)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported locale %q", domain.ErrValidation, *upd.Locale)
		}
		upd.Locale = &loc
	}
	if upd.Theme != nil {
		theme := strings.ToLower(strings.TrimSpace(*upd.Theme))
		if !themeColorRe.MatchString(theme) {
			return nil, fmt.Errorf("%w: malformed color %q", domain.ErrValidation, *upd.Theme)
		}
		upd.Theme = &theme
	}

	updated, err := s.players.UpdateSettings(ctx, p.ID, upd)
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, p.AccountID, domain.AuditActionSettings, domain.AuditCategorySettings, map[string]any{
		"locale": updated.Locale,
		"theme":  updated.Theme,
	})
	return updated, nil
}

// Rename changes the player's display name.
func (s *PlayerService) Rename(ctx context.Context, p *domain.Player, name string) (*domain.Player, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinPlayerNameLen {
		return nil, fmt.Errorf("%w: name too short", domain.ErrValidation)
	}
	if n > MaxPlayerNameLen {
		return nil, fmt.Errorf("%w: name too long", domain.ErrValidation)
	}

	updated, err := s.players.RenamePlayer(ctx, p.ID, name)
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, p.AccountID, domain.AuditActionRename, domain.AuditCategorySettings, map[string]any{
		"from": p.Name,
		"to":   updated.Name,
	})
	return updated, nil
}

func defaultPlayerName(accountName string) string {
	name := strings.TrimSpace(accountName)
	if utf8.RuneCountInString(name) > MaxPlayerNameLen {
		name = string([]rune(name)[:MaxPlayerNameLen])
	}
	if utf8.RuneCountInString(name) < MinPlayerNameLen {
		return "Adventurer"
	}
	return name
}
