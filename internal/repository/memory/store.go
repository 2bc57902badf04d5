package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/service"
)

// Store is an in-memory implementation of the service stores. It keeps the
// same conditional semantics as the postgres repositories.
type Store struct {
	mu sync.RWMutex

	accounts       map[int64]*domain.Account
	nameIndex      map[string]int64
	discordIndex   map[string]int64
	players        map[int64]*domain.Player
	accountPlayers map[int64]int64
	achievements   map[string]domain.Achievement
	unlocks        map[int64]map[string]domain.Unlock
	audit          []*domain.AuditLog

	nextAccountID int64
	nextPlayerID  int64
	nextAuditID   int64
}

// New creates an empty store
func New() *Store {
	return &Store{
		accounts:       make(map[int64]*domain.Account),
		nameIndex:      make(map[string]int64),
		discordIndex:   make(map[string]int64),
		players:        make(map[int64]*domain.Player),
		accountPlayers: make(map[int64]int64),
		achievements:   make(map[string]domain.Achievement),
		unlocks:        make(map[int64]map[string]domain.Unlock),
	}
}

var (
	_ service.PlayerStore      = (*Store)(nil)
	_ service.AchievementStore = (*Store)(nil)
	_ service.AccountStore     = (*Store)(nil)
	_ service.AuditStore       = (*Store)(nil)
)

// Account operations

func (s *Store) CreateAccount(ctx context.Context, a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(a.Name)
	if _, ok := s.nameIndex[key]; ok {
		return domain.ErrConflict
	}
	if a.DiscordID != nil {
		if _, ok := s.discordIndex[*a.DiscordID]; ok {
			return domain.ErrConflict
		}
	}

	s.nextAccountID++
	a.ID = s.nextAccountID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	s.accounts[a.ID] = &cp
	s.nameIndex[key] = a.ID
	if a.DiscordID != nil {
		s.discordIndex[*a.DiscordID] = a.ID
	}
	return nil
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) GetAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	s.mu.RLock()
	id, ok := s.nameIndex[strings.ToLower(name)]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.GetAccountByID(ctx, id)
}

func (s *Store) GetAccountByDiscordID(ctx context.Context, discordID string) (*domain.Account, error) {
	s.mu.RLock()
	id, ok := s.discordIndex[discordID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.GetAccountByID(ctx, id)
}

// Player operations

func (s *Store) GetPlayerByAccount(ctx context.Context, accountID int64) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountPlayers[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s.players[id]
	return &cp, nil
}

func (s *Store) CreatePlayerIfAbsent(ctx context.Context, p *domain.Player) (*domain.Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.accountPlayers[p.AccountID]; ok {
		cp := *s.players[id]
		return &cp, false, nil
	}

	s.nextPlayerID++
	stored := *p
	stored.ID = s.nextPlayerID
	s.players[stored.ID] = &stored
	s.accountPlayers[stored.AccountID] = stored.ID

	cp := stored
	return &cp, true, nil
}

// mutate runs fn on the stored player under the write lock and returns a copy.
func (s *Store) mutate(playerID int64, fn func(p *domain.Player) error) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ApplyAllocation(ctx context.Context, playerID int64, alloc domain.Allocation, at time.Time) (*domain.Player, error) {
	return s.mutate(playerID, func(p *domain.Player) error {
		if p.StatPoints < alloc.Points() {
			return domain.ErrInsufficientPoints
		}
		alloc.Apply(p, at)
		return nil
	})
}

func (s *Store) TouchLastSave(ctx context.Context, playerID int64, at time.Time) (*domain.Player, error) {
	return s.mutate(playerID, func(p *domain.Player) error {
		p.LastSave = at
		return nil
	})
}

func (s *Store) UpdateSettings(ctx context.Context, playerID int64, upd domain.SettingsUpdate) (*domain.Player, error) {
	return s.mutate(playerID, func(p *domain.Player) error {
		if upd.Locale != nil {
			p.Locale = *upd.Locale
		}
		if upd.Theme != nil {
			p.Theme = *upd.Theme
		}
		return nil
	})
}

func (s *Store) RenamePlayer(ctx context.Context, playerID int64, name string) (*domain.Player, error) {
	return s.mutate(playerID, func(p *domain.Player) error {
		p.Name = name
		return nil
	})
}

// Achievement operations

func (s *Store) UpsertAchievements(ctx context.Context, defs []domain.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range defs {
		s.achievements[a.ID] = a
	}
	return nil
}

func (s *Store) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.Achievement, 0, len(s.achievements))
	for _, a := range s.achievements {
		res = append(res, a)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].SortOrder != res[j].SortOrder {
			return res[i].SortOrder < res[j].SortOrder
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *Store) ListUnlocked(ctx context.Context, playerID int64) ([]domain.Unlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.Unlock, 0, len(s.unlocks[playerID]))
	for _, u := range s.unlocks[playerID] {
		res = append(res, u)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].UnlockedAt.Equal(res[j].UnlockedAt) {
			return res[i].UnlockedAt.Before(res[j].UnlockedAt)
		}
		return res[i].AchievementID < res[j].AchievementID
	})
	return res, nil
}

func (s *Store) RecordUnlocks(ctx context.Context, playerID int64, unlocks []domain.Unlock) ([]domain.Unlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[playerID]; !ok {
		return nil, domain.ErrNotFound
	}
	for _, u := range unlocks {
		if _, ok := s.achievements[u.AchievementID]; !ok {
			return nil, domain.ErrNotFound
		}
	}

	have := s.unlocks[playerID]
	if have == nil {
		have = make(map[string]domain.Unlock)
		s.unlocks[playerID] = have
	}
	inserted := make([]domain.Unlock, 0, len(unlocks))
	for _, u := range unlocks {
		if _, ok := have[u.AchievementID]; ok {
			continue
		}
		u.PlayerID = playerID
		have[u.AchievementID] = u
		inserted = append(inserted, u)
	}
	return inserted, nil
}

// Audit operations

func (s *Store) Create(ctx context.Context, log *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAuditID++
	log.ID = s.nextAuditID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	cp := *log
	s.audit = append(s.audit, &cp)
	return nil
}

// GetByAccountID returns the latest audit logs for an account, newest first.
func (s *Store) GetByAccountID(ctx context.Context, accountID int64, limit int) ([]*domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []*domain.AuditLog
	for i := len(s.audit) - 1; i >= 0 && (limit <= 0 || len(res) < limit); i-- {
		if s.audit[i].AccountID == accountID {
			cp := *s.audit[i]
			res = append(res, &cp)
		}
	}
	return res, nil
}
