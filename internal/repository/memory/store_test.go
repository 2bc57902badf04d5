package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"rpg_tracker/internal/domain"

	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	now   time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
	s.now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func (s *StoreSuite) createPlayer(accountID int64) *domain.Player {
	p, created, err := s.store.CreatePlayerIfAbsent(s.ctx, domain.NewDefaultPlayer(accountID, "Hero", s.now))
	s.Require().NoError(err)
	s.Require().True(created)
	return p
}

// Account tests

func (s *StoreSuite) TestAccountNamesAreCaseInsensitive() {
	s.Require().NoError(s.store.CreateAccount(s.ctx, &domain.Account{Name: "Alice"}))

	err := s.store.CreateAccount(s.ctx, &domain.Account{Name: "alice"})
	s.ErrorIs(err, domain.ErrConflict)

	a, err := s.store.GetAccountByName(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Equal("Alice", a.Name)
}

func (s *StoreSuite) TestAccountDiscordIndex() {
	id := "123"
	s.Require().NoError(s.store.CreateAccount(s.ctx, &domain.Account{Name: "bob", DiscordID: &id}))

	err := s.store.CreateAccount(s.ctx, &domain.Account{Name: "bob2", DiscordID: &id})
	s.ErrorIs(err, domain.ErrConflict)

	a, err := s.store.GetAccountByDiscordID(s.ctx, "123")
	s.Require().NoError(err)
	s.Equal("bob", a.Name)

	_, err = s.store.GetAccountByDiscordID(s.ctx, "999")
	s.ErrorIs(err, domain.ErrNotFound)
}

// Player tests

func (s *StoreSuite) TestCreatePlayerIfAbsentKeepsExisting() {
	first := s.createPlayer(1)

	again, created, err := s.store.CreatePlayerIfAbsent(s.ctx, domain.NewDefaultPlayer(1, "Other", s.now))
	s.Require().NoError(err)
	s.False(created)
	s.Equal(first.ID, again.ID)
	s.Equal("Hero", again.Name)
}

func (s *StoreSuite) TestConcurrentFirstAccessCreatesOneRecord() {
	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := map[int64]struct{}{}
	createdCount := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, created, err := s.store.CreatePlayerIfAbsent(s.ctx, domain.NewDefaultPlayer(7, "Hero", s.now))
			s.NoError(err)
			mu.Lock()
			defer mu.Unlock()
			ids[p.ID] = struct{}{}
			if created {
				createdCount++
			}
		}()
	}
	wg.Wait()

	s.Len(ids, 1)
	s.Equal(1, createdCount)
}

func (s *StoreSuite) TestApplyAllocation() {
	p := s.createPlayer(1)
	later := s.now.Add(time.Minute)

	updated, err := s.store.ApplyAllocation(s.ctx, p.ID, domain.Allocation{Strength: 2, Vitality: 1}, later)
	s.Require().NoError(err)
	s.Equal(3, updated.Strength)
	s.Equal(2, updated.Vitality)
	s.Equal(2, updated.StatPoints)
	s.Equal(domain.MaxHPFor(2), updated.MaxHP)
	s.Equal(later, updated.LastSave)
}

func (s *StoreSuite) TestApplyAllocationInsufficientLeavesRecord() {
	p := s.createPlayer(1)

	_, err := s.store.ApplyAllocation(s.ctx, p.ID, domain.Allocation{Strength: 6}, s.now)
	s.ErrorIs(err, domain.ErrInsufficientPoints)

	got, err := s.store.GetPlayerByAccount(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(*p, *got)
}

func (s *StoreSuite) TestApplyAllocationUnknownPlayer() {
	_, err := s.store.ApplyAllocation(s.ctx, 42, domain.Allocation{Strength: 1}, s.now)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StoreSuite) TestConcurrentAllocationsNeverOverdraw() {
	p := s.createPlayer(1)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.ApplyAllocation(s.ctx, p.ID, domain.Allocation{Dexterity: 1}, s.now)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			s.ErrorIs(err, domain.ErrInsufficientPoints)
		}()
	}
	wg.Wait()

	got, err := s.store.GetPlayerByAccount(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(domain.DefaultStatPoints, succeeded)
	s.Equal(0, got.StatPoints)
	s.Equal(domain.DefaultAttribute+domain.DefaultStatPoints, got.Dexterity)
}

func (s *StoreSuite) TestReturnedPlayerIsACopy() {
	p := s.createPlayer(1)
	p.Gold = 0

	got, err := s.store.GetPlayerByAccount(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(domain.DefaultGold), got.Gold)
}

func (s *StoreSuite) TestUpdateSettingsPartial() {
	p := s.createPlayer(1)
	theme := "#000000"

	updated, err := s.store.UpdateSettings(s.ctx, p.ID, domain.SettingsUpdate{Theme: &theme})
	s.Require().NoError(err)
	s.Equal(theme, updated.Theme)
	s.Equal(domain.DefaultLocale, updated.Locale)
}

// Achievement tests

func (s *StoreSuite) TestRecordUnlocksSkipsExisting() {
	p := s.createPlayer(1)
	s.Require().NoError(s.store.UpsertAchievements(s.ctx, []domain.Achievement{
		{ID: "a", RequirementKind: domain.RequirementLevel, RequirementValue: 1},
		{ID: "b", RequirementKind: domain.RequirementGold, RequirementValue: 1, SortOrder: 1},
	}))

	first, err := s.store.RecordUnlocks(s.ctx, p.ID, []domain.Unlock{{AchievementID: "a", UnlockedAt: s.now}})
	s.Require().NoError(err)
	s.Len(first, 1)

	second, err := s.store.RecordUnlocks(s.ctx, p.ID, []domain.Unlock{
		{AchievementID: "a", UnlockedAt: s.now.Add(time.Second)},
		{AchievementID: "b", UnlockedAt: s.now.Add(time.Second)},
	})
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Equal("b", second[0].AchievementID)

	all, err := s.store.ListUnlocked(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("a", all[0].AchievementID)
	s.Equal(s.now, all[0].UnlockedAt)
}

func (s *StoreSuite) TestRecordUnlocksIsAllOrNothing() {
	p := s.createPlayer(1)
	s.Require().NoError(s.store.UpsertAchievements(s.ctx, []domain.Achievement{{ID: "a"}}))

	_, err := s.store.RecordUnlocks(s.ctx, p.ID, []domain.Unlock{
		{AchievementID: "a", UnlockedAt: s.now},
		{AchievementID: "missing", UnlockedAt: s.now},
	})
	s.ErrorIs(err, domain.ErrNotFound)

	all, err := s.store.ListUnlocked(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *StoreSuite) TestListAchievementsOrdered() {
	s.Require().NoError(s.store.UpsertAchievements(s.ctx, []domain.Achievement{
		{ID: "z", SortOrder: 0},
		{ID: "a", SortOrder: 2},
		{ID: "m", SortOrder: 1},
	}))

	got, err := s.store.ListAchievements(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal([]string{"z", "m", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

// Audit tests

func (s *StoreSuite) TestAuditNewestFirst() {
	for _, action := range []string{"one", "two", "three"} {
		s.Require().NoError(s.store.Create(s.ctx, &domain.AuditLog{AccountID: 1, Action: action}))
	}
	s.Require().NoError(s.store.Create(s.ctx, &domain.AuditLog{AccountID: 2, Action: "other"}))

	logs, err := s.store.GetByAccountID(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.Require().Len(logs, 2)
	s.Equal("three", logs[0].Action)
	s.Equal("two", logs[1].Action)
}
