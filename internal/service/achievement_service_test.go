package service_test

import (
	"context"
	"errors"
	"testing"

	"rpg_tracker/internal/achievement"
	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/repository/memory"
	"rpg_tracker/internal/service"

	"github.com/stretchr/testify/suite"
)

type AchievementServiceSuite struct {
	suite.Suite
	f   *fixture
	ctx context.Context
}

func TestAchievementServiceSuite(t *testing.T) {
	suite.Run(t, new(AchievementServiceSuite))
}

func (s *AchievementServiceSuite) SetupTest() {
	s.f = newFixture()
	s.ctx = context.Background()
	s.Require().NoError(s.f.achievements.Seed(s.ctx))
}

func ids(views []service.AchievementView) []string {
	res := make([]string, 0, len(views))
	for _, v := range views {
		res = append(res, v.ID)
	}
	return res
}

func (s *AchievementServiceSuite) TestSeedStoresCatalog() {
	stored, err := s.f.store.ListAchievements(s.ctx)
	s.Require().NoError(err)
	s.Len(stored, achievement.DefaultCatalog().Len())
}

func (s *AchievementServiceSuite) TestCheckDefaultPlayerUnlocksNothing() {
	p := s.f.player(s.ctx, 1)

	got, err := s.f.achievements.Check(s.ctx, p)
	s.Require().NoError(err)
	s.NotNil(got)
	s.Empty(got)
	s.Equal(0, s.f.notifier.count(p.ID))
}

func (s *AchievementServiceSuite) TestCheckLevelFive() {
	p := s.f.player(s.ctx, 1)
	p.Level = 5

	got, err := s.f.achievements.Check(s.ctx, p)
	s.Require().NoError(err)
	s.Equal([]string{"lvl_5"}, ids(got))
	s.True(got[0].Unlocked)
	s.Require().NotNil(got[0].UnlockedAt)
	s.Equal(testNow, *got[0].UnlockedAt)
}

func (s *AchievementServiceSuite) TestCheckGoldBoundary() {
	p := s.f.player(s.ctx, 1)
	p.Gold = 999

	got, err := s.f.achievements.Check(s.ctx, p)
	s.Require().NoError(err)
	s.Empty(got)

	p.Gold = 1000
	got, err = s.f.achievements.Check(s.ctx, p)
	s.Require().NoError(err)
	s.Equal([]string{"gold_1000"}, ids(got))
}

func (s *AchievementServiceSuite) TestCheckIsIdempotent() {
	p := s.f.player(s.ctx, 1)
	p.Level, p.Strength, p.Gold = 10, 12, 5000

	first, err := s.f.achievements.Check(s.ctx, p)
	s.Require().NoError(err)
	s.Equal([]string{"lvl_5", "str_10", "gold_1000"}, ids(first))

	// timestamps are strictly increasing in evaluation order
	for i := 1; i < len(first); i++ {
		s.True(first[i].UnlockedAt.After(*first[i-1].UnlockedAt))
	}

	second, err := s.f.achievements.Check(s.ctx, p)
	s.Require().NoError(err)
	s.Empty(second)
	s.Equal(1, s.f.notifier.count(p.ID))

	unlocked, err := s.f.store.ListUnlocked(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Len(unlocked, 3)
}

func (s *AchievementServiceSuite) TestListReflectsUnlocks() {
	p := s.f.player(s.ctx, 1)
	p.Locale = "ru"
	p.Gold = 1000

	_, err := s.f.achievements.Check(s.ctx, p)
	s.Require().NoError(err)

	views, err := s.f.achievements.List(s.ctx, p)
	s.Require().NoError(err)
	s.Equal([]string{"lvl_5", "str_10", "gold_1000"}, ids(views))
	s.False(views[0].Unlocked)
	s.Nil(views[0].UnlockedAt)
	s.True(views[2].Unlocked)

	def, _ := achievement.DefaultCatalog().Get("gold_1000")
	s.Equal(def.Title.RU, views[2].Title)
}

func (s *AchievementServiceSuite) TestCheckFailureRecordsNothing() {
	failing := &failingUnlockStore{Store: s.f.store}
	svc := service.NewAchievementService(achievement.DefaultCatalog(), failing, s.f.audit, s.f.notifier).
		WithClock(fixedClock())

	p := s.f.player(s.ctx, 1)
	p.Level, p.Gold = 5, 1000

	_, err := svc.Check(s.ctx, p)
	s.Require().Error(err)

	unlocked, err := s.f.store.ListUnlocked(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(unlocked)
	s.Equal(0, s.f.notifier.count(p.ID))
}

func (s *AchievementServiceSuite) TestCheckWritesAudit() {
	p := s.f.player(s.ctx, 1)
	p.Level = 5

	_, err := s.f.achievements.Check(s.ctx, p)
	s.Require().NoError(err)

	logs, err := s.f.store.GetByAccountID(s.ctx, p.AccountID, 1)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(domain.AuditActionUnlock, logs[0].Action)
	s.Equal("lvl_5", logs[0].Details["achievement_id"])
}

type failingUnlockStore struct {
	*memory.Store
}

func (f *failingUnlockStore) RecordUnlocks(context.Context, int64, []domain.Unlock) ([]domain.Unlock, error) {
	return nil, errors.New("connection reset")
}

