package service_test

import (
	"context"
	"sync"
	"time"

	"rpg_tracker/internal/achievement"
	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/repository/memory"
	"rpg_tracker/internal/service"

	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

type fixture struct {
	store        *memory.Store
	audit        *service.AuditService
	players      *service.PlayerService
	training     *service.TrainingService
	achievements *service.AchievementService
	notifier     *recordingNotifier
	auth         *service.AuthService
	tokens       *service.TokenManager
}

func newFixture() *fixture {
	store := memory.New()
	audit := service.NewAuditService(store)
	notifier := &recordingNotifier{}
	tokens, err := service.NewTokenManager("test-secret", service.NewMemoryRevoker())
	if err != nil {
		panic(err)
	}
	tokens.WithClock(fixedClock())

	return &fixture{
		store:    store,
		audit:    audit,
		players:  service.NewPlayerService(store, audit).WithClock(fixedClock()),
		training: service.NewTrainingService(store, audit).WithClock(fixedClock()),
		achievements: service.NewAchievementService(achievement.DefaultCatalog(), store, audit, notifier).
			WithClock(fixedClock()),
		notifier: notifier,
		auth:     service.NewAuthService(store, tokens, audit).WithBcryptCost(bcrypt.MinCost),
		tokens:   tokens,
	}
}

func (f *fixture) player(ctx context.Context, accountID int64) *domain.Player {
	p, err := f.players.Resolve(ctx, service.Identity{AccountID: accountID, AccountName: "hero"})
	if err != nil {
		panic(err)
	}
	return p
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls map[int64][][]service.AchievementView
}

func (n *recordingNotifier) NotifyUnlocks(playerID int64, unlocked []service.AchievementView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.calls == nil {
		n.calls = make(map[int64][][]service.AchievementView)
	}
	n.calls[playerID] = append(n.calls[playerID], unlocked)
}

func (n *recordingNotifier) count(playerID int64) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls[playerID])
}
