package service

import (
	"context"

	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/logger"
)

// AuditService handles audit logging
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service. A nil store disables auditing.
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry. Failures are logged, never returned.
func (s *AuditService) Log(ctx context.Context, accountID int64, action, category string, details map[string]any) {
	if s == nil || s.repo == nil {
		return
	}

	entry := &domain.AuditLog{
		AccountID: accountID,
		Action:    action,
		Category:  category,
		Details:   details,
	}
	if meta, ok := RequestMetaFrom(ctx); ok {
		entry.IP = meta.IP
		entry.UserAgent = meta.UserAgent
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", action, "account_id", accountID)
	}
}

// LogAuth logs an authentication event
func (s *AuditService) LogAuth(ctx context.Context, accountID int64, action string) {
	s.Log(ctx, accountID, action, domain.AuditCategoryAuth, nil)
}

// LogTrain logs a stat allocation
func (s *AuditService) LogTrain(ctx context.Context, p *domain.Player, alloc domain.Allocation) {
	s.Log(ctx, p.AccountID, domain.AuditActionTrain, domain.AuditCategoryProgression, map[string]any{
		"player_id":   p.ID,
		"strength":    alloc.Strength,
		"dexterity":   alloc.Dexterity,
		"vitality":    alloc.Vitality,
		"points":      alloc.Points(),
		"stat_points": p.StatPoints,
	})
}

// LogUnlocks logs newly unlocked achievements
func (s *AuditService) LogUnlocks(ctx context.Context, p *domain.Player, unlocked []domain.Achievement) {
	for _, a := range unlocked {
		s.Log(ctx, p.AccountID, domain.AuditActionUnlock, domain.AuditCategoryProgression, map[string]any{
			"player_id":      p.ID,
			"achievement_id": a.ID,
		})
	}
}
