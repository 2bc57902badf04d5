package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/logger"
)

// MaxAllocationPoints caps a single training request.
const MaxAllocationPoints = 1_000_000

// TrainRequest is the caller's allocation. PointsSpent is optional; when
// present it must equal the sum of the deltas.
type TrainRequest struct {
	Strength    int  `json:"strength"`
	Dexterity   int  `json:"dexterity"`
	Vitality    int  `json:"vitality"`
	PointsSpent *int `json:"points_spent,omitempty"`
}

// Allocation validates the request and returns the allocation it describes.
func (r TrainRequest) Allocation() (domain.Allocation, error) {
	if r.Strength < 0 || r.Dexterity < 0 || r.Vitality < 0 {
		return domain.Allocation{}, fmt.Errorf("%w: deltas must be non-negative", domain.ErrValidation)
	}
	alloc := domain.Allocation{Strength: r.Strength, Dexterity: r.Dexterity, Vitality: r.Vitality}
	// суммируем отдельно, чтобы не переполнить int на огромных значениях
	if r.Strength > MaxAllocationPoints || r.Dexterity > MaxAllocationPoints || r.Vitality > MaxAllocationPoints ||
		alloc.Points() > MaxAllocationPoints {
		return domain.Allocation{}, fmt.Errorf("%w: allocation too large", domain.ErrValidation)
	}
	if alloc.Points() == 0 {
		return domain.Allocation{}, fmt.Errorf("%w: nothing to allocate", domain.ErrValidation)
	}
	if r.PointsSpent != nil && *r.PointsSpent != alloc.Points() {
		return domain.Allocation{}, fmt.Errorf("%w: points_spent %d does not match deltas (%d)",
			domain.ErrValidation, *r.PointsSpent, alloc.Points())
	}
	return alloc, nil
}

// TrainingService is the stat allocation ledger.
type TrainingService struct {
	players PlayerStore
	audit   *AuditService
	now     func() time.Time
}

// NewTrainingService creates a training service
func NewTrainingService(players PlayerStore, audit *AuditService) *TrainingService {
	return &TrainingService{players: players, audit: audit, now: time.Now}
}

// WithClock overrides the time source.
func (s *TrainingService) WithClock(now func() time.Time) *TrainingService {
	s.now = now
	return s
}

// Train converts stat points into attributes. On any error the record is
// left unchanged.
func (s *TrainingService) Train(ctx context.Context, p *domain.Player, req TrainRequest) (*domain.Player, error) {
	startedAt := s.now().UTC()

	alloc, err := req.Allocation()
	if err != nil {
		TrainRejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	updated, err := s.players.ApplyAllocation(ctx, p.ID, alloc, startedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientPoints) {
			TrainRejected.WithLabelValues("insufficient_points").Inc()
		}
		return nil, err
	}

	StatPointsSpent.Add(float64(alloc.Points()))
	logger.WithContext(ctx).Debug("stat points allocated",
		"player_id", updated.ID, "points", alloc.Points(), "stat_points", updated.StatPoints)
	s.audit.LogTrain(ctx, updated, alloc)
	return updated, nil
}
