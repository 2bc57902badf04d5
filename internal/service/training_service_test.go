package service_test

import (
	"context"
	"sync"
	"testing"

	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestTrainRequestAllocation(t *testing.T) {
	tests := []struct {
		name    string
		req     service.TrainRequest
		want    domain.Allocation
		wantErr error
	}{
		{
			name: "plain",
			req:  service.TrainRequest{Strength: 2, Vitality: 1},
			want: domain.Allocation{Strength: 2, Vitality: 1},
		},
		{
			name: "matching points_spent",
			req:  service.TrainRequest{Dexterity: 3, PointsSpent: intPtr(3)},
			want: domain.Allocation{Dexterity: 3},
		},
		{
			name:    "mismatched points_spent",
			req:     service.TrainRequest{Strength: 1, PointsSpent: intPtr(0)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative delta",
			req:     service.TrainRequest{Strength: 3, Dexterity: -1},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "zero allocation",
			req:     service.TrainRequest{},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "too large",
			req:     service.TrainRequest{Strength: service.MaxAllocationPoints, Vitality: 1},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Allocation()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrainUpdatesStatsAndMaxHP(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.player(ctx, 1)

	updated, err := f.training.Train(ctx, p, service.TrainRequest{Strength: 1, Dexterity: 1, Vitality: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Strength)
	assert.Equal(t, 2, updated.Dexterity)
	assert.Equal(t, 3, updated.Vitality)
	assert.Equal(t, 1, updated.StatPoints)
	assert.Equal(t, domain.BaseHP+3*domain.HPPerVitality, updated.MaxHP)
	assert.Equal(t, testNow, updated.LastSave)
}

func TestTrainInsufficientLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.player(ctx, 1)

	_, err := f.training.Train(ctx, p, service.TrainRequest{Strength: 4, Vitality: 2})
	require.ErrorIs(t, err, domain.ErrInsufficientPoints)

	after := f.player(ctx, 1)
	assert.Equal(t, *p, *after)
}

func TestTrainValidationLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.player(ctx, 1)

	_, err := f.training.Train(ctx, p, service.TrainRequest{Strength: 2, PointsSpent: intPtr(1)})
	require.ErrorIs(t, err, domain.ErrValidation)

	after := f.player(ctx, 1)
	assert.Equal(t, domain.DefaultStatPoints, after.StatPoints)
	assert.Equal(t, domain.DefaultAttribute, after.Strength)
}

func TestTrainSpendsEveryPoint(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.player(ctx, 1)

	updated, err := f.training.Train(ctx, p, service.TrainRequest{Vitality: domain.DefaultStatPoints})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.StatPoints)

	_, err = f.training.Train(ctx, updated, service.TrainRequest{Strength: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
}

func TestConcurrentTrainNeverOverspends(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.player(ctx, 1)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.training.Train(ctx, p, service.TrainRequest{Strength: 2}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	after := f.player(ctx, 1)
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, after.StatPoints)
	assert.Equal(t, domain.DefaultAttribute+4, after.Strength)
	assert.Equal(t, domain.MaxHPFor(after.Vitality), after.MaxHP)
}
