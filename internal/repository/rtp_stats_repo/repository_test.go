package rtp_stats_repo

import (
	"testing"

	"speen_backend/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpdateState(t *testing.T) {
	r := NewRTPStatsRepository(map[model.SpinMode]float64{model.ModeDuel: 30}, zap.NewNop())

	r.UpdateState(model.ModeDuel, 100, 0)
	r.UpdateState(model.ModeDuel, 100, 300)

	s := r.State(model.ModeDuel)
	require.Equal(t, int64(2), s.TotalSpins)
	require.InDelta(t, 150.0, s.CurrentRTP, 1e-9)
	require.InDelta(t, 150.0, s.WindowRTP, 1e-9)
	require.Equal(t, 30.0, s.TargetRTP)
}

func TestWindowSlides(t *testing.T) {
	r := NewRTPStatsRepository(nil, zap.NewNop())

	for i := 0; i < windowSize; i++ {
		r.UpdateState(model.ModeAllIn, 100, 600)
	}
	for i := 0; i < windowSize; i++ {
		r.UpdateState(model.ModeAllIn, 100, 0)
	}

	s := r.State(model.ModeAllIn)
	require.Equal(t, int64(2*windowSize), s.TotalSpins)
	require.InDelta(t, 300.0, s.CurrentRTP, 1e-9)
	require.Equal(t, 0.0, s.WindowRTP)
}

func TestDriftFlag(t *testing.T) {
	r := NewRTPStatsRepository(map[model.SpinMode]float64{model.ModeDuel: 30}, zap.NewNop())

	for i := 0; i < periodSpinsToCheck; i++ {
		r.UpdateState(model.ModeDuel, 100, 0)
	}
	require.True(t, r.State(model.ModeDuel).Drifting)
}

func TestFreeSpinDoesNotDivideByZero(t *testing.T) {
	r := NewRTPStatsRepository(nil, zap.NewNop())
	r.UpdateState(model.ModeDuel, 0, 300)

	s := r.State(model.ModeDuel)
	require.Equal(t, int64(1), s.TotalSpins)
	require.Equal(t, 0.0, s.WindowRTP)
}
