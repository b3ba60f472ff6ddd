package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelStatsMerge(t *testing.T) {
	local := LevelStats{
		SpinsTotal:     10,
		Wins:           2,
		BoostersBought: map[BoosterKind]int64{BoosterHeart: 3},
	}
	remote := LevelStats{
		SpinsTotal:   7,
		Wins:         5,
		Invites:      1,
		BoostersUsed: map[BoosterKind]int64{BoosterRocket: 1},
		BoostersBought: map[BoosterKind]int64{
			BoosterHeart:   1,
			BoosterBattery: 2,
		},
	}

	merged := local.Merge(remote)
	require.Equal(t, int64(10), merged.SpinsTotal)
	require.Equal(t, int64(5), merged.Wins)
	require.Equal(t, int64(1), merged.Invites)
	require.Equal(t, map[BoosterKind]int64{BoosterHeart: 3, BoosterBattery: 2}, merged.BoostersBought)
	require.Equal(t, map[BoosterKind]int64{BoosterRocket: 1}, merged.BoostersUsed)

	require.Equal(t, merged, remote.Merge(local))
	require.Equal(t, merged, merged.Merge(remote))
}

func TestLevelStatsCloneIsDeep(t *testing.T) {
	s := LevelStats{BoostersUsed: map[BoosterKind]int64{BoosterHeart: 1}}
	c := s.Clone()
	c.BoostersUsed[BoosterHeart] = 5
	require.Equal(t, int64(1), s.Used(BoosterHeart))
}

func TestClampLevel(t *testing.T) {
	require.Equal(t, 0, ClampLevel(-3))
	require.Equal(t, 12, ClampLevel(12))
	require.Equal(t, MaxLevel, ClampLevel(MaxLevel+7))
}

func TestPyramidSessionHitIndex(t *testing.T) {
	s := &PyramidSession{SelectedDigit: 7, Results: []int{3, 7, 1}, MaxSpins: 3}
	require.Equal(t, 1, s.HitIndex())
	require.True(t, s.Done())

	s.SelectedDigit = 9
	require.Equal(t, -1, s.HitIndex())
}
