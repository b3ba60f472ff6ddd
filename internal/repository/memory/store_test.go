package memory

import (
	"context"
	"testing"

	"speen_backend/internal/model"

	"github.com/stretchr/testify/require"
)

func TestStoreBalanceNeverNegative(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	created, err := s.EnsurePlayer(ctx, model.Player{ID: "p1"})
	require.NoError(t, err)
	require.True(t, created)
	created, err = s.EnsurePlayer(ctx, model.Player{ID: "p1"})
	require.NoError(t, err)
	require.False(t, created)

	deltas := []model.Delta{
		model.NewDelta(model.CurrencyW, 300, model.ReasonWelcome),
		model.NewDelta(model.CurrencyW, -200, model.ReasonSpinBet),
		model.NewDelta(model.CurrencyW, -200, model.ReasonSpinBet),
		model.NewDelta(model.CurrencyB, -1, model.ReasonBoosterBuy),
		model.NewDelta(model.CurrencyW, -100, model.ReasonSpinBet),
	}
	for _, d := range deltas {
		bal, _ := s.ApplyDelta(ctx, "p1", d)
		require.GreaterOrEqual(t, bal.W, uint64(0))
	}

	bal, err := s.GetBalance(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, model.Balance{}, bal)
	require.Len(t, s.Entries("p1"), 3)

	_, err = s.ApplyDelta(ctx, "ghost", model.NewDelta(model.CurrencyW, 1, model.ReasonWelcome))
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestStoreConsume(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.EnsurePlayer(ctx, model.Player{ID: "p1"})
	require.NoError(t, err)

	_, err = s.Consume(ctx, "p1", model.BoosterHeart)
	require.ErrorIs(t, err, model.ErrBoosterNotOwned)

	n, err := s.Grant(ctx, "p1", model.BoosterHeart)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = s.Consume(ctx, "p1", model.BoosterHeart)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSessionsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := NewSessions()

	require.NoError(t, s.SavePyramid(ctx, &model.PyramidSession{ID: "s1", PlayerID: "p1", Results: []int{1}}))
	got, err := s.GetPyramid(ctx, "p1")
	require.NoError(t, err)
	got.Results[0] = 9

	again, err := s.GetPyramid(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, []int{1}, again.Results)

	require.NoError(t, s.DeletePyramid(ctx, "p1"))
	got, err = s.GetPyramid(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, got)

	id1, _ := s.NextSpinID(ctx, "p1")
	id2, _ := s.NextSpinID(ctx, "p1")
	require.Equal(t, id1+1, id2)
}

func TestRemoteFailWith(t *testing.T) {
	ctx := context.Background()
	r := NewRemote()

	snap, err := r.Fetch(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, snap)

	r.FailWith(model.ErrSyncFailure)
	require.ErrorIs(t, r.Upsert(ctx, model.ProgressSnapshot{ID: "p1"}), model.ErrSyncFailure)
}

func TestSessionsListPyramids(t *testing.T) {
	ctx := context.Background()
	s := NewSessions()

	require.NoError(t, s.SavePyramid(ctx, &model.PyramidSession{ID: "s1", PlayerID: "p1"}))
	require.NoError(t, s.SavePyramid(ctx, &model.PyramidSession{ID: "s2", PlayerID: "p2"}))
	require.NoError(t, s.DeletePyramid(ctx, "p2"))
	_, err := s.NextSpinID(ctx, "p3")
	require.NoError(t, err)

	list, err := s.ListPyramids(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "s1", list[0].ID)
}
