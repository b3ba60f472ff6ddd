package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"speen_backend/internal/model"
	"speen_backend/internal/repository/memory"
	"speen_backend/internal/service"
	"speen_backend/pkg/keylock"
	"speen_backend/pkg/scheduler"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const debounce = 1200 * time.Millisecond

type fixture struct {
	store     *memory.Store
	remote    *memory.Remote
	scheduler *scheduler.Manual
	serv      service.SyncService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:     memory.NewStore(),
		remote:    memory.NewRemote(),
		scheduler: scheduler.NewManual(),
	}
	_, err := f.store.EnsurePlayer(context.Background(), model.Player{ID: "p1"})
	require.NoError(t, err)

	f.serv = NewSyncService(Deps{
		Repo:      f.store,
		Remote:    f.remote,
		TxManager: memory.TxManager{},
		Locker:    keylock.New(),
		Scheduler: f.scheduler,
		Debounce:  debounce,
		Logger:    zap.NewNop(),
	})
	return f
}

func (f *fixture) remoteSnapshot(t *testing.T) *model.ProgressSnapshot {
	t.Helper()
	snap, err := f.remote.Fetch(context.Background(), "p1")
	require.NoError(t, err)
	return snap
}

func TestNotifyCoalesces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.SaveProgress(ctx, "p1", model.Progress{Stats: model.LevelStats{SpinsTotal: 1}}))
	f.serv.Notify("p1")
	require.NoError(t, f.store.SaveProgress(ctx, "p1", model.Progress{Stats: model.LevelStats{SpinsTotal: 2}}))
	f.serv.Notify("p1")

	require.Equal(t, []string{"sync:p1"}, f.scheduler.Keys())
	d, ok := f.scheduler.Delay("sync:p1")
	require.True(t, ok)
	require.Equal(t, debounce, d)
	require.Nil(t, f.remoteSnapshot(t))

	require.True(t, f.scheduler.Fire("sync:p1"))
	snap := f.remoteSnapshot(t)
	require.NotNil(t, snap)
	require.Equal(t, int64(2), snap.Stats.SpinsTotal)
}

func TestPushFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.remote.FailWith(errors.New("remote unavailable"))
	f.serv.Notify("p1")
	require.True(t, f.scheduler.Fire("sync:p1"))

	// Следующее изменение отправляется уже успешно
	f.remote.FailWith(nil)
	require.NoError(t, f.store.SaveProgress(ctx, "p1", model.Progress{OnboardingDone: true}))
	f.serv.Notify("p1")
	require.True(t, f.scheduler.Fire("sync:p1"))
	require.True(t, f.remoteSnapshot(t).OnboardingDone)
}

func TestPullFailureKeepsLocal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	local := model.Progress{Level: 0, Stats: model.LevelStats{SpinsTotal: 4}}
	require.NoError(t, f.store.SaveProgress(ctx, "p1", local))

	f.remote.FailWith(errors.New("timeout"))
	p, err := f.serv.Pull(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, local, p)
}

func TestPullWithoutRemoteSchedulesPush(t *testing.T) {
	f := newFixture(t)

	_, err := f.serv.Pull(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, []string{"sync:p1"}, f.scheduler.Keys())
}

func TestPullMergesRemote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.SaveProgress(ctx, "p1", model.Progress{
		ClaimedCursor: 0,
		Stats:         model.LevelStats{SpinsTotal: 1, SpinsX2: 1},
	}))
	require.NoError(t, f.remote.Upsert(ctx, model.ProgressSnapshot{
		ID:             "p1",
		OnboardingDone: true,
		Stats:          model.LevelStats{SpinsTotal: 1, SpinsX2: 1},
	}))

	p, err := f.serv.Pull(ctx, "p1")
	require.NoError(t, err)
	require.True(t, p.OnboardingDone)
	require.Equal(t, 1, p.Level)

	stored, err := f.store.GetProgress(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, p, stored)

	// Уровень вырос локально, удаленный снимок надо обновить
	require.Equal(t, []string{"sync:p1"}, f.scheduler.Keys())
}

func TestApplyRemoteSnapshotNoPushWhenEqual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := model.ProgressSnapshot{ID: "p1", Stats: model.LevelStats{Wins: 3}}

	_, err := f.serv.ApplyRemoteSnapshot(ctx, "p1", snap)
	require.NoError(t, err)
	require.Empty(t, f.scheduler.Keys())

	p, err := f.serv.ApplyRemoteSnapshot(ctx, "p1", snap)
	require.NoError(t, err)
	require.Equal(t, int64(3), p.Stats.Wins)
	require.Empty(t, f.scheduler.Keys())
}

func TestClosePushesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.SaveProgress(ctx, "p1", model.Progress{Stats: model.LevelStats{Invites: 1}}))
	f.serv.Notify("p1")
	f.serv.Close()

	require.Empty(t, f.scheduler.Keys())
	require.Equal(t, int64(1), f.remoteSnapshot(t).Stats.Invites)

	// После закрытия новые пуши не планируются
	f.serv.Notify("p1")
	require.Empty(t, f.scheduler.Keys())
}
