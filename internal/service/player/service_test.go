package player

import (
	"context"
	"errors"
	"testing"

	"speen_backend/internal/config/env"
	"speen_backend/internal/model"
	"speen_backend/internal/repository/memory"
	"speen_backend/internal/service"
	"speen_backend/internal/service/ledger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type syncStub struct {
	pulls int
	err   error
}

func (s *syncStub) Notify(string) {}

func (s *syncStub) Pull(context.Context, string) (model.Progress, error) {
	s.pulls++
	return model.Progress{}, s.err
}

func (s *syncStub) ApplyRemoteSnapshot(context.Context, string, model.ProgressSnapshot) (model.Progress, error) {
	return model.Progress{}, nil
}

func (s *syncStub) Close() {}

var _ service.SyncService = (*syncStub)(nil)

func newServ(store *memory.Store, syncServ service.SyncService) service.PlayerService {
	return NewPlayerService(Deps{
		Repo: store,
		Ledger: ledger.NewLedgerService(ledger.Deps{
			Repo:         store,
			PlayerRepo:   store,
			ProgressRepo: store,
			TxManager:    memory.TxManager{},
			Logger:       zap.NewNop(),
		}),
		Sync:      syncServ,
		Cfg:       env.DefaultGameConfig(),
		TxManager: memory.TxManager{},
		Logger:    zap.NewNop(),
	})
}

func TestIdentifyCreatesWithWelcomeBalance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	stub := &syncStub{}
	serv := newServ(store, stub)

	require.NoError(t, serv.Identify(ctx, model.Player{ID: "p1", Name: "Anna"}))
	require.NoError(t, serv.Identify(ctx, model.Player{ID: "p1", Name: "Anna"}))

	bal, err := store.GetBalance(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, model.Balance{W: 10_000, B: 10}, bal)

	entries := store.Entries("p1")
	require.Len(t, entries, 1)
	require.Equal(t, model.ReasonWelcome, entries[0].Delta.Reason)
	require.Equal(t, 1, stub.pulls)
}

func TestIdentifyKnownPlayerNoWelcome(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.EnsurePlayer(ctx, model.Player{ID: "p1"})
	require.NoError(t, err)

	// Новый процесс: игрок уже есть в хранилище
	serv := newServ(store, &syncStub{err: errors.New("remote down")})
	require.NoError(t, serv.Identify(ctx, model.Player{ID: "p1", Name: "Renamed"}))

	bal, err := store.GetBalance(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, model.Balance{}, bal)

	player, err := store.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", player.Name)
}
