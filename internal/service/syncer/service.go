package syncer

import (
	"context"
	"sync"
	"time"

	"speen_backend/internal/metrics"
	"speen_backend/internal/model"
	"speen_backend/internal/repository"
	"speen_backend/internal/service"
	"speen_backend/pkg/keylock"
	"speen_backend/pkg/scheduler"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

const (
	pushTimeout = 5 * time.Second
	keyPrefix   = "sync:"
)

type Deps struct {
	Repo      repository.ProgressRepository
	Remote    repository.RemoteProgressRepository
	TxManager trm.Manager
	Locker    *keylock.Locker
	Scheduler scheduler.Scheduler
	Runner    service.TaskRunner
	Debounce  time.Duration
	Logger    *zap.Logger
}

type serv struct {
	repo      repository.ProgressRepository
	remote    repository.RemoteProgressRepository
	txManager trm.Manager
	locker    *keylock.Locker
	scheduler scheduler.Scheduler
	runner    service.TaskRunner
	debounce  time.Duration
	logger    *zap.Logger

	mtx     sync.Mutex
	pending map[string]struct{}
	closed  bool
}

// NewSyncService Фоновая синхронизация прогрессии с удаленным хранилищем
func NewSyncService(deps Deps) service.SyncService {
	return &serv{
		repo:      deps.Repo,
		remote:    deps.Remote,
		txManager: deps.TxManager,
		locker:    deps.Locker,
		scheduler: deps.Scheduler,
		runner:    deps.Runner,
		debounce:  deps.Debounce,
		logger:    deps.Logger,
		pending:   make(map[string]struct{}),
	}
}

// Notify Отложенный пуш. Серия изменений склеивается в один пуш последнего состояния
func (s *serv) Notify(playerID string) {
	s.mtx.Lock()
	if s.closed {
		s.mtx.Unlock()
		return
	}
	s.pending[playerID] = struct{}{}
	s.mtx.Unlock()

	s.scheduler.Schedule(keyPrefix+playerID, s.debounce, func() {
		s.submit(playerID)
	})
}

func (s *serv) submit(playerID string) {
	task := func() {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		s.push(ctx, playerID)
	}
	if s.runner == nil {
		task()
		return
	}
	if err := s.runner.Submit(task); err != nil {
		s.logger.Warn("sync push dropped", zap.String("player", playerID), zap.Error(err))
	}
}

// push Ошибки только логируются, следующий пуш будет после следующего изменения
func (s *serv) push(ctx context.Context, playerID string) {
	s.mtx.Lock()
	delete(s.pending, playerID)
	s.mtx.Unlock()

	p, err := s.repo.GetProgress(ctx, playerID)
	if err == nil {
		err = s.remote.Upsert(ctx, p.Snapshot(playerID))
	}
	metrics.SyncOps.WithLabelValues("push", metrics.Result(err)).Inc()
	if err != nil {
		s.logger.Warn("sync push failed", zap.String("player", playerID), zap.Error(err))
	}
}

// Pull Однократная подтяжка снимка при старте сессии. Ошибка не мешает игре
func (s *serv) Pull(ctx context.Context, playerID string) (model.Progress, error) {
	snap, err := s.remote.Fetch(ctx, playerID)
	metrics.SyncOps.WithLabelValues("pull", metrics.Result(err)).Inc()
	if err != nil {
		s.logger.Warn("sync pull failed", zap.String("player", playerID), zap.Error(err))
		return s.repo.GetProgress(ctx, playerID)
	}
	if snap == nil {
		// Удаленного снимка еще нет, отправим локальный
		s.Notify(playerID)
		return s.repo.GetProgress(ctx, playerID)
	}
	return s.ApplyRemoteSnapshot(ctx, playerID, *snap)
}

// ApplyRemoteSnapshot Слияние снимка с локальной прогрессией. Идемпотентно и коммутативно
func (s *serv) ApplyRemoteSnapshot(ctx context.Context, playerID string, snapshot model.ProgressSnapshot) (model.Progress, error) {
	unlock := s.locker.Lock(playerID)

	var merged model.Progress
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		local, err := s.repo.GetProgress(txCtx, playerID)
		if err != nil {
			return err
		}
		merged = Merge(local, snapshot)
		return s.repo.SaveProgress(txCtx, playerID, merged)
	})
	unlock()
	if err != nil {
		return model.Progress{}, err
	}

	// Локально есть то, чего нет в удаленном снимке
	if !SameSnapshot(merged.Snapshot(playerID), snapshot) {
		s.Notify(playerID)
	}
	return merged, nil
}

// Close Отправляет отложенные пуши сразу и больше не принимает новые
func (s *serv) Close() {
	s.mtx.Lock()
	s.closed = true
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	s.mtx.Unlock()

	for _, id := range ids {
		s.scheduler.Cancel(keyPrefix + id)
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		s.push(ctx, id)
		cancel()
	}
}
