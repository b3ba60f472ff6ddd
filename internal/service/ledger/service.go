package ledger

import (
	"context"
	"errors"
	"time"

	"speen_backend/internal/model"
	"speen_backend/internal/repository"
	"speen_backend/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

type Deps struct {
	Repo         repository.LedgerRepository
	PlayerRepo   repository.PlayerRepository
	ProgressRepo repository.ProgressRepository
	Leaderboard  repository.LeaderboardRepository
	Notifier     service.SyncNotifier
	TxManager    trm.Manager
	Runner       service.TaskRunner
	BToWRate     int64
	Logger       *zap.Logger
}

type serv struct {
	repo         repository.LedgerRepository
	playerRepo   repository.PlayerRepository
	progressRepo repository.ProgressRepository
	leaderboard  repository.LeaderboardRepository
	notifier     service.SyncNotifier
	txManager    trm.Manager
	runner       service.TaskRunner
	bToWRate     int64
	logger       *zap.Logger
}

// NewLedgerService Баланс в двух валютах с аудитом изменений
func NewLedgerService(deps Deps) service.LedgerService {
	return &serv{
		repo:         deps.Repo,
		playerRepo:   deps.PlayerRepo,
		progressRepo: deps.ProgressRepo,
		leaderboard:  deps.Leaderboard,
		notifier:     deps.Notifier,
		txManager:    deps.TxManager,
		runner:       deps.Runner,
		bToWRate:     deps.BToWRate,
		logger:       deps.Logger,
	}
}

func (s *serv) Balance(ctx context.Context, playerID string) (model.Balance, error) {
	return s.repo.GetBalance(ctx, playerID)
}

// Apply Изменение баланса с записью аудита. Присоединяется к транзакции из ctx,
// блокировку игрока держит вызывающий. Списание в минус отклоняется без изменений.
// Publish вызывается после коммита
func (s *serv) Apply(ctx context.Context, playerID string, delta model.Delta) (model.Balance, error) {
	if delta.Reason == "" {
		return model.Balance{}, errors.New("ledger delta without reason")
	}
	if delta.IsZero() {
		return s.repo.GetBalance(ctx, playerID)
	}

	var bal model.Balance
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		bal, err = s.repo.ApplyDelta(txCtx, playerID, delta)
		return err
	})
	if err != nil {
		return model.Balance{}, err
	}
	return bal, nil
}

// Publish Проекция в лидерборд в фоне и сигнал синхронизации
func (s *serv) Publish(_ context.Context, playerID string) {
	if s.notifier != nil {
		s.notifier.Notify(playerID)
	}
	if s.leaderboard == nil {
		return
	}

	task := func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.project(ctx, playerID); err != nil {
			s.logger.Warn("leaderboard projection failed", zap.String("player", playerID), zap.Error(err))
		}
	}
	if s.runner == nil {
		task()
		return
	}
	if err := s.runner.Submit(task); err != nil {
		s.logger.Warn("leaderboard projection dropped", zap.String("player", playerID), zap.Error(err))
	}
}

func (s *serv) project(ctx context.Context, playerID string) error {
	player, err := s.playerRepo.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	bal, err := s.repo.GetBalance(ctx, playerID)
	if err != nil {
		return err
	}
	progress, err := s.progressRepo.GetProgress(ctx, playerID)
	if err != nil {
		return err
	}

	return s.leaderboard.Project(ctx, model.LeaderboardEntry{
		ID:         player.ID,
		Name:       player.Name,
		Photo:      player.Photo,
		Level:      progress.Level,
		TotalCoins: TotalCoins(bal, s.bToWRate),
	})
}

// TotalCoins Эквивалент баланса в W
func TotalCoins(b model.Balance, bToWRate int64) int64 {
	return int64(b.W) + int64(b.B)*bToWRate
}
