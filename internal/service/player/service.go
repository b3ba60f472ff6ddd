package player

import (
	"context"
	"sync"

	"speen_backend/internal/config"
	"speen_backend/internal/model"
	"speen_backend/internal/repository"
	"speen_backend/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type Deps struct {
	Repo      repository.PlayerRepository
	Ledger    service.LedgerService
	Sync      service.SyncService
	Cfg       config.GameConfig
	TxManager trm.Manager
	Logger    *zap.Logger
}

type serv struct {
	repo      repository.PlayerRepository
	ledger    service.LedgerService
	sync      service.SyncService
	cfg       config.GameConfig
	txManager trm.Manager
	logger    *zap.Logger

	// игроки, уже известные этому процессу
	seen sync.Map
}

// NewPlayerService Регистрация игрока по данным провайдера идентичности
func NewPlayerService(deps Deps) service.PlayerService {
	return &serv{
		repo:      deps.Repo,
		ledger:    deps.Ledger,
		sync:      deps.Sync,
		cfg:       deps.Cfg,
		txManager: deps.TxManager,
		logger:    deps.Logger,
	}
}

// Identify Создает игрока при первом контакте со стартовым балансом.
// Первый контакт в процессе также подтягивает удаленный прогресс
func (s *serv) Identify(ctx context.Context, player model.Player) error {
	if _, ok := s.seen.Load(player.ID); ok {
		return nil
	}

	var created bool
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.EnsurePlayer(txCtx, player)
		if err != nil || !created {
			return err
		}

		welcome := s.cfg.WelcomeBalance()
		if welcome.W == 0 && welcome.B == 0 {
			return nil
		}
		_, err = s.ledger.Apply(txCtx, player.ID, model.Delta{
			W:      int64(welcome.W),
			B:      int64(welcome.B),
			Reason: model.ReasonWelcome,
		})
		return err
	})
	if err != nil {
		return err
	}

	if created {
		s.logger.Info("player created", zap.String("player", player.ID))
		s.ledger.Publish(ctx, player.ID)
	}

	if _, loaded := s.seen.LoadOrStore(player.ID, struct{}{}); !loaded && s.sync != nil {
		// ошибки pull уже залогированы и не мешают игре
		_, _ = s.sync.Pull(ctx, player.ID)
	}
	return nil
}
