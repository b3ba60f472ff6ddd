package booster

import (
	"context"

	"speen_backend/internal/config"
	"speen_backend/internal/model"
	"speen_backend/internal/repository"
	"speen_backend/internal/service"
	"speen_backend/internal/service/progress"
	"speen_backend/pkg/keylock"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type Deps struct {
	Repo         repository.BoosterRepository
	ProgressRepo repository.ProgressRepository
	Sessions     repository.SessionRepository
	Ledger       service.LedgerService
	Cfg          config.GameConfig
	TxManager    trm.Manager
	Locker       *keylock.Locker
	Logger       *zap.Logger
}

type serv struct {
	repo         repository.BoosterRepository
	progressRepo repository.ProgressRepository
	sessions     repository.SessionRepository
	ledger       service.LedgerService
	cfg          config.GameConfig
	txManager    trm.Manager
	locker       *keylock.Locker
	logger       *zap.Logger
}

// NewBoosterService Инвентарь бустеров и выбор активного бустера
func NewBoosterService(deps Deps) service.BoosterService {
	return &serv{
		repo:         deps.Repo,
		progressRepo: deps.ProgressRepo,
		sessions:     deps.Sessions,
		ledger:       deps.Ledger,
		cfg:          deps.Cfg,
		txManager:    deps.TxManager,
		locker:       deps.Locker,
		logger:       deps.Logger,
	}
}

// Inventory Инвентарь и выбранный бустер
func (s *serv) Inventory(ctx context.Context, playerID string) (model.Inventory, *model.BoosterKind, error) {
	inv, err := s.repo.GetInventory(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	selected, err := s.sessions.GetSelectedBooster(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	return inv, selected, nil
}

// Grant Выдача бустера без оплаты
func (s *serv) Grant(ctx context.Context, playerID string, kind model.BoosterKind) (model.Inventory, error) {
	if !kind.Valid() {
		return nil, model.ErrInvalidBooster
	}

	unlock := s.locker.Lock(playerID)
	defer unlock()

	var inv model.Inventory
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.Grant(txCtx, playerID, kind); err != nil {
			return err
		}
		var err error
		inv, err = s.repo.GetInventory(txCtx, playerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booster granted", zap.String("player", playerID), zap.String("kind", string(kind)))
	return inv, nil
}

// Buy Покупка бустера за цену из настроек. Списание и выдача в одной транзакции
func (s *serv) Buy(ctx context.Context, playerID string, kind model.BoosterKind) (model.Inventory, model.Balance, error) {
	if !kind.Valid() {
		return nil, model.Balance{}, model.ErrInvalidBooster
	}
	price, ok := s.cfg.BoosterPrice(kind)
	if !ok {
		return nil, model.Balance{}, model.ErrInvalidBooster
	}

	unlock := s.locker.Lock(playerID)

	var (
		inv    model.Inventory
		bal    model.Balance
		gained int
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		// Списываем цену, при нехватке средств ничего не меняется
		bal, err = s.ledger.Apply(txCtx, playerID, model.NewDelta(price.Currency, -price.Amount, model.ReasonBoosterBuy))
		if err != nil {
			return err
		}

		if _, err = s.repo.Grant(txCtx, playerID, kind); err != nil {
			return err
		}

		p, err := s.progressRepo.GetProgress(txCtx, playerID)
		if err != nil {
			return err
		}
		gained = progress.Apply(&p, progress.BoosterBought(kind))
		if err = s.progressRepo.SaveProgress(txCtx, playerID, p); err != nil {
			return err
		}

		inv, err = s.repo.GetInventory(txCtx, playerID)
		return err
	})
	unlock()
	if err != nil {
		return nil, model.Balance{}, err
	}

	s.logger.Info("booster bought",
		zap.String("player", playerID),
		zap.String("kind", string(kind)),
		zap.Int("levels_gained", gained),
	)
	s.ledger.Publish(ctx, playerID)
	return inv, bal, nil
}

// Select Выбор бустера для следующего спина. nil снимает выбор
func (s *serv) Select(ctx context.Context, playerID string, kind *model.BoosterKind) error {
	if kind == nil {
		return s.sessions.SetSelectedBooster(ctx, playerID, nil)
	}
	if !kind.Valid() {
		return model.ErrInvalidBooster
	}

	unlock := s.locker.Lock(playerID)
	defer unlock()

	inv, err := s.repo.GetInventory(ctx, playerID)
	if err != nil {
		return err
	}
	if !inv.Has(*kind) {
		// Выбор сбрасывается, игрок видит уведомление
		if err := s.sessions.SetSelectedBooster(ctx, playerID, nil); err != nil {
			return err
		}
		return model.ErrBoosterNotOwned
	}
	return s.sessions.SetSelectedBooster(ctx, playerID, kind)
}
