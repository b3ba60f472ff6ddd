package progress

import (
	"context"
	"time"

	"speen_backend/internal/config"
	"speen_backend/internal/metrics"
	"speen_backend/internal/model"
	"speen_backend/internal/repository"
	"speen_backend/internal/service"
	"speen_backend/pkg/keylock"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type Deps struct {
	Repo      repository.ProgressRepository
	Ledger    service.LedgerService
	Notifier  service.SyncNotifier
	Cfg       config.GameConfig
	TxManager trm.Manager
	Locker    *keylock.Locker
	Now       func() time.Time
	Logger    *zap.Logger
}

type serv struct {
	repo      repository.ProgressRepository
	ledger    service.LedgerService
	notifier  service.SyncNotifier
	cfg       config.GameConfig
	txManager trm.Manager
	locker    *keylock.Locker
	now       func() time.Time
	logger    *zap.Logger
}

// NewProgressService Уровни игрока и последовательный клейм наград
func NewProgressService(deps Deps) service.ProgressService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &serv{
		repo:      deps.Repo,
		ledger:    deps.Ledger,
		notifier:  deps.Notifier,
		cfg:       deps.Cfg,
		txManager: deps.TxManager,
		locker:    deps.Locker,
		now:       now,
		logger:    deps.Logger,
	}
}

func (s *serv) Progress(ctx context.Context, playerID string) (model.Progress, error) {
	return s.repo.GetProgress(ctx, playerID)
}

// Claim Выдает награду уровня L. Только L == cursor+1 и только достигнутый уровень
func (s *serv) Claim(ctx context.Context, playerID string, level int) (model.Progress, model.Balance, error) {
	unlock := s.locker.Lock(playerID)

	var (
		p   model.Progress
		bal model.Balance
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.repo.GetProgress(txCtx, playerID)
		if err != nil {
			return err
		}

		req, err := CheckClaim(p, level)
		if err != nil {
			return err
		}

		bal, err = s.ledger.Apply(txCtx, playerID, model.Delta{W: req.RewardW, Reason: model.ReasonLevelReward})
		if err != nil {
			return err
		}

		p.ClaimedCursor = level
		return s.repo.SaveProgress(txCtx, playerID, p)
	})
	unlock()
	if err != nil {
		return model.Progress{}, model.Balance{}, err
	}

	s.logger.Info("level reward claimed", zap.String("player", playerID), zap.Int("level", level))
	s.ledger.Publish(ctx, playerID)
	return p, bal, nil
}

// CompleteOnboarding Отмечает пройденное обучение
func (s *serv) CompleteOnboarding(ctx context.Context, playerID string) (model.Progress, error) {
	return s.mutate(ctx, playerID, func(p *model.Progress) error {
		p.OnboardingDone = true
		return nil
	})
}

func (s *serv) RecordInvite(ctx context.Context, playerID string) (model.Progress, error) {
	return s.mutate(ctx, playerID, func(p *model.Progress) error {
		Record(&p.Stats, Invite())
		return nil
	})
}

// ClaimDaily Ежедневная награда, не чаще раза в сутки по UTC
func (s *serv) ClaimDaily(ctx context.Context, playerID string) (model.Progress, model.Balance, error) {
	unlock := s.locker.Lock(playerID)

	now := s.now()
	var (
		p      model.Progress
		bal    model.Balance
		gained int
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.repo.GetProgress(txCtx, playerID)
		if err != nil {
			return err
		}
		if !p.LastDailyClaim.IsZero() && SameDay(p.LastDailyClaim, now) {
			return model.ErrAlreadyClaimed
		}

		bal, err = s.ledger.Apply(txCtx, playerID, model.Delta{W: s.cfg.DailyReward(), Reason: model.ReasonDailyReward})
		if err != nil {
			return err
		}

		p.LastDailyClaim = now
		gained = Apply(&p, DailyClaim())
		return s.repo.SaveProgress(txCtx, playerID, p)
	})
	unlock()
	if err != nil {
		return model.Progress{}, model.Balance{}, err
	}

	s.levelsGained(playerID, p, gained)
	s.ledger.Publish(ctx, playerID)
	return p, bal, nil
}

// mutate Изменение прогрессии без движения денег
func (s *serv) mutate(ctx context.Context, playerID string, fn func(p *model.Progress) error) (model.Progress, error) {
	unlock := s.locker.Lock(playerID)

	var (
		p      model.Progress
		gained int
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.repo.GetProgress(txCtx, playerID)
		if err != nil {
			return err
		}
		if err := fn(&p); err != nil {
			return err
		}
		gained = AutoAdvance(&p)
		return s.repo.SaveProgress(txCtx, playerID, p)
	})
	unlock()
	if err != nil {
		return model.Progress{}, err
	}

	s.levelsGained(playerID, p, gained)
	if s.notifier != nil {
		s.notifier.Notify(playerID)
	}
	return p, nil
}

func (s *serv) levelsGained(playerID string, p model.Progress, gained int) {
	if gained == 0 {
		return
	}
	metrics.LevelsReached.Add(float64(gained))
	s.logger.Info("level reached", zap.String("player", playerID), zap.Int("level", p.Level))
}
