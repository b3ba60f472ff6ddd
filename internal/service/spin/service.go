package spin

import (
	"context"
	"errors"

	"speen_backend/internal/config"
	"speen_backend/internal/metrics"
	"speen_backend/internal/model"
	"speen_backend/internal/repository"
	"speen_backend/internal/service"
	"speen_backend/internal/service/progress"
	"speen_backend/pkg/keylock"
	"speen_backend/pkg/rng"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type Deps struct {
	BoosterRepo  repository.BoosterRepository
	ProgressRepo repository.ProgressRepository
	Sessions     repository.SessionRepository
	RTPStats     repository.RTPStatsRepository
	Ledger       service.LedgerService
	Cfg          config.GameConfig
	TxManager    trm.Manager
	Locker       *keylock.Locker
	Rand         rng.Source
	Logger       *zap.Logger
}

type serv struct {
	boosterRepo  repository.BoosterRepository
	progressRepo repository.ProgressRepository
	sessions     repository.SessionRepository
	rtpStats     repository.RTPStatsRepository
	ledger       service.LedgerService
	cfg          config.GameConfig
	txManager    trm.Manager
	locker       *keylock.Locker
	rand         rng.Source
	logger       *zap.Logger
}

// NewSpinService Спины Duel и AllIn
func NewSpinService(deps Deps) service.SpinService {
	return &serv{
		boosterRepo:  deps.BoosterRepo,
		progressRepo: deps.ProgressRepo,
		sessions:     deps.Sessions,
		rtpStats:     deps.RTPStats,
		ledger:       deps.Ledger,
		cfg:          deps.Cfg,
		txManager:    deps.TxManager,
		locker:       deps.Locker,
		rand:         deps.Rand,
		logger:       deps.Logger,
	}
}

// Spin Один физический спин. Если есть бесплатный спин от Battery,
// запрос игнорируется и повторяются параметры спина, который его выдал
func (s *serv) Spin(ctx context.Context, playerID string, req model.SpinRequest) (*model.SpinOutcome, error) {
	unlock := s.locker.Lock(playerID)
	defer unlock()

	// Во время серии пирамиды обычные спины запрещены
	session, err := s.sessions.GetPyramid(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return nil, model.ErrSequenceViolation
	}

	free, err := s.sessions.GetFreeSpin(ctx, playerID)
	if err != nil {
		return nil, err
	}

	out := &model.SpinOutcome{}
	var booster *model.BoosterKind
	selectionUsed := false

	if free != nil {
		// Бесплатный спин без валидации, списания и бустера
		req = model.SpinRequest{
			Mode:        free.Mode,
			Currency:    free.Currency,
			Bet:         free.Bet,
			PickedDigit: free.PickedDigit,
			BonusSector: free.BonusSector,
		}
		out.Free = true
	} else {
		if err = Validate(s.cfg, req); err != nil {
			return nil, err
		}

		booster = req.Booster
		if booster == nil {
			booster, err = s.sessions.GetSelectedBooster(ctx, playerID)
			if err != nil {
				return nil, err
			}
			selectionUsed = booster != nil
		}
		if booster != nil {
			inv, err := s.boosterRepo.GetInventory(ctx, playerID)
			if err != nil {
				return nil, err
			}
			if !inv.Has(*booster) {
				// Бустера нет: выбор сбрасывается, спин продолжается без него
				s.logger.Info("selected booster not owned",
					zap.String("player", playerID),
					zap.String("kind", string(*booster)),
				)
				out.BoosterCleared = true
				booster = nil
			}
		}
	}

	spinID, err := s.sessions.NextSpinID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	res := Resolve(s.rand, s.cfg.SectorBonuses(), Params{
		Bet:              req.Bet,
		PickedDigit:      req.PickedDigit,
		BonusSector:      req.BonusSector,
		Multiplier:       s.cfg.Multiplier(req.Mode),
		RocketMultiplier: s.cfg.RocketMultiplier(),
		RocketSector:     s.cfg.RocketSectorMultiplier(),
		Booster:          booster,
	})

	var gained int
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		// Списываем ставку
		if !out.Free {
			_, err = s.ledger.Apply(txCtx, playerID, model.NewDelta(req.Currency, -req.Bet, model.ReasonSpinBet))
			if err != nil {
				return err
			}
		}

		// Начисляем выигрыш или возврат от Heart
		if res.Payout > 0 {
			reason := model.ReasonSpinWin
			if res.Refund {
				reason = model.ReasonHeartRefund
			}
			_, err = s.ledger.Apply(txCtx, playerID, model.NewDelta(req.Currency, res.Payout, reason))
			if err != nil {
				return err
			}
		}

		// Бонус сектора
		if res.SectorBonus != nil {
			if res.SectorBonus.IsMoney() {
				_, err = s.ledger.Apply(txCtx, playerID, model.NewDelta(req.Currency, res.SectorBonus.Amount, model.ReasonSectorBonus))
			} else {
				_, err = s.boosterRepo.Grant(txCtx, playerID, res.SectorBonus.Item)
			}
			if err != nil {
				return err
			}
		}

		// Бустер расходуется только если сработал
		if res.BoosterFired {
			if _, err = s.boosterRepo.Consume(txCtx, playerID, *booster); err != nil {
				return err
			}
		}

		out.Balance, err = s.ledger.Balance(txCtx, playerID)
		if err != nil {
			return err
		}

		p, err := s.progressRepo.GetProgress(txCtx, playerID)
		if err != nil {
			return err
		}
		gained = progress.Apply(&p, statEvents(req.Mode, res, booster)...)
		if err = s.progressRepo.SaveProgress(txCtx, playerID, p); err != nil {
			return err
		}
		out.Level = p.Level

		// Бесплатный спин и выбор бустера фиксируются вместе с балансом
		return s.saveSession(txCtx, playerID, req, res, out, selectionUsed)
	})
	if err != nil {
		if !errors.Is(err, model.ErrInsufficientFunds) {
			s.logger.Error("spin failed", zap.String("player", playerID), zap.Error(err))
		}
		return nil, err
	}

	out.SpinID = spinID
	out.Mode = req.Mode
	out.Currency = req.Currency
	out.Bet = req.Bet
	out.ResultDigit = res.ResultDigit
	out.Won = res.Won
	out.Payout = res.Payout
	out.SectorBonus = res.SectorBonus
	out.FreeSpinGranted = res.FreeSpin
	if res.BoosterFired {
		out.BoosterUsed = booster
	}

	s.observe(req, res, out, gained)
	s.ledger.Publish(ctx, playerID)
	return out, nil
}

func (s *serv) saveSession(ctx context.Context, playerID string, req model.SpinRequest, res Result, out *model.SpinOutcome, selectionUsed bool) error {
	switch {
	case res.FreeSpin:
		err := s.sessions.SetFreeSpin(ctx, playerID, &model.FreeSpin{
			Mode:        req.Mode,
			Currency:    req.Currency,
			Bet:         req.Bet,
			PickedDigit: req.PickedDigit,
			BonusSector: req.BonusSector,
		})
		if err != nil {
			return err
		}
	case out.Free:
		if err := s.sessions.SetFreeSpin(ctx, playerID, nil); err != nil {
			return err
		}
	}

	if out.BoosterCleared || (selectionUsed && res.BoosterFired) {
		return s.sessions.SetSelectedBooster(ctx, playerID, nil)
	}
	return nil
}

func (s *serv) observe(req model.SpinRequest, res Result, out *model.SpinOutcome, gained int) {
	mode := string(req.Mode)
	cur := string(req.Currency)

	metrics.Spins.WithLabelValues(mode).Inc()
	if !out.Free {
		metrics.Bets.WithLabelValues(mode, cur).Add(float64(req.Bet))
	}
	if res.Payout > 0 {
		metrics.Payouts.WithLabelValues(mode, cur).Add(float64(res.Payout))
	}
	if out.BoosterUsed != nil {
		metrics.BoostersUsed.WithLabelValues(string(*out.BoosterUsed)).Inc()
	}
	if gained > 0 {
		metrics.LevelsReached.Add(float64(gained))
	}

	// RTP дома считаем только по W
	if req.Currency == model.CurrencyW {
		bet := req.Bet
		if out.Free {
			bet = 0
		}
		s.rtpStats.UpdateState(req.Mode, bet, res.Payout)
		metrics.WindowRTP.WithLabelValues(mode).Set(s.rtpStats.State(req.Mode).WindowRTP)
	}

	s.logger.Debug("spin",
		zap.Int64("spin_id", out.SpinID),
		zap.String("mode", mode),
		zap.Int("digit", res.ResultDigit),
		zap.Bool("won", res.Won),
		zap.Int64("payout", res.Payout),
		zap.Int("level", out.Level),
	)
}

func statEvents(mode model.SpinMode, res Result, booster *model.BoosterKind) []progress.Event {
	events := []progress.Event{progress.Spin(mode)}
	if res.Won {
		events = append(events, progress.Win())
	}
	if res.SectorBonus != nil {
		events = append(events, progress.SectorHit())
	}
	if res.BoosterFired && booster != nil {
		events = append(events, progress.BoosterUsed(*booster))
	}
	return events
}
