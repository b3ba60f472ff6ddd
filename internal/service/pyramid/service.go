package pyramid

import (
	"context"
	"time"

	"speen_backend/internal/config"
	"speen_backend/internal/metrics"
	"speen_backend/internal/model"
	"speen_backend/internal/repository"
	"speen_backend/internal/service"
	"speen_backend/internal/service/progress"
	"speen_backend/internal/service/spin"
	"speen_backend/pkg/keylock"
	"speen_backend/pkg/rng"
	"speen_backend/pkg/scheduler"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const autoAdvanceTimeout = 10 * time.Second

type Deps struct {
	BoosterRepo  repository.BoosterRepository
	ProgressRepo repository.ProgressRepository
	Sessions     repository.SessionRepository
	Ledger       service.LedgerService
	Cfg          config.GameConfig
	TxManager    trm.Manager
	Locker       *keylock.Locker
	Rand         rng.Source
	Scheduler    scheduler.Scheduler
	Now          func() time.Time
	Logger       *zap.Logger
}

type serv struct {
	boosterRepo  repository.BoosterRepository
	progressRepo repository.ProgressRepository
	sessions     repository.SessionRepository
	ledger       service.LedgerService
	cfg          config.GameConfig
	txManager    trm.Manager
	locker       *keylock.Locker
	rand         rng.Source
	scheduler    scheduler.Scheduler
	now          func() time.Time
	logger       *zap.Logger
}

// NewPyramidService Серия "3 из 10"
func NewPyramidService(deps Deps) service.PyramidService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &serv{
		boosterRepo:  deps.BoosterRepo,
		progressRepo: deps.ProgressRepo,
		sessions:     deps.Sessions,
		ledger:       deps.Ledger,
		cfg:          deps.Cfg,
		txManager:    deps.TxManager,
		locker:       deps.Locker,
		rand:         deps.Rand,
		scheduler:    deps.Scheduler,
		now:          now,
		logger:       deps.Logger,
	}
}

// Arm Старт серии: ставка списывается один раз на всю серию, цифры планируются сразу
func (s *serv) Arm(ctx context.Context, playerID string, req model.SpinRequest) (*model.PyramidSession, error) {
	req.Mode = model.ModePyramid
	if err := validate(s.cfg, req); err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(playerID)
	defer unlock()

	current, err := s.sessions.GetPyramid(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, model.ErrSequenceViolation
	}

	p, err := s.progressRepo.GetProgress(ctx, playerID)
	if err != nil {
		return nil, err
	}
	// Бонусный сектор обязателен только после открытия
	if p.Level >= s.cfg.BonusSectorUnlockLevel() {
		if req.BonusSector == nil {
			return nil, model.ErrSectorRequired
		}
	} else {
		req.BonusSector = nil
	}

	session := &model.PyramidSession{
		ID:            uuid.NewString(),
		PlayerID:      playerID,
		State:         model.PyramidArmed,
		Currency:      req.Currency,
		Bet:           req.Bet,
		SelectedDigit: req.PickedDigit,
		BonusSector:   req.BonusSector,
		MaxSpins:      model.PyramidBaseSpins,
	}

	booster, selectionUsed, err := s.activeBooster(ctx, playerID, req.Booster)
	if err != nil {
		return nil, err
	}
	if booster == nil && (req.Booster != nil || selectionUsed) {
		session.BoosterCleared = true
	}

	var battery bool
	if booster != nil {
		switch *booster {
		case model.BoosterBattery:
			battery = true
			session.MaxSpins = model.PyramidExtendedSpins
		case model.BoosterRocket:
			session.Rocket = true
		}
	}

	session.PlannedDigits = PlanDigits(s.rand, session.MaxSpins)
	session.NextSpinAt = s.now().Add(s.cfg.PyramidSpinInterval())
	clearSelection := session.BoosterCleared || (selectionUsed && (battery || session.Rocket))

	// Ставка, Battery и сама серия фиксируются вместе
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		_, err := s.ledger.Apply(txCtx, playerID, model.NewDelta(req.Currency, -req.Bet, model.ReasonPyramidStake))
		if err != nil {
			return err
		}

		if battery {
			// Battery расходуется сразу и добавляет четвертый спин
			if _, err = s.boosterRepo.Consume(txCtx, playerID, model.BoosterBattery); err != nil {
				return err
			}
			p, err := s.progressRepo.GetProgress(txCtx, playerID)
			if err != nil {
				return err
			}
			progress.Apply(&p, progress.BoosterUsed(model.BoosterBattery))
			if err = s.progressRepo.SaveProgress(txCtx, playerID, p); err != nil {
				return err
			}
		}

		if clearSelection {
			if err = s.sessions.SetSelectedBooster(txCtx, playerID, nil); err != nil {
				return err
			}
		}
		return s.sessions.SavePyramid(txCtx, session)
	})
	if err != nil {
		return nil, err
	}

	s.scheduleNext(session)

	metrics.PyramidSessions.WithLabelValues("armed").Inc()
	metrics.Bets.WithLabelValues(string(model.ModePyramid), string(req.Currency)).Add(float64(req.Bet))
	if battery {
		metrics.BoostersUsed.WithLabelValues(string(model.BoosterBattery)).Inc()
	}
	s.logger.Info("pyramid armed",
		zap.String("player", playerID),
		zap.String("session", session.ID),
		zap.Int64("bet", req.Bet),
		zap.Int("max_spins", session.MaxSpins),
	)
	s.ledger.Publish(ctx, playerID)
	return session, nil
}

// Advance Применяет следующий запланированный спин. Повторный spin-id игнорируется
func (s *serv) Advance(ctx context.Context, playerID string, spinID int64) (*model.PyramidStep, error) {
	unlock := s.locker.Lock(playerID)
	defer unlock()

	session, err := s.sessions.GetPyramid(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, model.ErrSequenceViolation
	}
	return s.advance(ctx, session, spinID)
}

func (s *serv) advance(ctx context.Context, session *model.PyramidSession, spinID int64) (*model.PyramidStep, error) {
	if spinID <= session.LastSpinID {
		return &model.PyramidStep{Session: session, Duplicate: true}, nil
	}
	// Пропуск id не допускается: иначе серию можно увести за пределы счетчика
	if spinID != session.LastSpinID+1 || session.Done() {
		return nil, model.ErrSequenceViolation
	}

	session.Results = append(session.Results, session.PlannedDigits[len(session.Results)])
	session.LastSpinID = spinID
	session.State = model.PyramidSpinning
	metrics.Spins.WithLabelValues(string(model.ModePyramid)).Inc()

	if !session.Done() {
		session.NextSpinAt = s.now().Add(s.cfg.PyramidSpinInterval())
		if err := s.sessions.SavePyramid(ctx, session); err != nil {
			return nil, err
		}
		s.scheduleNext(session)
		return &model.PyramidStep{Session: session}, nil
	}

	settlement, err := s.settle(ctx, session)
	if err != nil {
		return nil, err
	}
	return &model.PyramidStep{Session: settlement.Session, Settlement: settlement}, nil
}

// settle Расчет серии. Начисление, статистика и удаление сессии вместе
func (s *serv) settle(ctx context.Context, session *model.PyramidSession) (*model.PyramidSettlement, error) {
	hit := session.HitIndex()
	mult, payout := Payout(s.cfg.PyramidMultipliers(), session.Bet, hit)

	rocketFired := false
	if session.Rocket && payout > 0 {
		payout *= s.cfg.RocketMultiplier()
		rocketFired = true
	}

	var bonus *model.SectorBonus
	if session.BonusSector != nil && contains(session.Results, *session.BonusSector) {
		if b, ok := spin.PickSectorBonus(s.rand, s.cfg.SectorBonuses()); ok {
			if b.IsMoney() && session.Rocket {
				b.Amount *= s.cfg.RocketSectorMultiplier()
				rocketFired = true
			}
			bonus = &b
		}
	}

	settlement := &model.PyramidSettlement{
		HitIndex:    hit,
		Multiplier:  mult.String(),
		Payout:      payout,
		SectorBonus: bonus,
	}

	var gained int
	playerID := session.PlayerID
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		if payout > 0 {
			_, err = s.ledger.Apply(txCtx, playerID, model.NewDelta(session.Currency, payout, model.ReasonPyramidWin))
			if err != nil {
				return err
			}
		}

		if bonus != nil {
			if bonus.IsMoney() {
				_, err = s.ledger.Apply(txCtx, playerID, model.NewDelta(session.Currency, bonus.Amount, model.ReasonSectorBonus))
			} else {
				_, err = s.boosterRepo.Grant(txCtx, playerID, bonus.Item)
			}
			if err != nil {
				return err
			}
		}

		if rocketFired {
			if _, err = s.boosterRepo.Consume(txCtx, playerID, model.BoosterRocket); err != nil {
				return err
			}
		}

		settlement.Balance, err = s.ledger.Balance(txCtx, playerID)
		if err != nil {
			return err
		}

		p, err := s.progressRepo.GetProgress(txCtx, playerID)
		if err != nil {
			return err
		}
		gained = progress.Apply(&p, settleEvents(session, hit, bonus != nil, rocketFired)...)
		if err = s.progressRepo.SaveProgress(txCtx, playerID, p); err != nil {
			return err
		}
		settlement.Level = p.Level
		return s.sessions.DeletePyramid(txCtx, playerID)
	})
	if err != nil {
		s.logger.Error("pyramid settlement failed", zap.String("session", session.ID), zap.Error(err))
		return nil, err
	}

	s.scheduler.Cancel(session.ID)

	session.State = model.PyramidSettled
	settlement.Session = session

	metrics.PyramidSessions.WithLabelValues("settled").Inc()
	if payout > 0 {
		metrics.Payouts.WithLabelValues(string(model.ModePyramid), string(session.Currency)).Add(float64(payout))
	}
	if rocketFired {
		metrics.BoostersUsed.WithLabelValues(string(model.BoosterRocket)).Inc()
	}
	if gained > 0 {
		metrics.LevelsReached.Add(float64(gained))
	}
	s.logger.Info("pyramid settled",
		zap.String("player", playerID),
		zap.String("session", session.ID),
		zap.Ints("results", session.Results),
		zap.Int("hit_index", hit),
		zap.Int64("payout", payout),
	)
	s.ledger.Publish(ctx, playerID)
	return settlement, nil
}

// Cancel Прерывание серии без частичной выплаты.
// Ставка возвращается только если ни один спин еще не применен
func (s *serv) Cancel(ctx context.Context, playerID string) error {
	unlock := s.locker.Lock(playerID)
	defer unlock()

	session, err := s.sessions.GetPyramid(ctx, playerID)
	if err != nil {
		return err
	}
	if session == nil {
		return model.ErrSequenceViolation
	}

	s.scheduler.Cancel(session.ID)

	refund := len(session.Results) == 0
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if refund {
			_, err := s.ledger.Apply(txCtx, playerID, model.NewDelta(session.Currency, session.Bet, model.ReasonPyramidRefund))
			if err != nil {
				return err
			}
		}
		return s.sessions.DeletePyramid(txCtx, playerID)
	})
	if err != nil {
		return err
	}

	metrics.PyramidSessions.WithLabelValues("cancelled").Inc()
	s.logger.Info("pyramid cancelled",
		zap.String("player", playerID),
		zap.String("session", session.ID),
		zap.Bool("refund", refund),
	)
	if refund {
		s.ledger.Publish(ctx, playerID)
	}
	return nil
}

// Get Текущая серия игрока, nil если серии нет
func (s *serv) Get(ctx context.Context, playerID string) (*model.PyramidSession, error) {
	return s.sessions.GetPyramid(ctx, playerID)
}

// Restore Заново ставит таймеры незавершенных серий после рестарта.
// Без автоспинов серии ждут advance от клиента и таймеры не нужны
func (s *serv) Restore(ctx context.Context) (int, error) {
	if !s.cfg.PyramidAutoAdvance() || s.scheduler == nil {
		return 0, nil
	}

	sessions, err := s.sessions.ListPyramids(ctx)
	if err != nil {
		return 0, err
	}
	for _, session := range sessions {
		s.scheduleNext(session)
	}

	if len(sessions) > 0 {
		s.logger.Info("pyramid timers restored", zap.Int("sessions", len(sessions)))
	}
	return len(sessions), nil
}

// activeBooster Бустер из запроса или выбранный, только если он есть в инвентаре
func (s *serv) activeBooster(ctx context.Context, playerID string, requested *model.BoosterKind) (*model.BoosterKind, bool, error) {
	booster := requested
	selectionUsed := false
	if booster == nil {
		var err error
		booster, err = s.sessions.GetSelectedBooster(ctx, playerID)
		if err != nil {
			return nil, false, err
		}
		selectionUsed = booster != nil
	}
	if booster == nil {
		return nil, false, nil
	}

	inv, err := s.boosterRepo.GetInventory(ctx, playerID)
	if err != nil {
		return nil, false, err
	}
	if !inv.Has(*booster) {
		s.logger.Info("selected booster not owned",
			zap.String("player", playerID),
			zap.String("kind", string(*booster)),
		)
		return nil, selectionUsed, nil
	}
	return booster, selectionUsed, nil
}

// scheduleNext Автоматический следующий спин, если включен
func (s *serv) scheduleNext(session *model.PyramidSession) {
	if !s.cfg.PyramidAutoAdvance() || s.scheduler == nil {
		return
	}

	sessionID := session.ID
	playerID := session.PlayerID
	delay := session.NextSpinAt.Sub(s.now())
	s.scheduler.Schedule(sessionID, delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), autoAdvanceTimeout)
		defer cancel()
		s.autoAdvance(ctx, playerID, sessionID)
	})
}

func (s *serv) autoAdvance(ctx context.Context, playerID, sessionID string) {
	unlock := s.locker.Lock(playerID)
	defer unlock()

	session, err := s.sessions.GetPyramid(ctx, playerID)
	if err != nil {
		s.logger.Error("pyramid auto advance", zap.String("session", sessionID), zap.Error(err))
		return
	}
	// Серия уже завершена или заменена новой
	if session == nil || session.ID != sessionID {
		return
	}
	if _, err = s.advance(ctx, session, session.LastSpinID+1); err != nil {
		s.logger.Error("pyramid auto advance", zap.String("session", sessionID), zap.Error(err))
	}
}

func validate(cfg config.GameConfig, req model.SpinRequest) error {
	if !req.Currency.Valid() {
		return model.ErrInvalidCurrency
	}
	if !model.ValidDigit(req.PickedDigit) {
		return model.ErrInvalidDigit
	}
	if req.BonusSector != nil && !model.ValidDigit(*req.BonusSector) {
		return model.ErrInvalidSector
	}
	if req.Booster != nil && !req.Booster.Valid() {
		return model.ErrInvalidBooster
	}
	return spin.ValidateBet(cfg, model.ModePyramid, req.Bet)
}

func settleEvents(session *model.PyramidSession, hit int, sectorHit, rocketFired bool) []progress.Event {
	events := make([]progress.Event, 0, len(session.Results)+4)
	for range session.Results {
		events = append(events, progress.Spin(model.ModePyramid))
	}
	events = append(events, progress.PyramidSeries())
	if hit >= 0 {
		events = append(events, progress.Win())
	}
	if sectorHit {
		events = append(events, progress.SectorHit())
	}
	if rocketFired {
		events = append(events, progress.BoosterUsed(model.BoosterRocket))
	}
	return events
}

func contains(digits []int, d int) bool {
	for _, v := range digits {
		if v == d {
			return true
		}
	}
	return false
}
