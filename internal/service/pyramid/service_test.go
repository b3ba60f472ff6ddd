package pyramid

import (
	"context"
	"math"
	"testing"
	"time"

	"speen_backend/internal/config"
	"speen_backend/internal/config/env"
	"speen_backend/internal/model"
	"speen_backend/internal/repository/memory"
	"speen_backend/internal/service"
	"speen_backend/internal/service/ledger"
	"speen_backend/pkg/keylock"
	"speen_backend/pkg/rng"
	"speen_backend/pkg/scheduler"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const startW = 100_000

type fixture struct {
	store     *memory.Store
	sessions  *memory.Sessions
	scheduler *scheduler.Manual
	cfg       config.GameConfig
	now       time.Time
	serv      service.PyramidService
}

func newFixture(t *testing.T, cfg config.GameConfig, digits ...int) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		store:     memory.NewStore(),
		sessions:  memory.NewSessions(),
		scheduler: scheduler.NewManual(),
		cfg:       cfg,
		now:       time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC),
	}
	_, err := f.store.EnsurePlayer(ctx, model.Player{ID: "p1"})
	require.NoError(t, err)
	_, err = f.store.ApplyDelta(ctx, "p1", model.Delta{W: startW, Reason: model.ReasonWelcome})
	require.NoError(t, err)

	f.serv = f.newServ(f.scheduler, digits...)
	return f
}

// newServ Сервис поверх тех же хранилищ, как после рестарта процесса
func (f *fixture) newServ(sched scheduler.Scheduler, digits ...int) service.PyramidService {
	ledgerServ := ledger.NewLedgerService(ledger.Deps{
		Repo:         f.store,
		PlayerRepo:   f.store,
		ProgressRepo: f.store,
		TxManager:    memory.TxManager{},
		Logger:       zap.NewNop(),
	})
	return NewPyramidService(Deps{
		BoosterRepo:  f.store,
		ProgressRepo: f.store,
		Sessions:     f.sessions,
		Ledger:       ledgerServ,
		Cfg:          f.cfg,
		TxManager:    memory.TxManager{},
		Locker:       keylock.New(),
		Rand:         rng.NewSequence(digits...),
		Scheduler:    sched,
		Now:          func() time.Time { return f.now },
		Logger:       zap.NewNop(),
	})
}

func arm(bet int64, digit int) model.SpinRequest {
	return model.SpinRequest{Currency: model.CurrencyW, Bet: bet, PickedDigit: digit}
}

func kind(k model.BoosterKind) *model.BoosterKind { return &k }

func sector(d int) *int { return &d }

func (f *fixture) balanceW(t *testing.T) uint64 {
	t.Helper()
	bal, err := f.store.GetBalance(context.Background(), "p1")
	require.NoError(t, err)
	return bal.W
}

// run Применяет спины до расчета
func (f *fixture) run(t *testing.T, spins int) *model.PyramidSettlement {
	t.Helper()
	var step *model.PyramidStep
	for i := 1; i <= spins; i++ {
		var err error
		step, err = f.serv.Advance(context.Background(), "p1", int64(i))
		require.NoError(t, err)
		if i < spins {
			require.Nil(t, step.Settlement)
			require.Equal(t, model.PyramidSpinning, step.Session.State)
		}
	}
	require.NotNil(t, step.Settlement)
	return step.Settlement
}

func TestPyramidHitSecondPosition(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)
	ctx := context.Background()

	session, err := f.serv.Arm(ctx, "p1", arm(10_001, 7))
	require.NoError(t, err)
	require.Equal(t, model.PyramidArmed, session.State)
	require.Equal(t, model.PyramidBaseSpins, session.MaxSpins)
	require.Equal(t, []int{3, 7, 1}, session.PlannedDigits)
	require.Equal(t, f.now.Add(2500*time.Millisecond), session.NextSpinAt)
	require.Equal(t, uint64(startW-10_001), f.balanceW(t))

	settlement := f.run(t, 3)
	require.Equal(t, 1, settlement.HitIndex)
	require.Equal(t, "1.5", settlement.Multiplier)
	require.Equal(t, int64(15_001), settlement.Payout)
	require.Equal(t, []int{3, 7, 1}, settlement.Session.Results)
	require.Equal(t, model.PyramidSettled, settlement.Session.State)
	require.Equal(t, uint64(startW-10_001+15_001), settlement.Balance.W)

	current, err := f.serv.Get(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, current)

	p, err := f.store.GetProgress(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(3), p.Stats.SpinsTotal)
	require.Equal(t, int64(1), p.Stats.Spins3of10)
	require.Equal(t, int64(1), p.Stats.Wins)
	require.Zero(t, p.Stats.SpinsX2)
}

func TestPyramidMiss(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)

	_, err := f.serv.Arm(context.Background(), "p1", arm(10_000, 9))
	require.NoError(t, err)

	settlement := f.run(t, 3)
	require.Equal(t, -1, settlement.HitIndex)
	require.Zero(t, settlement.Payout)
	require.Equal(t, uint64(startW-10_000), f.balanceW(t))
}

func TestPyramidResultsUnique(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 5, 5, 5)

	_, err := f.serv.Arm(context.Background(), "p1", arm(10_000, 6))
	require.NoError(t, err)

	settlement := f.run(t, 3)
	require.Equal(t, []int{5, 6, 7}, settlement.Session.Results)
	require.Equal(t, 1, settlement.HitIndex)
}

func TestPyramidDuplicateSpinID(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)
	ctx := context.Background()

	_, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)

	step, err := f.serv.Advance(ctx, "p1", 1)
	require.NoError(t, err)
	require.False(t, step.Duplicate)

	step, err = f.serv.Advance(ctx, "p1", 1)
	require.NoError(t, err)
	require.True(t, step.Duplicate)
	require.Equal(t, []int{3}, step.Session.Results)

	step, err = f.serv.Advance(ctx, "p1", 0)
	require.NoError(t, err)
	require.True(t, step.Duplicate)

	step, err = f.serv.Advance(ctx, "p1", 2)
	require.NoError(t, err)
	require.False(t, step.Duplicate)
	require.Equal(t, []int{3, 7}, step.Session.Results)
}

func TestPyramidSpinIDGapRejected(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)
	ctx := context.Background()

	_, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)

	_, err = f.serv.Advance(ctx, "p1", math.MaxInt64)
	require.ErrorIs(t, err, model.ErrSequenceViolation)
	_, err = f.serv.Advance(ctx, "p1", 3)
	require.ErrorIs(t, err, model.ErrSequenceViolation)

	current, err := f.serv.Get(ctx, "p1")
	require.NoError(t, err)
	require.Empty(t, current.Results)
	require.Zero(t, current.LastSpinID)

	// Серия по-прежнему доходит до расчета
	settlement := f.run(t, 3)
	require.Equal(t, 1, settlement.HitIndex)
	require.Equal(t, int64(15_000), settlement.Payout)
}

func TestPyramidSequenceViolations(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)
	ctx := context.Background()

	_, err := f.serv.Advance(ctx, "p1", 1)
	require.ErrorIs(t, err, model.ErrSequenceViolation)
	require.ErrorIs(t, f.serv.Cancel(ctx, "p1"), model.ErrSequenceViolation)

	_, err = f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)
	_, err = f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.ErrorIs(t, err, model.ErrSequenceViolation)
	require.Equal(t, uint64(startW-10_000), f.balanceW(t))

	f.run(t, 3)
	_, err = f.serv.Advance(ctx, "p1", 4)
	require.ErrorIs(t, err, model.ErrSequenceViolation)
}

func TestPyramidArmValidation(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)
	ctx := context.Background()

	_, err := f.serv.Arm(ctx, "p1", arm(9_999, 7))
	require.ErrorIs(t, err, model.ErrBetOutOfRange)

	_, err = f.serv.Arm(ctx, "p1", arm(10_000, 11))
	require.ErrorIs(t, err, model.ErrInvalidDigit)

	_, err = f.serv.Arm(ctx, "p1", arm(startW+1, 7))
	require.ErrorIs(t, err, model.ErrBetOutOfRange)

	current, err := f.serv.Get(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, current)
	require.Equal(t, uint64(startW), f.balanceW(t))
}

func TestPyramidInsufficientFunds(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)
	ctx := context.Background()

	_, err := f.serv.Arm(ctx, "p1", model.SpinRequest{Currency: model.CurrencyB, Bet: 10_000, PickedDigit: 7})
	require.ErrorIs(t, err, model.ErrInsufficientFunds)

	current, err := f.serv.Get(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, current)
}

func TestPyramidCancelBeforeFirstSpinRefunds(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)
	ctx := context.Background()

	_, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)
	require.NoError(t, f.serv.Cancel(ctx, "p1"))
	require.Equal(t, uint64(startW), f.balanceW(t))

	current, err := f.serv.Get(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, current)
}

func TestPyramidCancelAfterSpinForfeits(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 7, 3, 1)
	ctx := context.Background()

	_, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)
	_, err = f.serv.Advance(ctx, "p1", 1)
	require.NoError(t, err)

	// Выбранная цифра уже выпала, но частичной выплаты нет
	require.NoError(t, f.serv.Cancel(ctx, "p1"))
	require.Equal(t, uint64(startW-10_000), f.balanceW(t))

	p, err := f.store.GetProgress(ctx, "p1")
	require.NoError(t, err)
	require.Zero(t, p.Stats.Spins3of10)
}

func TestPyramidBatteryAddsFourthSpin(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 1, 2, 3, 7)
	ctx := context.Background()
	_, err := f.store.Grant(ctx, "p1", model.BoosterBattery)
	require.NoError(t, err)

	req := arm(10_000, 7)
	req.Booster = kind(model.BoosterBattery)
	session, err := f.serv.Arm(ctx, "p1", req)
	require.NoError(t, err)
	require.Equal(t, model.PyramidExtendedSpins, session.MaxSpins)

	inv, err := f.store.GetInventory(ctx, "p1")
	require.NoError(t, err)
	require.Zero(t, inv.Count(model.BoosterBattery))

	settlement := f.run(t, 4)
	require.Equal(t, 3, settlement.HitIndex)
	require.Equal(t, int64(20_000), settlement.Payout)

	p, err := f.store.GetProgress(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(4), p.Stats.SpinsTotal)
	require.Equal(t, int64(1), p.Stats.Used(model.BoosterBattery))
}

func TestPyramidRocket(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 7, 2, 3)
	ctx := context.Background()
	_, err := f.store.Grant(ctx, "p1", model.BoosterRocket)
	require.NoError(t, err)
	require.NoError(t, f.sessions.SetSelectedBooster(ctx, "p1", kind(model.BoosterRocket)))

	session, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)
	require.True(t, session.Rocket)

	selected, err := f.sessions.GetSelectedBooster(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, selected)

	settlement := f.run(t, 3)
	require.Equal(t, 0, settlement.HitIndex)
	require.Equal(t, int64(4*20_000), settlement.Payout)

	inv, err := f.store.GetInventory(ctx, "p1")
	require.NoError(t, err)
	require.Zero(t, inv.Count(model.BoosterRocket))
}

func TestPyramidRocketKeptOnMiss(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 1, 2, 3)
	ctx := context.Background()
	_, err := f.store.Grant(ctx, "p1", model.BoosterRocket)
	require.NoError(t, err)

	req := arm(10_000, 7)
	req.Booster = kind(model.BoosterRocket)
	_, err = f.serv.Arm(ctx, "p1", req)
	require.NoError(t, err)

	settlement := f.run(t, 3)
	require.Zero(t, settlement.Payout)

	inv, err := f.store.GetInventory(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 1, inv.Count(model.BoosterRocket))
}

func TestPyramidUnownedBoosterCleared(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 1, 2, 3)
	ctx := context.Background()
	require.NoError(t, f.sessions.SetSelectedBooster(ctx, "p1", kind(model.BoosterBattery)))

	session, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)
	require.True(t, session.BoosterCleared)
	require.Equal(t, model.PyramidBaseSpins, session.MaxSpins)

	selected, err := f.sessions.GetSelectedBooster(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, selected)
}

func TestPyramidBonusSector(t *testing.T) {
	cfg, err := env.ParseGameConfig([]byte(`
bonus_sector_unlock_level: 0
sector_bonuses:
  - { money: 500, weight: 1 }
`))
	require.NoError(t, err)
	f := newFixture(t, cfg, 3, 7, 1)
	ctx := context.Background()

	_, err = f.serv.Arm(ctx, "p1", arm(10_000, 9))
	require.ErrorIs(t, err, model.ErrSectorRequired)

	req := arm(10_000, 9)
	req.BonusSector = sector(1)
	_, err = f.serv.Arm(ctx, "p1", req)
	require.NoError(t, err)

	settlement := f.run(t, 3)
	require.NotNil(t, settlement.SectorBonus)
	require.Equal(t, model.Money(500), *settlement.SectorBonus)
	require.Equal(t, uint64(startW-10_000+500), settlement.Balance.W)

	p, err := f.store.GetProgress(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(1), p.Stats.SectorHits)
}

func TestPyramidSectorIgnoredBeforeUnlock(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)

	req := arm(10_000, 9)
	req.BonusSector = sector(1)
	session, err := f.serv.Arm(context.Background(), "p1", req)
	require.NoError(t, err)
	require.Nil(t, session.BonusSector)
}

func TestPyramidAutoAdvance(t *testing.T) {
	cfg, err := env.ParseGameConfig([]byte("pyramid: { auto_advance: true, spin_interval: 2s }"))
	require.NoError(t, err)
	f := newFixture(t, cfg, 3, 7, 1)
	ctx := context.Background()

	session, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)
	require.Equal(t, []string{session.ID}, f.scheduler.Keys())

	delay, ok := f.scheduler.Delay(session.ID)
	require.True(t, ok)
	require.Equal(t, 2*time.Second, delay)

	require.True(t, f.scheduler.Fire(session.ID))
	current, err := f.serv.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, []int{3}, current.Results)
	require.Equal(t, int64(1), current.LastSpinID)

	// Ручной advance и таймер не расходятся по spin-id
	_, err = f.serv.Advance(ctx, "p1", 2)
	require.NoError(t, err)
	require.True(t, f.scheduler.Fire(session.ID))

	current, err = f.serv.Get(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, current)
	require.Empty(t, f.scheduler.Keys())
	require.Equal(t, uint64(startW-10_000+15_000), f.balanceW(t))
}

func TestPyramidSurvivesRestart(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)
	ctx := context.Background()

	_, err := f.serv.Arm(ctx, "p1", arm(10_000, 1))
	require.NoError(t, err)
	_, err = f.serv.Advance(ctx, "p1", 1)
	require.NoError(t, err)

	f.serv = f.newServ(scheduler.NewManual())

	step, err := f.serv.Advance(ctx, "p1", 2)
	require.NoError(t, err)
	require.Equal(t, []int{3, 7}, step.Session.Results)

	step, err = f.serv.Advance(ctx, "p1", 3)
	require.NoError(t, err)
	require.NotNil(t, step.Settlement)
	require.Equal(t, 2, step.Settlement.HitIndex)
	require.Equal(t, int64(12_500), step.Settlement.Payout)
	require.Equal(t, uint64(startW-10_000+12_500), f.balanceW(t))
}

func TestPyramidRestoreTimers(t *testing.T) {
	cfg, err := env.ParseGameConfig([]byte("pyramid: { auto_advance: true, spin_interval: 2s }"))
	require.NoError(t, err)
	f := newFixture(t, cfg, 3, 7, 1)
	ctx := context.Background()

	session, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)

	sched := scheduler.NewManual()
	f.serv = f.newServ(sched)
	f.now = f.now.Add(time.Second)

	n, err := f.serv.Restore(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []string{session.ID}, sched.Keys())

	delay, ok := sched.Delay(session.ID)
	require.True(t, ok)
	require.Equal(t, time.Second, delay)

	require.True(t, sched.Fire(session.ID))
	current, err := f.serv.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, []int{3}, current.Results)
}

func TestPyramidRestoreWithoutAutoAdvance(t *testing.T) {
	f := newFixture(t, env.DefaultGameConfig(), 3, 7, 1)
	ctx := context.Background()

	_, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)

	n, err := f.serv.Restore(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, f.scheduler.Keys())
}

func TestPyramidRocketSectorMultiplier(t *testing.T) {
	cfg, err := env.ParseGameConfig([]byte(`
bonus_sector_unlock_level: 0
rocket_sector_multiplier: 3
sector_bonuses:
  - { money: 500, weight: 1 }
`))
	require.NoError(t, err)
	f := newFixture(t, cfg, 3, 7, 1)
	ctx := context.Background()
	_, err = f.store.Grant(ctx, "p1", model.BoosterRocket)
	require.NoError(t, err)

	req := arm(10_000, 9)
	req.BonusSector = sector(1)
	req.Booster = kind(model.BoosterRocket)
	_, err = f.serv.Arm(ctx, "p1", req)
	require.NoError(t, err)

	settlement := f.run(t, 3)
	require.Zero(t, settlement.Payout)
	require.Equal(t, model.Money(1_500), *settlement.SectorBonus)
	require.Equal(t, uint64(startW-10_000+1_500), settlement.Balance.W)

	inv, err := f.store.GetInventory(ctx, "p1")
	require.NoError(t, err)
	require.Zero(t, inv.Count(model.BoosterRocket))
}

func TestPyramidCancelClearsTimer(t *testing.T) {
	cfg, err := env.ParseGameConfig([]byte("pyramid: { auto_advance: true }"))
	require.NoError(t, err)
	f := newFixture(t, cfg, 3, 7, 1)
	ctx := context.Background()

	session, err := f.serv.Arm(ctx, "p1", arm(10_000, 7))
	require.NoError(t, err)
	require.NoError(t, f.serv.Cancel(ctx, "p1"))

	require.False(t, f.scheduler.Fire(session.ID))
	require.Empty(t, f.scheduler.Keys())
}
