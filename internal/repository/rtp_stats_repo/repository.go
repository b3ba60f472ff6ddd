package rtp_stats_repo

import (
	"math"
	"sync"

	"speen_backend/internal/model"

	"go.uber.org/zap"
)

const (
	// windowSize Размер окна последних спинов для анализа
	windowSize = 500
	// periodSpinsToCheck Периодичность проверки отклонения (каждые N спинов)
	periodSpinsToCheck = 25
	// criticalRTPDeviation Отклонение RTP окна от целевого, после которого пишем предупреждение
	criticalRTPDeviation = 10.0
	// normalRTPDeviation Отклонение, при котором считаем что RTP вернулся в норму
	normalRTPDeviation = 5.0
)

type spinResult struct {
	bet    float64
	payout float64
}

type modeState struct {
	state  model.RTPState
	window []spinResult
}

// StateRepo In-memory статистика RTP по режимам
type StateRepo struct {
	mtx    sync.RWMutex
	modes  map[model.SpinMode]*modeState
	logger *zap.Logger
}

// NewRTPStatsRepository targets - теоретический RTP каждого режима в процентах
func NewRTPStatsRepository(targets map[model.SpinMode]float64, logger *zap.Logger) *StateRepo {
	r := &StateRepo{
		modes:  make(map[model.SpinMode]*modeState, len(targets)),
		logger: logger,
	}
	for mode, target := range targets {
		r.modes[mode] = &modeState{state: model.RTPState{
			Mode:       mode,
			TargetRTP:  target,
			CurrentRTP: target,
			WindowSize: windowSize,
		}}
	}
	return r
}

// State Копия статистики режима
func (r *StateRepo) State(mode model.SpinMode) model.RTPState {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	if m, ok := r.modes[mode]; ok {
		return m.state
	}
	return model.RTPState{Mode: mode}
}

// UpdateState Обновление статистики после спина
func (r *StateRepo) UpdateState(mode model.SpinMode, bet, payout int64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	m, ok := r.modes[mode]
	if !ok {
		m = &modeState{state: model.RTPState{Mode: mode, WindowSize: windowSize}}
		r.modes[mode] = m
	}
	s := &m.state

	s.TotalSpins++
	s.TotalBet += float64(bet)
	s.TotalPayout += float64(payout)
	if s.TotalBet > 0 {
		s.CurrentRTP = s.TotalPayout / s.TotalBet * 100
	}

	// Добавляем спин в окно и поддерживаем его размер
	m.window = append(m.window, spinResult{bet: float64(bet), payout: float64(payout)})
	if len(m.window) > s.WindowSize {
		m.window = m.window[1:]
	}

	var windowBet, windowPayout float64
	for _, spin := range m.window {
		windowBet += spin.bet
		windowPayout += spin.payout
	}
	if windowBet > 0 {
		s.WindowRTP = windowPayout / windowBet * 100
	} else {
		s.WindowRTP = 0
	}

	if s.TotalSpins%periodSpinsToCheck == 0 {
		r.checkDrift(s)
	}
}

// checkDrift Включает и выключает флаг отклонения, пишет в лог
func (r *StateRepo) checkDrift(s *model.RTPState) {
	if s.TargetRTP == 0 {
		return
	}
	diff := math.Abs(s.WindowRTP - s.TargetRTP)

	if !s.Drifting && diff > criticalRTPDeviation {
		s.Drifting = true
		r.logger.Warn("rtp drift detected",
			zap.String("mode", string(s.Mode)),
			zap.Float64("window_rtp", s.WindowRTP),
			zap.Float64("target_rtp", s.TargetRTP),
			zap.Float64("profit", s.TotalBet-s.TotalPayout),
		)
		return
	}
	if s.Drifting && diff < normalRTPDeviation {
		s.Drifting = false
		r.logger.Info("rtp back to normal",
			zap.String("mode", string(s.Mode)),
			zap.Float64("window_rtp", s.WindowRTP),
		)
	}
}
