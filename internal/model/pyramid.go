package model

import "time"

// PyramidState Состояние серии "3 из 10"
type PyramidState string

const (
	PyramidIdle     PyramidState = "idle"
	PyramidArmed    PyramidState = "armed"
	PyramidSpinning PyramidState = "spinning"
	PyramidSettled  PyramidState = "settled"
)

const (
	PyramidBaseSpins     = 3
	PyramidExtendedSpins = 4
)

// PyramidSession Серия зависимых спинов. Создается при старте серии, удаляется при расчете
type PyramidSession struct {
	ID             string
	PlayerID       string
	State          PyramidState
	Currency       Currency
	Bet            int64
	SelectedDigit  int
	BonusSector    *int
	PlannedDigits  []int
	Results        []int
	MaxSpins       int
	Rocket         bool  // Rocket был активен при старте
	BoosterCleared bool  // выбранного бустера не оказалось в инвентаре
	LastSpinID     int64 // последний примененный spin-id
	NextSpinAt     time.Time
}

// Done Серия завершена
func (s *PyramidSession) Done() bool {
	return len(s.Results) >= s.MaxSpins
}

// HitIndex Позиция выбранной цифры в результатах, -1 если ее нет
func (s *PyramidSession) HitIndex() int {
	for i, d := range s.Results {
		if d == s.SelectedDigit {
			return i
		}
	}
	return -1
}

// Clone Глубокая копия сессии
func (s *PyramidSession) Clone() *PyramidSession {
	if s == nil {
		return nil
	}
	out := *s
	out.PlannedDigits = append([]int(nil), s.PlannedDigits...)
	out.Results = append([]int(nil), s.Results...)
	if s.BonusSector != nil {
		v := *s.BonusSector
		out.BonusSector = &v
	}
	return &out
}

// PyramidSettlement Итог серии
type PyramidSettlement struct {
	Session     *PyramidSession
	HitIndex    int
	Multiplier  string
	Payout      int64
	SectorBonus *SectorBonus
	Balance     Balance
	Level       int
}

// PyramidStep Результат advance: либо обновленная сессия, либо расчет
type PyramidStep struct {
	Session    *PyramidSession
	Settlement *PyramidSettlement
	Duplicate  bool // spin-id уже был применен
}
