package model

import (
	"time"

	domain "speen_backend/internal/model"
)

// Pyramid Серия пирамиды в jsonb
type Pyramid struct {
	ID             string    `json:"id"`
	PlayerID       string    `json:"player_id"`
	State          string    `json:"state"`
	Currency       string    `json:"currency"`
	Bet            int64     `json:"bet"`
	SelectedDigit  int       `json:"selected_digit"`
	BonusSector    *int      `json:"bonus_sector,omitempty"`
	PlannedDigits  []int     `json:"planned_digits"`
	Results        []int     `json:"results"`
	MaxSpins       int       `json:"max_spins"`
	Rocket         bool      `json:"rocket"`
	BoosterCleared bool      `json:"booster_cleared"`
	LastSpinID     int64     `json:"last_spin_id"`
	NextSpinAt     time.Time `json:"next_spin_at"`
}

// FreeSpin Бесплатный спин от Battery в jsonb
type FreeSpin struct {
	Mode        string `json:"mode"`
	Currency    string `json:"currency"`
	Bet         int64  `json:"bet"`
	PickedDigit int    `json:"picked_digit"`
	BonusSector *int   `json:"bonus_sector,omitempty"`
}

func FromPyramid(s *domain.PyramidSession) Pyramid {
	return Pyramid{
		ID:             s.ID,
		PlayerID:       s.PlayerID,
		State:          string(s.State),
		Currency:       string(s.Currency),
		Bet:            s.Bet,
		SelectedDigit:  s.SelectedDigit,
		BonusSector:    s.BonusSector,
		PlannedDigits:  s.PlannedDigits,
		Results:        s.Results,
		MaxSpins:       s.MaxSpins,
		Rocket:         s.Rocket,
		BoosterCleared: s.BoosterCleared,
		LastSpinID:     s.LastSpinID,
		NextSpinAt:     s.NextSpinAt.UTC(),
	}
}

func (p Pyramid) ToDomain() *domain.PyramidSession {
	return &domain.PyramidSession{
		ID:             p.ID,
		PlayerID:       p.PlayerID,
		State:          domain.PyramidState(p.State),
		Currency:       domain.Currency(p.Currency),
		Bet:            p.Bet,
		SelectedDigit:  p.SelectedDigit,
		BonusSector:    p.BonusSector,
		PlannedDigits:  p.PlannedDigits,
		Results:        p.Results,
		MaxSpins:       p.MaxSpins,
		Rocket:         p.Rocket,
		BoosterCleared: p.BoosterCleared,
		LastSpinID:     p.LastSpinID,
		NextSpinAt:     p.NextSpinAt,
	}
}

func FromFreeSpin(f *domain.FreeSpin) FreeSpin {
	return FreeSpin{
		Mode:        string(f.Mode),
		Currency:    string(f.Currency),
		Bet:         f.Bet,
		PickedDigit: f.PickedDigit,
		BonusSector: f.BonusSector,
	}
}

func (f FreeSpin) ToDomain() *domain.FreeSpin {
	return &domain.FreeSpin{
		Mode:        domain.SpinMode(f.Mode),
		Currency:    domain.Currency(f.Currency),
		Bet:         f.Bet,
		PickedDigit: f.PickedDigit,
		BonusSector: f.BonusSector,
	}
}
