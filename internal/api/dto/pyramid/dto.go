package pyramid

import "speen_backend/internal/api/dto/common"

type ArmRequest struct {
	Currency    string  `json:"currency"`
	Bet         int64   `json:"bet"`
	PickedDigit *int    `json:"picked_digit"`
	BonusSector *int    `json:"bonus_sector"`
	Booster     *string `json:"booster"`
}

type AdvanceRequest struct {
	SpinID int64 `json:"spin_id"` // Монотонно растущий id физического спина
}

type SessionResponse struct {
	ID             string `json:"id"`
	State          string `json:"state"`
	Currency       string `json:"currency"`
	Bet            int64  `json:"bet"`
	SelectedDigit  int    `json:"selected_digit"`
	BonusSector    *int   `json:"bonus_sector"`
	Results        []int  `json:"results"`
	MaxSpins       int    `json:"max_spins"`
	Rocket         bool   `json:"rocket"`
	BoosterCleared bool   `json:"booster_cleared"`
	LastSpinID     int64  `json:"last_spin_id"`
	NextSpinAt     *int64 `json:"next_spin_at"` // unix ms, подсказка для отсчета
}

type SettlementResponse struct {
	HitIndex    int                 `json:"hit_index"` // -1 если цифры нет
	Multiplier  string              `json:"multiplier"`
	Payout      int64               `json:"payout"`
	SectorBonus *common.SectorBonus `json:"sector_bonus"`
	Balance     common.Balance      `json:"balance"`
	Level       int                 `json:"level"`
}

type StepResponse struct {
	Session    SessionResponse     `json:"session"`
	Settlement *SettlementResponse `json:"settlement"`
	Duplicate  bool                `json:"duplicate"`
}
