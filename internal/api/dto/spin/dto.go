package spin

import "speen_backend/internal/api/dto/common"

type SpinRequest struct {
	Mode        string  `json:"mode"`         // duel | allin | pyramid
	Currency    string  `json:"currency"`     // W | B
	Bet         int64   `json:"bet"`          // Размер ставки
	PickedDigit *int    `json:"picked_digit"` // 0-9, обязателен
	BonusSector *int    `json:"bonus_sector"` // 0-9 или null
	Booster     *string `json:"booster"`      // heart | battery | rocket или null (берется выбранный)
}

type SpinResponse struct {
	SpinID          int64               `json:"spin_id"`
	Mode            string              `json:"mode"`
	Currency        string              `json:"currency"`
	Bet             int64               `json:"bet"`
	ResultDigit     int                 `json:"result_digit"`
	Won             bool                `json:"won"`
	Payout          int64               `json:"payout"`
	SectorBonus     *common.SectorBonus `json:"sector_bonus"`
	BoosterUsed     *string             `json:"booster_used"`
	BoosterCleared  bool                `json:"booster_cleared"`   // Выбранного бустера нет в инвентаре
	FreeSpinGranted bool                `json:"free_spin_granted"` // Следующий спин бесплатный
	Free            bool                `json:"free"`              // Этот спин был бесплатным
	Balance         common.Balance      `json:"balance"`
	Level           int                 `json:"level"`
}
