package model

// Currency Игровая валюта
type Currency string

const (
	CurrencyW Currency = "W"
	CurrencyB Currency = "B"
)

// Valid Проверка что валюта известна
func (c Currency) Valid() bool {
	return c == CurrencyW || c == CurrencyB
}

// Причины изменений баланса для аудита
const (
	ReasonSpinBet       = "spin_bet"
	ReasonSpinWin       = "spin_win"
	ReasonHeartRefund   = "heart_refund"
	ReasonSectorBonus   = "sector_bonus"
	ReasonPyramidStake  = "pyramid_stake"
	ReasonPyramidWin    = "pyramid_win"
	ReasonPyramidRefund = "pyramid_refund"
	ReasonBoosterBuy    = "booster_buy"
	ReasonLevelReward   = "level_reward"
	ReasonDailyReward   = "daily_reward"
	ReasonWelcome       = "welcome_bonus"
)

// Balance Баланс игрока в двух валютах
type Balance struct {
	W uint64
	B uint64
}

// Delta Изменение баланса, всегда с причиной
type Delta struct {
	W      int64
	B      int64
	Reason string
}

// NewDelta Изменение одной валюты
func NewDelta(c Currency, amount int64, reason string) Delta {
	if c == CurrencyB {
		return Delta{B: amount, Reason: reason}
	}
	return Delta{W: amount, Reason: reason}
}

// IsZero Пустое изменение
func (d Delta) IsZero() bool {
	return d.W == 0 && d.B == 0
}

// ApplyTo Применяет изменение к балансу.
// Возвращает ErrInsufficientFunds если какая-то из валют уходит в минус
func (d Delta) ApplyTo(b Balance) (Balance, error) {
	w := int64(b.W) + d.W
	bb := int64(b.B) + d.B
	if w < 0 || bb < 0 {
		return b, ErrInsufficientFunds
	}
	return Balance{W: uint64(w), B: uint64(bb)}, nil
}

// LedgerEntry Запись аудита изменения баланса
type LedgerEntry struct {
	ID       string
	PlayerID string
	Delta    Delta
	After    Balance
}
