package spin

import (
	"speen_backend/internal/config"
	"speen_backend/internal/model"
	"speen_backend/pkg/rng"
)

// Params Параметры одного физического спина после валидации
type Params struct {
	Bet              int64
	PickedDigit      int
	BonusSector      *int
	Multiplier       int64
	RocketMultiplier int64
	// RocketSector множитель денежного бонуса сектора при Rocket
	RocketSector int64
	// Booster активный бустер, который точно есть в инвентаре
	Booster *model.BoosterKind
}

// Result Исход спина до применения к балансу
type Result struct {
	ResultDigit  int
	Won          bool
	Payout       int64 // выигрыш по цифре или возврат ставки от Heart
	Refund       bool
	SectorBonus  *model.SectorBonus
	BoosterFired bool
	FreeSpin     bool
}

// Resolve Розыгрыш одного спина Duel/AllIn
func Resolve(src rng.Source, bonuses []config.SectorBonusWeight, p Params) Result {
	res := Result{ResultDigit: src.Intn(model.DigitCount) + model.MinDigit}
	res.Won = res.ResultDigit == p.PickedDigit

	booster := model.BoosterKind("")
	if p.Booster != nil {
		booster = *p.Booster
	}

	switch {
	case res.Won:
		// ставка возвращается плюс bet*multiplier
		res.Payout = p.Bet * (p.Multiplier + 1)
		if booster == model.BoosterRocket {
			res.Payout *= p.RocketMultiplier
			res.BoosterFired = true
		}
	case booster == model.BoosterHeart:
		res.Payout = p.Bet
		res.Refund = true
		res.BoosterFired = true
	case booster == model.BoosterBattery:
		res.FreeSpin = true
		res.BoosterFired = true
	}

	if p.BonusSector != nil && *p.BonusSector == res.ResultDigit {
		bonus, ok := PickSectorBonus(src, bonuses)
		if ok {
			if bonus.IsMoney() && booster == model.BoosterRocket {
				bonus.Amount *= p.RocketSector
				res.BoosterFired = true
			}
			res.SectorBonus = &bonus
		}
	}

	return res
}

// PickSectorBonus Взвешенный выбор бонуса сектора по накопленной сумме весов
func PickSectorBonus(src rng.Source, bonuses []config.SectorBonusWeight) (model.SectorBonus, bool) {
	total := 0
	for _, b := range bonuses {
		total += b.Weight
	}
	if total <= 0 {
		return model.SectorBonus{}, false
	}

	num := src.Intn(total)
	cumulative := 0
	for _, b := range bonuses {
		cumulative += b.Weight
		if num < cumulative {
			return b.Bonus, true
		}
	}
	return bonuses[len(bonuses)-1].Bonus, true
}

// Validate Проверка запроса Duel/AllIn без побочных эффектов
func Validate(cfg config.GameConfig, req model.SpinRequest) error {
	if req.Mode != model.ModeDuel && req.Mode != model.ModeAllIn {
		return model.ErrInvalidMode
	}
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
	return ValidateBet(cfg, req.Mode, req.Bet)
}

// ValidateBet Границы ставки по режиму
func ValidateBet(cfg config.GameConfig, mode model.SpinMode, bet int64) error {
	minBet, maxBet := cfg.BetLimits(mode)
	if bet < minBet || bet > maxBet {
		return model.ErrBetOutOfRange
	}
	return nil
}
