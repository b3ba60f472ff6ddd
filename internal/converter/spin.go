package converter

import (
	"speen_backend/internal/api/dto/spin"
	"speen_backend/internal/model"
)

// ToSpinRequest Без выбранной цифры запрос отклоняется, ставки на 0 по умолчанию нет
func ToSpinRequest(req spin.SpinRequest) (model.SpinRequest, error) {
	if req.PickedDigit == nil {
		return model.SpinRequest{}, model.ErrInvalidDigit
	}
	return model.SpinRequest{
		Mode:        model.SpinMode(req.Mode),
		Currency:    model.Currency(req.Currency),
		Bet:         req.Bet,
		PickedDigit: *req.PickedDigit,
		BonusSector: req.BonusSector,
		Booster:     toBoosterKind(req.Booster),
	}, nil
}

func ToSpinResponse(out model.SpinOutcome) spin.SpinResponse {
	return spin.SpinResponse{
		SpinID:          out.SpinID,
		Mode:            string(out.Mode),
		Currency:        string(out.Currency),
		Bet:             out.Bet,
		ResultDigit:     out.ResultDigit,
		Won:             out.Won,
		Payout:          out.Payout,
		SectorBonus:     toSectorBonus(out.SectorBonus),
		BoosterUsed:     fromBoosterKind(out.BoosterUsed),
		BoosterCleared:  out.BoosterCleared,
		FreeSpinGranted: out.FreeSpinGranted,
		Free:            out.Free,
		Balance:         ToBalanceResponse(out.Balance),
		Level:           out.Level,
	}
}
