package converter

import (
	"speen_backend/internal/api/dto/pyramid"
	"speen_backend/internal/model"
)

func ToArmRequest(req pyramid.ArmRequest) (model.SpinRequest, error) {
	if req.PickedDigit == nil {
		return model.SpinRequest{}, model.ErrInvalidDigit
	}
	return model.SpinRequest{
		Mode:        model.ModePyramid,
		Currency:    model.Currency(req.Currency),
		Bet:         req.Bet,
		PickedDigit: *req.PickedDigit,
		BonusSector: req.BonusSector,
		Booster:     toBoosterKind(req.Booster),
	}, nil
}

// ToSessionResponse Запланированные цифры наружу не отдаются
func ToSessionResponse(s *model.PyramidSession) pyramid.SessionResponse {
	if s == nil {
		return pyramid.SessionResponse{State: string(model.PyramidIdle), Results: []int{}}
	}

	res := pyramid.SessionResponse{
		ID:             s.ID,
		State:          string(s.State),
		Currency:       string(s.Currency),
		Bet:            s.Bet,
		SelectedDigit:  s.SelectedDigit,
		BonusSector:    s.BonusSector,
		Results:        append([]int{}, s.Results...),
		MaxSpins:       s.MaxSpins,
		Rocket:         s.Rocket,
		BoosterCleared: s.BoosterCleared,
		LastSpinID:     s.LastSpinID,
	}
	if !s.NextSpinAt.IsZero() && s.State != model.PyramidSettled {
		ms := s.NextSpinAt.UnixMilli()
		res.NextSpinAt = &ms
	}
	return res
}

func ToStepResponse(step model.PyramidStep) pyramid.StepResponse {
	res := pyramid.StepResponse{
		Session:   ToSessionResponse(step.Session),
		Duplicate: step.Duplicate,
	}
	if st := step.Settlement; st != nil {
		res.Settlement = &pyramid.SettlementResponse{
			HitIndex:    st.HitIndex,
			Multiplier:  st.Multiplier,
			Payout:      st.Payout,
			SectorBonus: toSectorBonus(st.SectorBonus),
			Balance:     ToBalanceResponse(st.Balance),
			Level:       st.Level,
		}
	}
	return res
}
