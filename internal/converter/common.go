package converter

import (
	"speen_backend/internal/api/dto/common"
	"speen_backend/internal/model"
)

func ToBalanceResponse(b model.Balance) common.Balance {
	return common.Balance{W: b.W, B: b.B}
}

func toSectorBonus(b *model.SectorBonus) *common.SectorBonus {
	if b == nil {
		return nil
	}
	return &common.SectorBonus{
		Kind:   string(b.Kind),
		Amount: b.Amount,
		Item:   string(b.Item),
	}
}

func toBoosterKind(s *string) *model.BoosterKind {
	if s == nil {
		return nil
	}
	k := model.BoosterKind(*s)
	return &k
}

func fromBoosterKind(k *model.BoosterKind) *string {
	if k == nil {
		return nil
	}
	s := string(*k)
	return &s
}
