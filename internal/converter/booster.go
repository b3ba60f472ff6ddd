package converter

import (
	"speen_backend/internal/api/dto/booster"
	"speen_backend/internal/model"
)

func ToInventoryResponse(inv model.Inventory, selected *model.BoosterKind) booster.InventoryResponse {
	return booster.InventoryResponse{
		Items:    toItems(inv),
		Selected: fromBoosterKind(selected),
	}
}

func ToBuyResponse(inv model.Inventory, bal model.Balance) booster.BuyResponse {
	return booster.BuyResponse{
		Items:   toItems(inv),
		Balance: ToBalanceResponse(bal),
	}
}

func ToSelectKind(req booster.SelectRequest) *model.BoosterKind {
	return toBoosterKind(req.Kind)
}

// toItems Все виды бустеров, включая нулевые
func toItems(inv model.Inventory) map[string]int {
	items := make(map[string]int, len(model.BoosterKinds))
	for _, k := range model.BoosterKinds {
		items[string(k)] = inv.Count(k)
	}
	return items
}
