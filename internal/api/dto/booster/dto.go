package booster

import "speen_backend/internal/api/dto/common"

type KindRequest struct {
	Kind string `json:"kind"` // heart | battery | rocket
}

type SelectRequest struct {
	Kind *string `json:"kind"` // null снимает выбор
}

type InventoryResponse struct {
	Items    map[string]int `json:"items"`
	Selected *string        `json:"selected"`
}

type BuyResponse struct {
	Items   map[string]int `json:"items"`
	Balance common.Balance `json:"balance"`
}
