package common

type Balance struct {
	W uint64 `json:"w"` // Основная валюта
	B uint64 `json:"b"` // Премиальная валюта
}

type SectorBonus struct {
	Kind   string `json:"kind"`             // money | item
	Amount int64  `json:"amount,omitempty"` // Сумма для money
	Item   string `json:"item,omitempty"`   // Бустер для item
}
