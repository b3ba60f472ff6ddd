package model

// BoosterKind Вид одноразового бустера
type BoosterKind string

const (
	BoosterHeart   BoosterKind = "heart"
	BoosterBattery BoosterKind = "battery"
	BoosterRocket  BoosterKind = "rocket"
)

// BoosterKinds Все виды бустеров в фиксированном порядке
var BoosterKinds = []BoosterKind{BoosterHeart, BoosterBattery, BoosterRocket}

// Valid Проверка что бустер известен
func (k BoosterKind) Valid() bool {
	switch k {
	case BoosterHeart, BoosterBattery, BoosterRocket:
		return true
	}
	return false
}

// Inventory Мультимножество бустеров игрока
type Inventory map[BoosterKind]int

// Count Количество бустеров вида kind
func (inv Inventory) Count(kind BoosterKind) int {
	if inv == nil {
		return 0
	}
	return inv[kind]
}

// Has Есть ли хотя бы один бустер вида kind
func (inv Inventory) Has(kind BoosterKind) bool {
	return inv.Count(kind) > 0
}

// Clone Копия инвентаря
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}
