package model

// SpinMode Режим спина
type SpinMode string

const (
	ModeDuel    SpinMode = "duel"    // x2
	ModeAllIn   SpinMode = "allin"   // x5
	ModePyramid SpinMode = "pyramid" // 3 из 10
)

// Valid Проверка что режим известен
func (m SpinMode) Valid() bool {
	switch m {
	case ModeDuel, ModeAllIn, ModePyramid:
		return true
	}
	return false
}

// MinDigit и MaxDigit Границы цифр колеса
const (
	MinDigit   = 0
	MaxDigit   = 9
	DigitCount = MaxDigit - MinDigit + 1
)

// ValidDigit Проверка цифры колеса
func ValidDigit(d int) bool {
	return d >= MinDigit && d <= MaxDigit
}

// SpinRequest Запрос на спин
type SpinRequest struct {
	Mode        SpinMode
	Currency    Currency
	Bet         int64
	PickedDigit int
	BonusSector *int         // nil если сектор не выбран
	Booster     *BoosterKind // nil если бустер не выбран явно в запросе
}

// SpinOutcome Результат одного физического спина
type SpinOutcome struct {
	SpinID          int64
	Mode            SpinMode
	Currency        Currency
	Bet             int64
	ResultDigit     int
	Won             bool
	Payout          int64
	SectorBonus     *SectorBonus
	BoosterUsed     *BoosterKind
	BoosterCleared  bool // выбранного бустера не оказалось в инвентаре
	FreeSpinGranted bool // Battery выдал бесплатный спин
	Free            bool // этот спин был бесплатным
	Balance         Balance
	Level           int
}

// FreeSpin Бесплатный спин от Battery. Повторяет параметры спина, который его выдал
type FreeSpin struct {
	Mode        SpinMode
	Currency    Currency
	Bet         int64
	PickedDigit int
	BonusSector *int
}

// SectorBonusKind Тег варианта бонуса сектора
type SectorBonusKind string

const (
	SectorBonusMoney SectorBonusKind = "money"
	SectorBonusItem  SectorBonusKind = "item"
)

// SectorBonus Вторичная награда сектора: Money(amount) | Item(kind)
type SectorBonus struct {
	Kind   SectorBonusKind
	Amount int64
	Item   BoosterKind
}

// Money Денежный бонус сектора
func Money(amount int64) SectorBonus {
	return SectorBonus{Kind: SectorBonusMoney, Amount: amount}
}

// Item Бонус сектора бустером
func Item(kind BoosterKind) SectorBonus {
	return SectorBonus{Kind: SectorBonusItem, Item: kind}
}

// IsMoney Денежный ли бонус
func (b SectorBonus) IsMoney() bool {
	return b.Kind == SectorBonusMoney
}
