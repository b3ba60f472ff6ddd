package config

import (
	"time"

	"speen_backend/internal/model"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// SectorBonusWeight Запись таблицы бонусов сектора с весом
type SectorBonusWeight struct {
	Bonus  model.SectorBonus
	Weight int
}

// BoosterPrice Цена бустера
type BoosterPrice struct {
	Currency model.Currency
	Amount   int64
}

type GameConfig interface {
	BetLimits(mode model.SpinMode) (minBet, maxBet int64)
	Multiplier(mode model.SpinMode) int64
	RocketMultiplier() int64
	RocketSectorMultiplier() int64
	SectorBonuses() []SectorBonusWeight
	PyramidMultipliers() []decimal.Decimal
	PyramidSpinInterval() time.Duration
	PyramidAutoAdvance() bool
	BonusSectorUnlockLevel() int
	BoosterPrice(kind model.BoosterKind) (BoosterPrice, bool)
	DailyReward() int64
	WelcomeBalance() model.Balance
	BToWRate() int64
	PushDebounce() time.Duration
}

type HTTPConfig interface {
	Address() string
	InternalKey() string
}

type PGConfig interface {
	DSN() string
	MaxConns() int32
}

type RedisConfig interface {
	Addr() string
	Password() string
	DB() int
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	// DevIssue разрешает POST /auth/token без внешнего провайдера
	DevIssue() bool
}

type LoggerConfig interface {
	Level() string
	Dir() string
	File() bool
}
