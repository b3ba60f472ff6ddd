package env

import (
	"errors"
	"fmt"
	"os"
	"time"

	"speen_backend/internal/config"
	"speen_backend/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const gameConfigEnvName = "GAME_CONFIG"

type betLimits struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

type sectorBonusYAML struct {
	Money  int64  `yaml:"money"`
	Item   string `yaml:"item"`
	Weight int    `yaml:"weight"`
}

type boosterPriceYAML struct {
	Currency string `yaml:"currency"`
	Amount   int64  `yaml:"amount"`
}

type gameYAML struct {
	Bets             map[string]betLimits `yaml:"bets"`
	Multipliers      map[string]int64     `yaml:"multipliers"`
	RocketMultiplier int64                `yaml:"rocket_multiplier"`
	RocketSector     int64                `yaml:"rocket_sector_multiplier"`
	Pyramid          struct {
		PositionMultipliers []string      `yaml:"position_multipliers"`
		SpinInterval        time.Duration `yaml:"spin_interval"`
		AutoAdvance         bool          `yaml:"auto_advance"`
	} `yaml:"pyramid"`
	BonusSectorUnlockLevel *int                        `yaml:"bonus_sector_unlock_level"`
	SectorBonuses          []sectorBonusYAML           `yaml:"sector_bonuses"`
	BoosterPrices          map[string]boosterPriceYAML `yaml:"booster_prices"`
	DailyReward            int64                       `yaml:"daily_reward"`
	WelcomeBalance         *struct {
		W uint64 `yaml:"w"`
		B uint64 `yaml:"b"`
	} `yaml:"welcome_balance"`
	BToWRate int64 `yaml:"b_to_w_rate"`
	Sync     struct {
		PushDebounce time.Duration `yaml:"push_debounce"`
	} `yaml:"sync"`
}

type gameConfig struct {
	bets                   map[model.SpinMode]betLimits
	multipliers            map[model.SpinMode]int64
	rocketMultiplier       int64
	rocketSectorMultiplier int64
	sectorBonuses          []config.SectorBonusWeight
	pyramidMultipliers     []decimal.Decimal
	pyramidSpinInterval    time.Duration
	pyramidAutoAdvance     bool
	bonusSectorUnlockLevel int
	boosterPrices          map[model.BoosterKind]config.BoosterPrice
	dailyReward            int64
	welcomeBalance         model.Balance
	bToWRate               int64
	pushDebounce           time.Duration
}

// NewGameConfigFromYAML Читает настройки игры из yaml файла.
// Путь можно переопределить переменной GAME_CONFIG
func NewGameConfigFromYAML(path string) (config.GameConfig, error) {
	if p := os.Getenv(gameConfigEnvName); len(p) != 0 {
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game config: %w", err)
	}

	return ParseGameConfig(data)
}

// ParseGameConfig Разбирает yaml с настройками игры
func ParseGameConfig(data []byte) (config.GameConfig, error) {
	var raw gameYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse game config: %w", err)
	}

	cfg := DefaultGameConfig()

	for name, l := range raw.Bets {
		mode := model.SpinMode(name)
		if !mode.Valid() {
			return nil, fmt.Errorf("bets: unknown mode %q", name)
		}
		if l.Min <= 0 || l.Max < l.Min {
			return nil, fmt.Errorf("bets: invalid limits for %q", name)
		}
		cfg.bets[mode] = l
	}

	for name, m := range raw.Multipliers {
		mode := model.SpinMode(name)
		if mode != model.ModeDuel && mode != model.ModeAllIn {
			return nil, fmt.Errorf("multipliers: unsupported mode %q", name)
		}
		if m <= 0 {
			return nil, fmt.Errorf("multipliers: %q must be positive", name)
		}
		cfg.multipliers[mode] = m
	}

	if raw.RocketMultiplier > 0 {
		cfg.rocketMultiplier = raw.RocketMultiplier
	}
	if raw.RocketSector < 0 {
		return nil, errors.New("rocket_sector_multiplier: must be positive")
	}
	if raw.RocketSector > 0 {
		cfg.rocketSectorMultiplier = raw.RocketSector
	}

	if len(raw.Pyramid.PositionMultipliers) > 0 {
		if len(raw.Pyramid.PositionMultipliers) != model.PyramidExtendedSpins {
			return nil, fmt.Errorf("pyramid: need %d position multipliers", model.PyramidExtendedSpins)
		}
		mults := make([]decimal.Decimal, 0, len(raw.Pyramid.PositionMultipliers))
		for _, s := range raw.Pyramid.PositionMultipliers {
			d, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("pyramid: multiplier %q: %w", s, err)
			}
			if d.IsNegative() {
				return nil, fmt.Errorf("pyramid: multiplier %q is negative", s)
			}
			mults = append(mults, d)
		}
		cfg.pyramidMultipliers = mults
	}
	if raw.Pyramid.SpinInterval > 0 {
		cfg.pyramidSpinInterval = raw.Pyramid.SpinInterval
	}
	cfg.pyramidAutoAdvance = raw.Pyramid.AutoAdvance

	if lvl := raw.BonusSectorUnlockLevel; lvl != nil {
		if *lvl < 0 || *lvl > model.MaxLevel {
			return nil, fmt.Errorf("bonus_sector_unlock_level: %d out of range", *lvl)
		}
		cfg.bonusSectorUnlockLevel = *lvl
	}

	if len(raw.SectorBonuses) > 0 {
		bonuses, err := parseSectorBonuses(raw.SectorBonuses)
		if err != nil {
			return nil, err
		}
		cfg.sectorBonuses = bonuses
	}

	for name, p := range raw.BoosterPrices {
		kind := model.BoosterKind(name)
		if !kind.Valid() {
			return nil, fmt.Errorf("booster_prices: unknown booster %q", name)
		}
		cur := model.Currency(p.Currency)
		if !cur.Valid() || p.Amount <= 0 {
			return nil, fmt.Errorf("booster_prices: invalid price for %q", name)
		}
		cfg.boosterPrices[kind] = config.BoosterPrice{Currency: cur, Amount: p.Amount}
	}

	if raw.DailyReward > 0 {
		cfg.dailyReward = raw.DailyReward
	}
	if wb := raw.WelcomeBalance; wb != nil {
		cfg.welcomeBalance = model.Balance{W: wb.W, B: wb.B}
	}
	if raw.BToWRate > 0 {
		cfg.bToWRate = raw.BToWRate
	}
	if raw.Sync.PushDebounce > 0 {
		cfg.pushDebounce = raw.Sync.PushDebounce
	}

	return cfg, nil
}

func parseSectorBonuses(raw []sectorBonusYAML) ([]config.SectorBonusWeight, error) {
	out := make([]config.SectorBonusWeight, 0, len(raw))
	for i, b := range raw {
		if b.Weight <= 0 {
			return nil, fmt.Errorf("sector_bonuses[%d]: weight must be positive", i)
		}
		switch {
		case b.Money > 0 && b.Item == "":
			out = append(out, config.SectorBonusWeight{Bonus: model.Money(b.Money), Weight: b.Weight})
		case b.Money == 0 && model.BoosterKind(b.Item).Valid():
			out = append(out, config.SectorBonusWeight{Bonus: model.Item(model.BoosterKind(b.Item)), Weight: b.Weight})
		default:
			return nil, errors.New("sector_bonuses: entry must be either money or a known item")
		}
	}
	return out, nil
}

// DefaultGameConfig Настройки по умолчанию
func DefaultGameConfig() *gameConfig {
	return &gameConfig{
		bets: map[model.SpinMode]betLimits{
			model.ModeDuel:    {Min: 100, Max: 100_000},
			model.ModeAllIn:   {Min: 1_000, Max: 100_000},
			model.ModePyramid: {Min: 10_000, Max: 100_000},
		},
		multipliers: map[model.SpinMode]int64{
			model.ModeDuel:  2,
			model.ModeAllIn: 5,
		},
		rocketMultiplier:       4,
		rocketSectorMultiplier: 2,
		sectorBonuses: []config.SectorBonusWeight{
			{Bonus: model.Money(500), Weight: 40},
			{Bonus: model.Money(1_000), Weight: 25},
			{Bonus: model.Money(5_000), Weight: 5},
			{Bonus: model.Item(model.BoosterHeart), Weight: 12},
			{Bonus: model.Item(model.BoosterBattery), Weight: 10},
			{Bonus: model.Item(model.BoosterRocket), Weight: 8},
		},
		pyramidMultipliers: []decimal.Decimal{
			decimal.RequireFromString("2.0"),
			decimal.RequireFromString("1.5"),
			decimal.RequireFromString("1.25"),
			decimal.RequireFromString("2.0"),
		},
		pyramidSpinInterval:    2500 * time.Millisecond,
		pyramidAutoAdvance:     false,
		bonusSectorUnlockLevel: 3,
		boosterPrices: map[model.BoosterKind]config.BoosterPrice{
			model.BoosterHeart:   {Currency: model.CurrencyB, Amount: 5},
			model.BoosterBattery: {Currency: model.CurrencyB, Amount: 5},
			model.BoosterRocket:  {Currency: model.CurrencyB, Amount: 10},
		},
		dailyReward:    1_000,
		welcomeBalance: model.Balance{W: 10_000, B: 10},
		bToWRate:       1_000,
		pushDebounce:   1200 * time.Millisecond,
	}
}

func (c *gameConfig) BetLimits(mode model.SpinMode) (int64, int64) {
	l := c.bets[mode]
	return l.Min, l.Max
}

func (c *gameConfig) Multiplier(mode model.SpinMode) int64 {
	return c.multipliers[mode]
}

func (c *gameConfig) RocketMultiplier() int64 {
	return c.rocketMultiplier
}

// RocketSectorMultiplier Во сколько раз Rocket увеличивает денежный бонус сектора
func (c *gameConfig) RocketSectorMultiplier() int64 {
	return c.rocketSectorMultiplier
}

func (c *gameConfig) SectorBonuses() []config.SectorBonusWeight {
	return c.sectorBonuses
}

func (c *gameConfig) PyramidMultipliers() []decimal.Decimal {
	return c.pyramidMultipliers
}

func (c *gameConfig) PyramidSpinInterval() time.Duration {
	return c.pyramidSpinInterval
}

func (c *gameConfig) PyramidAutoAdvance() bool {
	return c.pyramidAutoAdvance
}

func (c *gameConfig) BonusSectorUnlockLevel() int {
	return c.bonusSectorUnlockLevel
}

func (c *gameConfig) BoosterPrice(kind model.BoosterKind) (config.BoosterPrice, bool) {
	p, ok := c.boosterPrices[kind]
	return p, ok
}

func (c *gameConfig) DailyReward() int64 {
	return c.dailyReward
}

func (c *gameConfig) WelcomeBalance() model.Balance {
	return c.welcomeBalance
}

func (c *gameConfig) BToWRate() int64 {
	return c.bToWRate
}

func (c *gameConfig) PushDebounce() time.Duration {
	return c.pushDebounce
}
