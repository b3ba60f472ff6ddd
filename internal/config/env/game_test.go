package env

import (
	"testing"
	"time"

	"speen_backend/internal/model"

	"github.com/stretchr/testify/require"
)

func TestNewGameConfigFromYAML(t *testing.T) {
	t.Setenv(gameConfigEnvName, "")

	cfg, err := NewGameConfigFromYAML("../../../config.yaml")
	require.NoError(t, err)

	minBet, maxBet := cfg.BetLimits(model.ModePyramid)
	require.Equal(t, int64(10_000), minBet)
	require.Equal(t, int64(100_000), maxBet)
	require.Equal(t, int64(2), cfg.Multiplier(model.ModeDuel))
	require.Equal(t, int64(5), cfg.Multiplier(model.ModeAllIn))
	require.Equal(t, int64(4), cfg.RocketMultiplier())
	require.Equal(t, int64(2), cfg.RocketSectorMultiplier())
	require.Len(t, cfg.PyramidMultipliers(), model.PyramidExtendedSpins)
	require.Equal(t, "1.5", cfg.PyramidMultipliers()[1].String())
	require.Equal(t, 2500*time.Millisecond, cfg.PyramidSpinInterval())
	require.Equal(t, 3, cfg.BonusSectorUnlockLevel())
	require.Len(t, cfg.SectorBonuses(), 6)
	require.Equal(t, model.Balance{W: 10_000, B: 10}, cfg.WelcomeBalance())
	require.Equal(t, 1200*time.Millisecond, cfg.PushDebounce())

	price, ok := cfg.BoosterPrice(model.BoosterRocket)
	require.True(t, ok)
	require.Equal(t, model.CurrencyB, price.Currency)
	require.Equal(t, int64(10), price.Amount)
}

func TestParseGameConfigOverridesDefaults(t *testing.T) {
	cfg, err := ParseGameConfig([]byte(`
bets:
  duel: { min: 1, max: 10 }
pyramid:
  auto_advance: true
  spin_interval: 1s
bonus_sector_unlock_level: 0
rocket_sector_multiplier: 3
sector_bonuses:
  - { item: rocket, weight: 1 }
`))
	require.NoError(t, err)
	require.Equal(t, int64(3), cfg.RocketSectorMultiplier())

	minBet, maxBet := cfg.BetLimits(model.ModeDuel)
	require.Equal(t, int64(1), minBet)
	require.Equal(t, int64(10), maxBet)
	// Не указанные режимы остаются по умолчанию
	minBet, _ = cfg.BetLimits(model.ModeAllIn)
	require.Equal(t, int64(1_000), minBet)

	require.True(t, cfg.PyramidAutoAdvance())
	require.Equal(t, time.Second, cfg.PyramidSpinInterval())
	require.Equal(t, 0, cfg.BonusSectorUnlockLevel())
	require.Len(t, cfg.SectorBonuses(), 1)
	require.Equal(t, model.Item(model.BoosterRocket), cfg.SectorBonuses()[0].Bonus)
}

func TestParseGameConfigErrors(t *testing.T) {
	cases := map[string]string{
		"unknown mode":        "bets: { roulette: { min: 1, max: 2 } }",
		"inverted limits":     "bets: { duel: { min: 10, max: 2 } }",
		"pyramid multiplier":  "multipliers: { pyramid: 3 }",
		"positions count":     `pyramid: { position_multipliers: ["2.0", "1.5"] }`,
		"bad decimal":         `pyramid: { position_multipliers: ["2.0", "x", "1", "1"] }`,
		"unlock out of range": "bonus_sector_unlock_level: 51",
		"zero weight":         "sector_bonuses: [ { money: 5, weight: 0 } ]",
		"money and item":      "sector_bonuses: [ { money: 5, item: heart, weight: 1 } ]",
		"unknown booster":     "booster_prices: { shield: { currency: B, amount: 1 } }",
		"bad price currency":  "booster_prices: { heart: { currency: X, amount: 1 } }",
		"rocket sector":       "rocket_sector_multiplier: -1",
		"not yaml":            "bets: [",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGameConfig([]byte(data))
			require.Error(t, err)
		})
	}
}
