package progress

import "speen_backend/internal/model"

// Requirement Условие уровня и награда за него в W
type Requirement struct {
	Level      int
	RewardW    int64
	MinInvites int64
	Check      func(p model.Progress) bool
}

// Requirements Таблица уровней 0..50. Каждый порог задан вручную
var Requirements = [model.MaxLevel + 1]Requirement{
	{Level: 0, Check: func(model.Progress) bool { return true }},
	{Level: 1, RewardW: 500, Check: func(p model.Progress) bool { return p.OnboardingDone && p.Stats.SpinsTotal >= 1 }},
	{Level: 2, RewardW: 700, Check: func(p model.Progress) bool { return p.Stats.SpinsTotal >= 5 }},
	{Level: 3, RewardW: 1_000, Check: func(p model.Progress) bool { return p.Stats.SpinsX2 >= 5 }},
	{Level: 4, RewardW: 1_200, Check: func(p model.Progress) bool { return p.Stats.Wins >= 3 }},
	{Level: 5, RewardW: 1_500, Check: func(p model.Progress) bool { return p.Stats.SpinsTotal >= 15 && p.Stats.UsedTotal() >= 1 }},
	{Level: 6, RewardW: 1_800, Check: func(p model.Progress) bool { return p.Stats.SpinsX5 >= 3 }},
	{Level: 7, RewardW: 2_000, Check: func(p model.Progress) bool { return p.Stats.DailyClaims >= 2 }},
	{Level: 8, RewardW: 2_200, Check: func(p model.Progress) bool { return p.Stats.SectorHits >= 1 }},
	{Level: 9, RewardW: 2_500, Check: func(p model.Progress) bool { return p.Stats.Spins3of10 >= 1 }},
	{Level: 10, RewardW: 3_000, MinInvites: 1, Check: func(p model.Progress) bool { return p.Stats.SpinsTotal >= 40 }},
	{Level: 11, RewardW: 3_200, Check: func(p model.Progress) bool { return p.Stats.Bought(model.BoosterHeart) >= 1 }},
	{Level: 12, RewardW: 3_500, Check: func(p model.Progress) bool { return p.Stats.Wins >= 15 }},
	{Level: 13, RewardW: 3_800, Check: func(p model.Progress) bool { return p.Stats.SpinsX2 >= 30 }},
	{Level: 14, RewardW: 4_000, Check: func(p model.Progress) bool { return p.Stats.Used(model.BoosterRocket) >= 1 }},
	{Level: 15, RewardW: 4_500, MinInvites: 1, Check: func(p model.Progress) bool { return p.Stats.Spins3of10 >= 3 }},
	{Level: 16, RewardW: 4_800, Check: func(p model.Progress) bool { return p.Stats.DailyClaims >= 5 }},
	{Level: 17, RewardW: 5_000, Check: func(p model.Progress) bool { return p.Stats.SpinsX5 >= 15 }},
	{Level: 18, RewardW: 5_500, Check: func(p model.Progress) bool { return p.Stats.SectorHits >= 5 }},
	{Level: 19, RewardW: 6_000, Check: func(p model.Progress) bool { return p.Stats.Used(model.BoosterBattery) >= 2 }},
	{Level: 20, RewardW: 7_000, MinInvites: 2, Check: func(p model.Progress) bool { return p.Stats.SpinsTotal >= 120 }},
	{Level: 21, RewardW: 7_200, Check: func(p model.Progress) bool { return p.Stats.Wins >= 40 }},
	{Level: 22, RewardW: 7_500, Check: func(p model.Progress) bool { return p.Stats.BoughtTotal() >= 5 }},
	{Level: 23, RewardW: 7_800, Check: func(p model.Progress) bool { return p.Stats.Spins3of10 >= 8 }},
	{Level: 24, RewardW: 8_000, Check: func(p model.Progress) bool { return p.Stats.SpinsX2 >= 80 }},
	{Level: 25, RewardW: 9_000, MinInvites: 3, Check: func(p model.Progress) bool { return p.Stats.DailyClaims >= 10 }},
	{Level: 26, RewardW: 9_200, Check: func(p model.Progress) bool { return p.Stats.Used(model.BoosterHeart) >= 5 }},
	{Level: 27, RewardW: 9_500, Check: func(p model.Progress) bool { return p.Stats.SpinsX5 >= 40 }},
	{Level: 28, RewardW: 9_800, Check: func(p model.Progress) bool { return p.Stats.SectorHits >= 12 }},
	{Level: 29, RewardW: 10_000, Check: func(p model.Progress) bool { return p.Stats.Wins >= 80 }},
	{Level: 30, RewardW: 12_000, MinInvites: 4, Check: func(p model.Progress) bool { return p.Stats.SpinsTotal >= 300 }},
	{Level: 31, RewardW: 12_500, Check: func(p model.Progress) bool { return p.Stats.Spins3of10 >= 15 }},
	{Level: 32, RewardW: 13_000, Check: func(p model.Progress) bool { return p.Stats.UsedTotal() >= 20 }},
	{Level: 33, RewardW: 13_500, Check: func(p model.Progress) bool { return p.Stats.SpinsX2 >= 200 }},
	{Level: 34, RewardW: 14_000, Check: func(p model.Progress) bool { return p.Stats.DailyClaims >= 15 }},
	{Level: 35, RewardW: 15_000, MinInvites: 5, Check: func(p model.Progress) bool { return p.Stats.SectorHits >= 25 }},
	{Level: 36, RewardW: 15_500, Check: func(p model.Progress) bool { return p.Stats.Bought(model.BoosterRocket) >= 5 }},
	{Level: 37, RewardW: 16_000, Check: func(p model.Progress) bool { return p.Stats.SpinsX5 >= 100 }},
	{Level: 38, RewardW: 16_500, Check: func(p model.Progress) bool { return p.Stats.Wins >= 150 }},
	{Level: 39, RewardW: 17_000, Check: func(p model.Progress) bool { return p.Stats.Spins3of10 >= 25 }},
	{Level: 40, RewardW: 20_000, MinInvites: 6, Check: func(p model.Progress) bool { return p.Stats.SpinsTotal >= 600 }},
	{Level: 41, RewardW: 21_000, Check: func(p model.Progress) bool { return p.Stats.DailyClaims >= 20 }},
	{Level: 42, RewardW: 22_000, Check: func(p model.Progress) bool { return p.Stats.UsedTotal() >= 40 }},
	{Level: 43, RewardW: 23_000, Check: func(p model.Progress) bool { return p.Stats.SpinsX2 >= 400 }},
	{Level: 44, RewardW: 24_000, Check: func(p model.Progress) bool { return p.Stats.SectorHits >= 45 }},
	{Level: 45, RewardW: 26_000, MinInvites: 8, Check: func(p model.Progress) bool { return p.Stats.Spins3of10 >= 40 }},
	{Level: 46, RewardW: 28_000, Check: func(p model.Progress) bool { return p.Stats.Wins >= 300 }},
	{Level: 47, RewardW: 30_000, Check: func(p model.Progress) bool { return p.Stats.SpinsX5 >= 200 }},
	{Level: 48, RewardW: 32_000, Check: func(p model.Progress) bool { return p.Stats.DailyClaims >= 30 }},
	{Level: 49, RewardW: 35_000, Check: func(p model.Progress) bool { return p.Stats.SpinsTotal >= 1_000 }},
	{Level: 50, RewardW: 50_000, MinInvites: 10, Check: func(p model.Progress) bool {
		return p.Stats.Spins3of10 >= 60 && p.Stats.Wins >= 400
	}},
}
