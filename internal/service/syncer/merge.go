package syncer

import (
	"speen_backend/internal/model"
	"speen_backend/internal/service/progress"
)

// Merge Слияние локальной прогрессии со снимком: счетчики по максимуму,
// флаги через ИЛИ, уровень по максимуму с автоповышением.
// Курсор клейма остается локальным
func Merge(local model.Progress, remote model.ProgressSnapshot) model.Progress {
	out := local.Clone()
	out.Stats = local.Stats.Merge(remote.Stats)
	out.OnboardingDone = local.OnboardingDone || remote.OnboardingDone
	out.Level = max(model.ClampLevel(local.Level), model.ClampLevel(remote.Level))
	progress.AutoAdvance(&out)
	return out
}

// SameSnapshot Совпадают ли снимки по содержимому
func SameSnapshot(a, b model.ProgressSnapshot) bool {
	if a.Level != b.Level || a.OnboardingDone != b.OnboardingDone {
		return false
	}
	sa, sb := a.Stats, b.Stats
	if sa.SpinsTotal != sb.SpinsTotal ||
		sa.SpinsX2 != sb.SpinsX2 ||
		sa.SpinsX5 != sb.SpinsX5 ||
		sa.Spins3of10 != sb.Spins3of10 ||
		sa.Wins != sb.Wins ||
		sa.SectorHits != sb.SectorHits ||
		sa.Invites != sb.Invites ||
		sa.DailyClaims != sb.DailyClaims {
		return false
	}
	return sameCounters(sa.BoostersBought, sb.BoostersBought) && sameCounters(sa.BoostersUsed, sb.BoostersUsed)
}

// sameCounters пустая карта и nil равны
func sameCounters(a, b map[model.BoosterKind]int64) bool {
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}
	return true
}
