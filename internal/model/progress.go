package model

import "time"

// MaxLevel Последний уровень прогрессии
const MaxLevel = 50

// LevelStats Монотонные счетчики активности игрока.
// Между источниками сливаются по максимуму
type LevelStats struct {
	SpinsTotal     int64                 `json:"spinsTotal"`
	SpinsX2        int64                 `json:"spinsX2"`
	SpinsX5        int64                 `json:"spinsX5"`
	Spins3of10     int64                 `json:"spins3of10"`
	Wins           int64                 `json:"wins"`
	SectorHits     int64                 `json:"sectorHits"`
	Invites        int64                 `json:"invites"`
	DailyClaims    int64                 `json:"dailyClaims"`
	BoostersBought map[BoosterKind]int64 `json:"boostersBought,omitempty"`
	BoostersUsed   map[BoosterKind]int64 `json:"boostersUsed,omitempty"`
}

// Bought Сколько куплено бустеров вида kind
func (s LevelStats) Bought(kind BoosterKind) int64 {
	return s.BoostersBought[kind]
}

// Used Сколько использовано бустеров вида kind
func (s LevelStats) Used(kind BoosterKind) int64 {
	return s.BoostersUsed[kind]
}

// BoughtTotal Всего куплено бустеров
func (s LevelStats) BoughtTotal() int64 {
	var total int64
	for _, v := range s.BoostersBought {
		total += v
	}
	return total
}

// UsedTotal Всего использовано бустеров
func (s LevelStats) UsedTotal() int64 {
	var total int64
	for _, v := range s.BoostersUsed {
		total += v
	}
	return total
}

// Clone Глубокая копия счетчиков
func (s LevelStats) Clone() LevelStats {
	out := s
	out.BoostersBought = cloneCounters(s.BoostersBought)
	out.BoostersUsed = cloneCounters(s.BoostersUsed)
	return out
}

// Merge Слияние по максимуму: каждый счетчик max(local, remote), карты по ключам.
// Коммутативно и идемпотентно
func (s LevelStats) Merge(o LevelStats) LevelStats {
	return LevelStats{
		SpinsTotal:     max(s.SpinsTotal, o.SpinsTotal),
		SpinsX2:        max(s.SpinsX2, o.SpinsX2),
		SpinsX5:        max(s.SpinsX5, o.SpinsX5),
		Spins3of10:     max(s.Spins3of10, o.Spins3of10),
		Wins:           max(s.Wins, o.Wins),
		SectorHits:     max(s.SectorHits, o.SectorHits),
		Invites:        max(s.Invites, o.Invites),
		DailyClaims:    max(s.DailyClaims, o.DailyClaims),
		BoostersBought: mergeCounters(s.BoostersBought, o.BoostersBought),
		BoostersUsed:   mergeCounters(s.BoostersUsed, o.BoostersUsed),
	}
}

func cloneCounters(m map[BoosterKind]int64) map[BoosterKind]int64 {
	if m == nil {
		return nil
	}
	out := make(map[BoosterKind]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func mergeCounters(a, b map[BoosterKind]int64) map[BoosterKind]int64 {
	if a == nil && b == nil {
		return nil
	}
	out := make(map[BoosterKind]int64, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if v > out[k] {
			out[k] = v
		}
	}
	return out
}

// Progress Прогрессия игрока
type Progress struct {
	Level          int
	ClaimedCursor  int
	Stats          LevelStats
	OnboardingDone bool
	LastDailyClaim time.Time
}

// Clone Глубокая копия прогрессии
func (p Progress) Clone() Progress {
	out := p
	out.Stats = p.Stats.Clone()
	return out
}

// Snapshot Снимок для удаленного хранилища
func (p Progress) Snapshot(playerID string) ProgressSnapshot {
	return ProgressSnapshot{
		ID:             playerID,
		Level:          p.Level,
		Stats:          p.Stats.Clone(),
		OnboardingDone: p.OnboardingDone,
	}
}

// ProgressSnapshot То, что хранится в удаленном хранилище прогресса
type ProgressSnapshot struct {
	ID             string     `json:"id"`
	Level          int        `json:"level"`
	Stats          LevelStats `json:"stats"`
	OnboardingDone bool       `json:"onboardingDone"`
}

// ClampLevel Ограничивает уровень диапазоном 0..MaxLevel
func ClampLevel(l int) int {
	if l < 0 {
		return 0
	}
	if l > MaxLevel {
		return MaxLevel
	}
	return l
}
