package progress

import (
	"time"

	"speen_backend/internal/model"
)

// EventKind Вид события, которое двигает счетчики
type EventKind int

const (
	EventSpin EventKind = iota + 1
	EventWin
	EventSectorHit
	EventPyramidSeries
	EventInvite
	EventDailyClaim
	EventBoosterBought
	EventBoosterUsed
)

// Event Событие активности игрока
type Event struct {
	Kind    EventKind
	Mode    model.SpinMode
	Booster model.BoosterKind
}

func Spin(mode model.SpinMode) Event { return Event{Kind: EventSpin, Mode: mode} }

func Win() Event { return Event{Kind: EventWin} }

func SectorHit() Event { return Event{Kind: EventSectorHit} }

func PyramidSeries() Event { return Event{Kind: EventPyramidSeries} }

func Invite() Event { return Event{Kind: EventInvite} }

func DailyClaim() Event { return Event{Kind: EventDailyClaim} }

func BoosterBought(kind model.BoosterKind) Event {
	return Event{Kind: EventBoosterBought, Booster: kind}
}

func BoosterUsed(kind model.BoosterKind) Event {
	return Event{Kind: EventBoosterUsed, Booster: kind}
}

// Record Одно увеличение на событие. Спин Duel/AllIn также двигает счетчик режима
func Record(stats *model.LevelStats, ev Event) {
	switch ev.Kind {
	case EventSpin:
		stats.SpinsTotal++
		switch ev.Mode {
		case model.ModeDuel:
			stats.SpinsX2++
		case model.ModeAllIn:
			stats.SpinsX5++
		}
	case EventWin:
		stats.Wins++
	case EventSectorHit:
		stats.SectorHits++
	case EventPyramidSeries:
		stats.Spins3of10++
	case EventInvite:
		stats.Invites++
	case EventDailyClaim:
		stats.DailyClaims++
	case EventBoosterBought:
		if stats.BoostersBought == nil {
			stats.BoostersBought = make(map[model.BoosterKind]int64)
		}
		stats.BoostersBought[ev.Booster]++
	case EventBoosterUsed:
		if stats.BoostersUsed == nil {
			stats.BoostersUsed = make(map[model.BoosterKind]int64)
		}
		stats.BoostersUsed[ev.Booster]++
	}
}

// IsLevelReady Выполнено ли условие уровня. Нулевой уровень готов всегда
func IsLevelReady(p model.Progress, level int) bool {
	if level <= 0 {
		return true
	}
	if level > model.MaxLevel {
		return false
	}
	req := Requirements[level]
	if p.Stats.Invites < req.MinInvites {
		return false
	}
	return req.Check(p)
}

// AutoAdvance Поднимает уровень, пока следующий готов. Возвращает число новых уровней
func AutoAdvance(p *model.Progress) int {
	p.Level = model.ClampLevel(p.Level)
	gained := 0
	for p.Level < model.MaxLevel && IsLevelReady(*p, p.Level+1) {
		p.Level++
		gained++
	}
	return gained
}

// Apply Записывает события и сразу применяет автоповышение уровня
func Apply(p *model.Progress, events ...Event) int {
	for _, ev := range events {
		Record(&p.Stats, ev)
	}
	return AutoAdvance(p)
}

// CheckClaim Клейм строго по порядку: L == cursor+1, уровень достигнут и условие выполнено
func CheckClaim(p model.Progress, level int) (Requirement, error) {
	if level <= 0 || level > model.MaxLevel {
		return Requirement{}, model.ErrInvalidLevel
	}
	if level != p.ClaimedCursor+1 {
		return Requirement{}, model.ErrSequenceViolation
	}
	if p.Level < level || !IsLevelReady(p, level) {
		return Requirement{}, model.ErrLevelNotReady
	}
	return Requirements[level], nil
}

// SameDay Один ли календарный день по UTC
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
