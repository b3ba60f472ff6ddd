package memory

import (
	"context"
	"sync"

	"speen_backend/internal/model"
)

// Remote Удаленное хранилище прогресса в памяти процесса
type Remote struct {
	mtx   sync.RWMutex
	items map[string]model.ProgressSnapshot
	err   error
}

func NewRemote() *Remote {
	return &Remote{items: make(map[string]model.ProgressSnapshot)}
}

// FailWith Все следующие операции возвращают err (nil снимает отказ)
func (r *Remote) FailWith(err error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.err = err
}

func (r *Remote) Fetch(_ context.Context, id string) (*model.ProgressSnapshot, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	if r.err != nil {
		return nil, r.err
	}
	snap, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	snap.Stats = snap.Stats.Clone()
	return &snap, nil
}

func (r *Remote) Upsert(_ context.Context, snapshot model.ProgressSnapshot) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.err != nil {
		return r.err
	}
	snapshot.Stats = snapshot.Stats.Clone()
	r.items[snapshot.ID] = snapshot
	return nil
}

// Leaderboard Последняя проекция каждого игрока
type Leaderboard struct {
	mtx     sync.RWMutex
	entries map[string]model.LeaderboardEntry
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{entries: make(map[string]model.LeaderboardEntry)}
}

func (l *Leaderboard) Project(_ context.Context, entry model.LeaderboardEntry) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.entries[entry.ID] = entry
	return nil
}

func (l *Leaderboard) Entry(id string) (model.LeaderboardEntry, bool) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	e, ok := l.entries[id]
	return e, ok
}
