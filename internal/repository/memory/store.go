// Package memory хранение состояния игроков в памяти процесса.
// Используется когда PG_DSN не задан и в тестах
package memory

import (
	"context"
	"sync"

	"speen_backend/internal/model"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
)

type playerData struct {
	player    model.Player
	balance   model.Balance
	inventory model.Inventory
	progress  model.Progress
}

// Store Игроки, балансы, бустеры и прогрессия
type Store struct {
	mtx     sync.RWMutex
	players map[string]*playerData
	entries []model.LedgerEntry
}

func NewStore() *Store {
	return &Store{players: make(map[string]*playerData)}
}

func (s *Store) EnsurePlayer(_ context.Context, player model.Player) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if p, ok := s.players[player.ID]; ok {
		p.player.Name = player.Name
		p.player.Photo = player.Photo
		return false, nil
	}
	s.players[player.ID] = &playerData{player: player, inventory: make(model.Inventory)}
	return true, nil
}

func (s *Store) GetPlayer(_ context.Context, id string) (*model.Player, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := p.player
	return &out, nil
}

func (s *Store) GetBalance(_ context.Context, id string) (model.Balance, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return model.Balance{}, model.ErrNotFound
	}
	return p.balance, nil
}

// ApplyDelta Проверка средств до изменения, баланс не меняется при ошибке
func (s *Store) ApplyDelta(_ context.Context, id string, delta model.Delta) (model.Balance, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, ok := s.players[id]
	if !ok {
		return model.Balance{}, model.ErrNotFound
	}
	next, err := delta.ApplyTo(p.balance)
	if err != nil {
		return p.balance, err
	}
	p.balance = next
	s.entries = append(s.entries, model.LedgerEntry{
		ID:       uuid.NewString(),
		PlayerID: id,
		Delta:    delta,
		After:    next,
	})
	return next, nil
}

// Entries Записи аудита игрока
func (s *Store) Entries(id string) []model.LedgerEntry {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var out []model.LedgerEntry
	for _, e := range s.entries {
		if e.PlayerID == id {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) GetInventory(_ context.Context, id string) (model.Inventory, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return model.Inventory{}, nil
	}
	return p.inventory.Clone(), nil
}

func (s *Store) Grant(_ context.Context, id string, kind model.BoosterKind) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, ok := s.players[id]
	if !ok {
		return 0, model.ErrNotFound
	}
	p.inventory[kind]++
	return p.inventory[kind], nil
}

func (s *Store) Consume(_ context.Context, id string, kind model.BoosterKind) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, ok := s.players[id]
	if !ok || p.inventory[kind] <= 0 {
		return 0, model.ErrBoosterNotOwned
	}
	p.inventory[kind]--
	return p.inventory[kind], nil
}

func (s *Store) GetProgress(_ context.Context, id string) (model.Progress, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return model.Progress{}, nil
	}
	return p.progress.Clone(), nil
}

func (s *Store) SaveProgress(_ context.Context, id string, progress model.Progress) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, ok := s.players[id]
	if !ok {
		return model.ErrNotFound
	}
	p.progress = progress.Clone()
	return nil
}

// TxManager Менеджер транзакций без транзакций: функция выполняется как есть.
// Целостность в памяти держится на блокировке игрока и проверках до изменений
type TxManager struct{}

var _ trm.Manager = TxManager{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
