package repository

import (
	"context"

	"speen_backend/internal/model"
)

type PlayerRepository interface {
	// EnsurePlayer создает игрока при первом контакте, обновляет имя и фото.
	// true если игрок только что создан
	EnsurePlayer(ctx context.Context, player model.Player) (bool, error)
	GetPlayer(ctx context.Context, id string) (*model.Player, error)
}

type LedgerRepository interface {
	GetBalance(ctx context.Context, id string) (model.Balance, error)
	// ApplyDelta атомарно применяет изменение и пишет запись аудита.
	// ErrInsufficientFunds если баланс уходит в минус
	ApplyDelta(ctx context.Context, id string, delta model.Delta) (model.Balance, error)
}

type BoosterRepository interface {
	GetInventory(ctx context.Context, id string) (model.Inventory, error)
	Grant(ctx context.Context, id string, kind model.BoosterKind) (int, error)
	// Consume ErrBoosterNotOwned если бустеров нет
	Consume(ctx context.Context, id string, kind model.BoosterKind) (int, error)
}

type ProgressRepository interface {
	// GetProgress нулевая прогрессия если записи нет
	GetProgress(ctx context.Context, id string) (model.Progress, error)
	SaveProgress(ctx context.Context, id string, progress model.Progress) error
}

// SessionRepository Состояние игровой сессии: серия пирамиды, выбранный бустер,
// бесплатный спин и счетчик spin-id. Записи идут в транзакции вместе со списанием
type SessionRepository interface {
	GetPyramid(ctx context.Context, playerID string) (*model.PyramidSession, error)
	SavePyramid(ctx context.Context, session *model.PyramidSession) error
	DeletePyramid(ctx context.Context, playerID string) error
	// ListPyramids незавершенные серии всех игроков, для восстановления таймеров после рестарта
	ListPyramids(ctx context.Context) ([]*model.PyramidSession, error)

	GetSelectedBooster(ctx context.Context, playerID string) (*model.BoosterKind, error)
	SetSelectedBooster(ctx context.Context, playerID string, kind *model.BoosterKind) error

	GetFreeSpin(ctx context.Context, playerID string) (*model.FreeSpin, error)
	SetFreeSpin(ctx context.Context, playerID string, spin *model.FreeSpin) error

	NextSpinID(ctx context.Context, playerID string) (int64, error)
}

type RemoteProgressRepository interface {
	// Fetch nil без ошибки если снимка нет
	Fetch(ctx context.Context, id string) (*model.ProgressSnapshot, error)
	Upsert(ctx context.Context, snapshot model.ProgressSnapshot) error
}

type LeaderboardRepository interface {
	Project(ctx context.Context, entry model.LeaderboardEntry) error
}

type RTPStatsRepository interface {
	UpdateState(mode model.SpinMode, bet, payout int64)
	State(mode model.SpinMode) model.RTPState
}
