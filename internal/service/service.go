package service

import (
	"context"

	"speen_backend/internal/model"
)

// TaskRunner Фоновое выполнение задач. *ants.Pool подходит
type TaskRunner interface {
	Submit(task func()) error
}

// SyncNotifier Сигнал что локальное состояние игрока изменилось
type SyncNotifier interface {
	Notify(playerID string)
}

type LedgerService interface {
	Balance(ctx context.Context, playerID string) (model.Balance, error)
	// Apply присоединяется к транзакции вызывающего, вызывается под блокировкой игрока
	Apply(ctx context.Context, playerID string, delta model.Delta) (model.Balance, error)
	// Publish после коммита: проекция в лидерборд и пуш синхронизации
	Publish(ctx context.Context, playerID string)
}

type BoosterService interface {
	Inventory(ctx context.Context, playerID string) (model.Inventory, *model.BoosterKind, error)
	Grant(ctx context.Context, playerID string, kind model.BoosterKind) (model.Inventory, error)
	Buy(ctx context.Context, playerID string, kind model.BoosterKind) (model.Inventory, model.Balance, error)
	Select(ctx context.Context, playerID string, kind *model.BoosterKind) error
}

type SpinService interface {
	Spin(ctx context.Context, playerID string, req model.SpinRequest) (*model.SpinOutcome, error)
}

type PyramidService interface {
	Arm(ctx context.Context, playerID string, req model.SpinRequest) (*model.PyramidSession, error)
	Advance(ctx context.Context, playerID string, spinID int64) (*model.PyramidStep, error)
	Cancel(ctx context.Context, playerID string) error
	Get(ctx context.Context, playerID string) (*model.PyramidSession, error)
	// Restore таймеры автоспинов для серий, переживших рестарт
	Restore(ctx context.Context) (int, error)
}

type ProgressService interface {
	Progress(ctx context.Context, playerID string) (model.Progress, error)
	Claim(ctx context.Context, playerID string, level int) (model.Progress, model.Balance, error)
	CompleteOnboarding(ctx context.Context, playerID string) (model.Progress, error)
	RecordInvite(ctx context.Context, playerID string) (model.Progress, error)
	ClaimDaily(ctx context.Context, playerID string) (model.Progress, model.Balance, error)
}

type SyncService interface {
	SyncNotifier
	Pull(ctx context.Context, playerID string) (model.Progress, error)
	ApplyRemoteSnapshot(ctx context.Context, playerID string, snapshot model.ProgressSnapshot) (model.Progress, error)
	Close()
}

type PlayerService interface {
	// Identify регистрирует игрока при первом контакте и подтягивает удаленный прогресс
	Identify(ctx context.Context, player model.Player) error
}
