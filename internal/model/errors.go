package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation Некорректный запрос, без побочных эффектов
	ErrValidation = errors.New("validation error")

	ErrInvalidDigit    = fmt.Errorf("%w: digit must be in 0..9", ErrValidation)
	ErrInvalidSector   = fmt.Errorf("%w: bonus sector must be in 0..9", ErrValidation)
	ErrBetOutOfRange   = fmt.Errorf("%w: bet out of range", ErrValidation)
	ErrInvalidMode     = fmt.Errorf("%w: unknown spin mode", ErrValidation)
	ErrInvalidCurrency = fmt.Errorf("%w: unknown currency", ErrValidation)
	ErrInvalidBooster  = fmt.Errorf("%w: unknown booster", ErrValidation)
	ErrSectorRequired  = fmt.Errorf("%w: bonus sector is required", ErrValidation)
	ErrInvalidLevel    = fmt.Errorf("%w: level out of range", ErrValidation)

	// ErrInsufficientFunds Списание отклонено, баланс не изменен
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBoosterNotOwned Бустера нет в инвентаре, выбор сбрасывается
	ErrBoosterNotOwned = errors.New("booster not owned")

	// ErrSequenceViolation Действие вне очереди (клейм, advance, спин во время серии)
	ErrSequenceViolation = errors.New("sequence violation")

	// ErrLevelNotReady Уровень еще не достигнут
	ErrLevelNotReady = fmt.Errorf("%w: level not reached", ErrSequenceViolation)

	// ErrAlreadyClaimed Ежедневная награда уже получена
	ErrAlreadyClaimed = fmt.Errorf("%w: already claimed today", ErrSequenceViolation)

	// ErrSyncFailure Ошибка синхронизации с удаленным хранилищем
	ErrSyncFailure = errors.New("sync failure")

	ErrNotFound = errors.New("not found")
)
