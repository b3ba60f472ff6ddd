package ledger_repo

import (
	"context"
	"errors"
	"time"

	"speen_backend/internal/model"
	"speen_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	playersTable = "players"
	colID        = "id"
	colW         = "balance_w"
	colB         = "balance_b"

	entriesTable = "ledger_entries"
	colEntryID   = "id"
	colPlayerID  = "player_id"
	colDeltaW    = "delta_w"
	colDeltaB    = "delta_b"
	colReason    = "reason"
	colBalanceW  = "balance_w_after"
	colBalanceB  = "balance_b_after"
	colCreatedAt = "created_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewLedgerRepository(dbc *pgxpool.Pool) repository.LedgerRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetBalance - баланс игрока в обеих валютах
func (r *repo) GetBalance(ctx context.Context, id string) (model.Balance, error) {
	query := sq.Select(colW, colB).
		From(playersTable).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return model.Balance{}, err
	}

	var w, b int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&w, &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Balance{}, model.ErrNotFound
		}
		return model.Balance{}, err
	}

	return model.Balance{W: uint64(w), B: uint64(b)}, nil
}

// ApplyDelta - условное обновление баланса: строка меняется только если обе валюты
// остаются неотрицательными. Затем пишется запись аудита
func (r *repo) ApplyDelta(ctx context.Context, id string, delta model.Delta) (model.Balance, error) {
	tr := r.getter.DefaultTrOrDB(ctx, r.dbc)

	// Формируем условный апдейт
	query := sq.Update(playersTable).
		Set(colW, sq.Expr(colW+" + ?", delta.W)).
		Set(colB, sq.Expr(colB+" + ?", delta.B)).
		Where(sq.Eq{colID: id}).
		Where(sq.Expr(colW+" + ? >= 0", delta.W)).
		Where(sq.Expr(colB+" + ? >= 0", delta.B)).
		Suffix("RETURNING " + colW + ", " + colB).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return model.Balance{}, err
	}

	var w, b int64
	err = tr.QueryRow(ctx, sqlStr, args...).Scan(&w, &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Либо игрока нет, либо не хватает средств
			if _, getErr := r.GetBalance(ctx, id); getErr != nil {
				return model.Balance{}, getErr
			}
			return model.Balance{}, model.ErrInsufficientFunds
		}
		return model.Balance{}, err
	}

	// Запись аудита
	insert := sq.Insert(entriesTable).
		Columns(colEntryID, colPlayerID, colDeltaW, colDeltaB, colReason, colBalanceW, colBalanceB, colCreatedAt).
		Values(uuid.NewString(), id, delta.W, delta.B, delta.Reason, w, b, time.Now().UTC()).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err = insert.ToSql()
	if err != nil {
		return model.Balance{}, err
	}

	if _, err = tr.Exec(ctx, sqlStr, args...); err != nil {
		return model.Balance{}, err
	}

	return model.Balance{W: uint64(w), B: uint64(b)}, nil
}
