package booster_repo

import (
	"context"
	"errors"

	"speen_backend/internal/model"
	"speen_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table       = "player_boosters"
	colPlayerID = "player_id"
	colKind     = "kind"
	colCount    = "count"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewBoosterRepository(dbc *pgxpool.Pool) repository.BoosterRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetInventory - все бустеры игрока. Пустой инвентарь если записей нет
func (r *repo) GetInventory(ctx context.Context, id string) (model.Inventory, error) {
	query := sq.Select(colKind, colCount).
		From(table).
		Where(sq.Eq{colPlayerID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inv := make(model.Inventory)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		if count > 0 {
			inv[model.BoosterKind(kind)] = count
		}
	}

	return inv, rows.Err()
}

// Grant - добавляет один бустер, возвращает новое количество
func (r *repo) Grant(ctx context.Context, id string, kind model.BoosterKind) (int, error) {
	query := sq.Insert(table).
		Columns(colPlayerID, colKind, colCount).
		Values(id, string(kind), 1).
		Suffix("ON CONFLICT (" + colPlayerID + ", " + colKind + ") DO UPDATE SET " +
			colCount + " = " + table + "." + colCount + " + 1 RETURNING " + colCount).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Consume - списывает один бустер. Строка меняется только при count > 0
func (r *repo) Consume(ctx context.Context, id string, kind model.BoosterKind) (int, error) {
	query := sq.Update(table).
		Set(colCount, sq.Expr(colCount+" - 1")).
		Where(sq.Eq{colPlayerID: id, colKind: string(kind)}).
		Where(sq.Gt{colCount: 0}).
		Suffix("RETURNING " + colCount).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrBoosterNotOwned
		}
		return 0, err
	}

	return count, nil
}
