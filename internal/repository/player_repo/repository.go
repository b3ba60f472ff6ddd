package player_repo

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
	table    = "players"
	colID    = "id"
	colName  = "name"
	colPhoto = "photo"
	colW     = "balance_w"
	colB     = "balance_b"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewPlayerRepository(dbc *pgxpool.Pool) repository.PlayerRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// EnsurePlayer - создает игрока с нулевым балансом, если его еще нет.
// Для существующего обновляет имя и фото. true если игрок создан
func (r *repo) EnsurePlayer(ctx context.Context, player model.Player) (bool, error) {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colID, colName, colPhoto, colW, colB).
		Values(player.ID, player.Name, player.Photo, 0, 0).
		Suffix("ON CONFLICT (" + colID + ") DO UPDATE SET " +
			colName + " = EXCLUDED." + colName + ", " +
			colPhoto + " = EXCLUDED." + colPhoto +
			" RETURNING (xmax = 0)").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	// xmax = 0 только у только что вставленной строки
	var created bool
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&created)
	if err != nil {
		return false, err
	}
	return created, nil
}

// GetPlayer - возвращает игрока (ID, Name, Photo)
func (r *repo) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	query := sq.Select(colID, colName, colPhoto).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var p model.Player
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&p.ID, &p.Name, &p.Photo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}
